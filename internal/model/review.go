package model

import (
	"time"
)

// Status is the review lifecycle state. Only "published" is ever set by the
// handlers; "draft" and "deleted" remain reachable through partial updates.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusDeleted
}

const (
	RatingMin = 1
	RatingMax = 5
)

type Review struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Team         string    `db:"team"`
	Title        string    `db:"title"`
	Content      string    `db:"content"`
	FromLocation string    `db:"from_location"`
	ToLocation   string    `db:"to_location"`
	FromDate     string    `db:"from_date"` // free-form, not validated as a date
	ToDate       string    `db:"to_date"`
	Rating       int       `db:"rating"`
	Status       Status    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func ValidRating(r int) bool {
	return r >= RatingMin && r <= RatingMax
}
