package model

import (
	"time"
)

type ReviewImage struct {
	ID            int64     `db:"id"`
	ReviewID      int64     `db:"review_id"`
	ImageURL      string    `db:"image_url"`
	ImageFilename string    `db:"image_filename"`
	ImageSize     *int64    `db:"image_size"`
	ImageMimeType *string   `db:"image_mime_type"`
	SortOrder     int       `db:"sort_order"` // display position, never renumbered on deletion
	CreatedAt     time.Time `db:"created_at"`
}

// AdminSession mirrors the admin_sessions table. The table exists for schema
// parity with the original dashboard backend; the stateless JWT auth path
// never reads or writes it.
type AdminSession struct {
	ID           int64     `db:"id"`
	SessionToken string    `db:"session_token"`
	UserID       int64     `db:"user_id"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
}
