package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tonythefreedom/noble-back/internal/model"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

type ReviewRepository interface {
	Create(review *model.Review) error
	ByID(id int64) (*model.Review, error)
	ListByStatus(status model.Status, offset, limit int) ([]*model.Review, error)
	CountByStatus(status model.Status) (int, error)
	Update(review *model.Review) error
	// Delete removes the review and its image rows in one transaction.
	Delete(id int64) error
}

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	query := `INSERT INTO reviews (user_id, team, title, content, from_location, to_location, from_date, to_date, rating, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`

	return r.db.Get(&review.ID, query,
		review.UserID,
		review.Team,
		review.Title,
		review.Content,
		review.FromLocation,
		review.ToLocation,
		review.FromDate,
		review.ToDate,
		review.Rating,
		review.Status,
		review.CreatedAt,
		review.UpdatedAt,
	)
}

func (r *reviewRepository) ByID(id int64) (*model.Review, error) {
	review := &model.Review{}
	query := `SELECT * FROM reviews WHERE id = $1`

	err := r.db.Get(review, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}

	return review, err
}

func (r *reviewRepository) ListByStatus(status model.Status, offset, limit int) ([]*model.Review, error) {
	var reviews []*model.Review
	query := `SELECT * FROM reviews WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	err := r.db.Select(&reviews, query, status, limit, offset)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) CountByStatus(status model.Status) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reviews WHERE status = $1`
	err := r.db.QueryRow(query, status).Scan(&count)
	return count, err
}

func (r *reviewRepository) Update(review *model.Review) error {
	query := `UPDATE reviews
	          SET team = $1, title = $2, content = $3, from_location = $4, to_location = $5,
	              from_date = $6, to_date = $7, rating = $8, status = $9, updated_at = $10
	          WHERE id = $11`

	result, err := r.db.Exec(query,
		review.Team,
		review.Title,
		review.Content,
		review.FromLocation,
		review.ToLocation,
		review.FromDate,
		review.ToDate,
		review.Rating,
		review.Status,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *reviewRepository) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Image rows first, then the review row. The FK cascade would cover the
	// images too, but doing it explicitly keeps the delete correct when
	// foreign keys are disabled on a SQLite connection.
	_, err = tx.Exec(`DELETE FROM review_images WHERE review_id = $1`, id)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrReviewNotFound
	}

	return tx.Commit()
}
