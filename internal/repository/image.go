package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/tonythefreedom/noble-back/internal/model"
)

var (
	ErrImageNotFound = errors.New("image not found")
)

type ImageRepository interface {
	Create(image *model.ReviewImage) error
	ByID(id int64) (*model.ReviewImage, error)
	ByReviewID(reviewID int64) ([]*model.ReviewImage, error)
	CountByReviewID(reviewID int64) (int, error)
	Delete(id int64) error
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(image *model.ReviewImage) error {
	query := `INSERT INTO review_images (review_id, image_url, image_filename, image_size, image_mime_type, sort_order, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	return r.db.Get(&image.ID, query,
		image.ReviewID,
		image.ImageURL,
		image.ImageFilename,
		image.ImageSize,
		image.ImageMimeType,
		image.SortOrder,
		image.CreatedAt,
	)
}

func (r *imageRepository) ByID(id int64) (*model.ReviewImage, error) {
	image := &model.ReviewImage{}
	query := `SELECT * FROM review_images WHERE id = $1`

	err := r.db.Get(image, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrImageNotFound
	}

	return image, err
}

func (r *imageRepository) ByReviewID(reviewID int64) ([]*model.ReviewImage, error) {
	var images []*model.ReviewImage
	// Insertion order (id) breaks sort_order ties
	query := `SELECT * FROM review_images WHERE review_id = $1 ORDER BY sort_order ASC, id ASC`

	err := r.db.Select(&images, query, reviewID)
	if err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) CountByReviewID(reviewID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM review_images WHERE review_id = $1`
	err := r.db.QueryRow(query, reviewID).Scan(&count)
	return count, err
}

func (r *imageRepository) Delete(id int64) error {
	query := `DELETE FROM review_images WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrImageNotFound
	}

	return nil
}
