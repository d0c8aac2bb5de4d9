package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/tonythefreedom/noble-back/internal/model"
	"github.com/tonythefreedom/noble-back/internal/repository"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus = errors.New("invalid review status")
)

// redactedUserName is what the public list/detail views show instead of the
// reviewer's name.
const redactedUserName = "**님"

type ReviewService struct {
	reviewRepository repository.ReviewRepository
	imageRepository  repository.ImageRepository
	fileService      *FileService
}

func NewReviewService(reviewRepository repository.ReviewRepository, imageRepository repository.ImageRepository, fileService *FileService) *ReviewService {
	return &ReviewService{
		reviewRepository: reviewRepository,
		imageRepository:  imageRepository,
		fileService:      fileService,
	}
}

// ImageDetail is the per-image payload attached to review responses.
type ImageDetail struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	SortOrder int    `json:"sort_order"`
}

type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// ReviewListItem carries both the raw columns and the aliased display fields
// the dashboard binds to.
type ReviewListItem struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	Team         string        `json:"team"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	FromLocation string        `json:"from_location"`
	ToLocation   string        `json:"to_location"`
	FromDate     string        `json:"from_date"`
	ToDate       string        `json:"to_date"`
	Rating       int           `json:"rating"`
	Status       model.Status  `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	UserName     string        `json:"userName"`
	Date         string        `json:"date"`
	Image        string        `json:"image"`
	Images       []string      `json:"images"`
	ImagesDetail []ImageDetail `json:"images_detail"`
}

type ReviewList struct {
	Reviews    []ReviewListItem `json:"reviews"`
	Pagination Pagination       `json:"pagination"`
}

// ReviewDetail is the single-review payload. Field names follow the
// dashboard's detail view, which uses camelCase aliases for the location and
// date columns.
type ReviewDetail struct {
	ID           int64         `json:"id"`
	Team         string        `json:"team"`
	Title        string        `json:"title"`
	UserName     string        `json:"userName"`
	Date         string        `json:"date"`
	FromLocation string        `json:"fromLocation"`
	ToLocation   string        `json:"toLocation"`
	FromDate     string        `json:"fromDate"`
	ToDate       string        `json:"toDate"`
	Rating       int           `json:"rating"`
	Image        string        `json:"image"`
	Images       []string      `json:"images"`
	Content      string        `json:"content"`
	CreatedAt    time.Time     `json:"created_at"`
	ImagesDetail []ImageDetail `json:"images_detail"`
}

type CreateReviewInput struct {
	Team         string
	Title        string
	Content      string
	FromLocation string
	ToLocation   string
	FromDate     string
	ToDate       string
	Rating       int
}

// UpdateReviewInput carries a partial update; nil fields stay untouched.
type UpdateReviewInput struct {
	Team         *string
	Title        *string
	Content      *string
	FromLocation *string
	ToLocation   *string
	FromDate     *string
	ToDate       *string
	Rating       *int
	Status       *model.Status
}

// List returns one page of reviews with the given status, newest first.
func (s *ReviewService) List(page, limit int, status model.Status) (*ReviewList, error) {
	total, err := s.reviewRepository.CountByStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	reviews, err := s.reviewRepository.ListByStatus(status, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	now := time.Now()
	items := make([]ReviewListItem, 0, len(reviews))
	for _, review := range reviews {
		details, err := s.imageDetails(review.ID)
		if err != nil {
			return nil, err
		}

		items = append(items, ReviewListItem{
			ID:           review.ID,
			UserID:       review.UserID,
			Team:         review.Team,
			Title:        review.Title,
			Content:      review.Content,
			FromLocation: review.FromLocation,
			ToLocation:   review.ToLocation,
			FromDate:     review.FromDate,
			ToDate:       review.ToDate,
			Rating:       review.Rating,
			Status:       review.Status,
			CreatedAt:    review.CreatedAt,
			UpdatedAt:    review.UpdatedAt,
			UserName:     redactedUserName,
			Date:         relativeAge(review.CreatedAt, now),
			Image:        mainImage(details),
			Images:       imageURLs(details),
			ImagesDetail: details,
		})
	}

	return &ReviewList{
		Reviews: items,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

// Get returns the detail payload for one review.
func (s *ReviewService) Get(id int64) (*ReviewDetail, error) {
	review, err := s.reviewRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	details, err := s.imageDetails(review.ID)
	if err != nil {
		return nil, err
	}

	return &ReviewDetail{
		ID:           review.ID,
		Team:         review.Team,
		Title:        review.Title,
		UserName:     redactedUserName,
		Date:         relativeAge(review.CreatedAt, time.Now()),
		FromLocation: review.FromLocation,
		ToLocation:   review.ToLocation,
		FromDate:     review.FromDate,
		ToDate:       review.ToDate,
		Rating:       review.Rating,
		Image:        mainImage(details),
		Images:       imageURLs(details),
		Content:      review.Content,
		CreatedAt:    review.CreatedAt,
		ImagesDetail: details,
	}, nil
}

// Create persists a new published review and its attached images. Image sort
// order is the file's position in the upload list.
func (s *ReviewService) Create(input CreateReviewInput, ownerID int64, files []*multipart.FileHeader) (int64, error) {
	if !model.ValidRating(input.Rating) {
		return 0, ErrInvalidRating
	}

	now := time.Now()
	review := &model.Review{
		UserID:       ownerID,
		Team:         input.Team,
		Title:        input.Title,
		Content:      input.Content,
		FromLocation: input.FromLocation,
		ToLocation:   input.ToLocation,
		FromDate:     input.FromDate,
		ToDate:       input.ToDate,
		Rating:       input.Rating,
		Status:       model.StatusPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.reviewRepository.Create(review)
	if err != nil {
		return 0, fmt.Errorf("failed to create review: %w", err)
	}

	_, err = s.attachImages(review.ID, files, 0)
	if err != nil {
		return 0, err
	}

	return review.ID, nil
}

// Update applies a partial update, removes the requested images (rows and
// backing files), and appends any new uploads. New images take sort orders
// continuing from the post-removal image count so the sequence has no gaps.
func (s *ReviewService) Update(id int64, input UpdateReviewInput, removeImageIDs []int64, files []*multipart.FileHeader) (*model.Review, error) {
	review, err := s.reviewRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	if input.Team != nil {
		review.Team = *input.Team
	}
	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Content != nil {
		review.Content = *input.Content
	}
	if input.FromLocation != nil {
		review.FromLocation = *input.FromLocation
	}
	if input.ToLocation != nil {
		review.ToLocation = *input.ToLocation
	}
	if input.FromDate != nil {
		review.FromDate = *input.FromDate
	}
	if input.ToDate != nil {
		review.ToDate = *input.ToDate
	}
	if input.Rating != nil {
		if !model.ValidRating(*input.Rating) {
			return nil, ErrInvalidRating
		}
		review.Rating = *input.Rating
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		review.Status = *input.Status
	}

	review.UpdatedAt = time.Now()
	err = s.reviewRepository.Update(review)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.removeImages(removeImageIDs)

	count, err := s.imageRepository.CountByReviewID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}

	_, err = s.attachImages(id, files, count)
	if err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review, its image rows, and then its backing files.
// File cleanup runs after the database transaction commits and is
// best-effort: a missing file never fails the delete.
func (s *ReviewService) Delete(id int64) error {
	images, err := s.imageRepository.ByReviewID(id)
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}

	err = s.reviewRepository.Delete(id)
	if err != nil {
		return err
	}

	for _, img := range images {
		if !s.fileService.Delete(img.ImageFilename) {
			slog.Warn("review image file missing during cleanup", "review_id", id, "filename", img.ImageFilename)
		}
	}

	return nil
}

// ReplaceImages handles the dedicated image-replace operation: remove the
// listed images, then append the new uploads.
func (s *ReviewService) ReplaceImages(id int64, files []*multipart.FileHeader, removeImageIDs []int64) (added []ImageDetail, removed []int64, err error) {
	_, err = s.reviewRepository.ByID(id)
	if err != nil {
		return nil, nil, err
	}

	removed = s.removeImages(removeImageIDs)

	count, err := s.imageRepository.CountByReviewID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count images: %w", err)
	}

	added, err = s.attachImages(id, files, count)
	if err != nil {
		return nil, nil, err
	}

	return added, removed, nil
}

// attachImages saves the uploads that pass validation and records them with
// sort orders starting at base, returning the stored image details.
func (s *ReviewService) attachImages(reviewID int64, files []*multipart.FileHeader, base int) ([]ImageDetail, error) {
	saved := s.fileService.SaveAll(files)
	details := make([]ImageDetail, 0, len(saved))
	for i, name := range saved {
		image := &model.ReviewImage{
			ReviewID:      reviewID,
			ImageURL:      s.fileService.URL(name),
			ImageFilename: name,
			SortOrder:     base + i,
			CreatedAt:     time.Now(),
		}
		err := s.imageRepository.Create(image)
		if err != nil {
			return nil, fmt.Errorf("failed to create image record: %w", err)
		}
		details = append(details, ImageDetail{
			ID:        image.ID,
			ImageURL:  image.ImageURL,
			SortOrder: image.SortOrder,
		})
	}

	return details, nil
}

// removeImages deletes image rows and their backing files. Unknown ids are
// skipped; file-deletion failures are swallowed.
func (s *ReviewService) removeImages(ids []int64) []int64 {
	removed := make([]int64, 0, len(ids))
	for _, imgID := range ids {
		img, err := s.imageRepository.ByID(imgID)
		if err != nil {
			continue
		}

		if !s.fileService.Delete(img.ImageFilename) {
			slog.Warn("image file missing during removal", "image_id", imgID, "filename", img.ImageFilename)
		}

		err = s.imageRepository.Delete(imgID)
		if err != nil {
			slog.Error("failed to delete image record", "image_id", imgID, "error", err)
			continue
		}
		removed = append(removed, imgID)
	}
	return removed
}

func (s *ReviewService) imageDetails(reviewID int64) ([]ImageDetail, error) {
	images, err := s.imageRepository.ByReviewID(reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	details := make([]ImageDetail, 0, len(images))
	for _, img := range images {
		details = append(details, ImageDetail{
			ID:        img.ID,
			ImageURL:  s.fileService.URL(img.ImageFilename),
			SortOrder: img.SortOrder,
		})
	}
	return details, nil
}

func mainImage(details []ImageDetail) string {
	if len(details) == 0 {
		return ""
	}
	return details[0].ImageURL
}

func imageURLs(details []ImageDetail) []string {
	urls := make([]string, 0, len(details))
	for _, d := range details {
		urls = append(urls, d.ImageURL)
	}
	return urls
}

// relativeAge renders the age of a review the way the dashboard displays it:
// minutes/hours/days for the first week, then the plain date.
func relativeAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "방금 전"
	case d < time.Hour:
		return fmt.Sprintf("%d분전", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d시간전", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d일전", int(d.Hours()/24))
	default:
		return t.Format("2006.01.02")
	}
}
