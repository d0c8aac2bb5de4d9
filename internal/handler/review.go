package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/tonythefreedom/noble-back/internal/ctxkeys"
	"github.com/tonythefreedom/noble-back/internal/model"
	"github.com/tonythefreedom/noble-back/internal/repository"
	"github.com/tonythefreedom/noble-back/internal/service"
)

const maxMultipartMemory = 32 << 20

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// List returns one page of reviews filtered by status.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 6
	status := model.StatusPublished

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondDetail(w, http.StatusBadRequest, "page는 1 이상이어야 합니다.")
			return
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			respondDetail(w, http.StatusBadRequest, "limit은 1 이상 50 이하여야 합니다.")
			return
		}
		limit = n
	}
	if v := q.Get("status"); v != "" {
		status = model.Status(v)
	}

	list, err := h.reviewService.List(page, limit, status)
	if err != nil {
		slog.Error("failed to list reviews", "error", err)
		respondDetail(w, http.StatusInternalServerError, "리뷰 목록 조회 중 오류가 발생했습니다.")
		return
	}

	respondData(w, http.StatusOK, list)
}

// Get returns one review with its images.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.reviewService.Get(id)
	if err != nil {
		h.respondError(w, err, "리뷰 조회 중 오류가 발생했습니다.")
		return
	}

	respondData(w, http.StatusOK, detail)
}

// Create stores a new review with attached image files (multipart form).
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "rating은 숫자여야 합니다.")
		return
	}

	// The dashboard also submits a userName form field; it is accepted and
	// ignored since responses always show the redacted display name.
	input := service.CreateReviewInput{
		Team:         r.FormValue("team"),
		Title:        r.FormValue("title"),
		Content:      r.FormValue("content"),
		FromLocation: r.FormValue("fromLocation"),
		ToLocation:   r.FormValue("toLocation"),
		FromDate:     r.FormValue("fromDate"),
		ToDate:       r.FormValue("toDate"),
		Rating:       rating,
	}

	user := ctxkeys.User(r.Context())
	id, err := h.reviewService.Create(input, user.ID, formFiles(r, "images"))
	if err != nil {
		h.respondError(w, err, "리뷰 생성 중 오류가 발생했습니다.")
		return
	}

	respondMessage(w, http.StatusOK, "리뷰가 성공적으로 생성되었습니다.", map[string]any{
		"review_id": id,
	})
}

// Update applies a partial update plus image removals/additions.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	input := service.UpdateReviewInput{
		Team:         formOptional(r, "team"),
		Title:        formOptional(r, "title"),
		Content:      formOptional(r, "content"),
		FromLocation: formOptional(r, "fromLocation"),
		ToLocation:   formOptional(r, "toLocation"),
		FromDate:     formOptional(r, "fromDate"),
		ToDate:       formOptional(r, "toDate"),
	}

	if v := formOptional(r, "rating"); v != nil {
		rating, err := strconv.Atoi(*v)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "rating은 숫자여야 합니다.")
			return
		}
		input.Rating = &rating
	}
	if v := formOptional(r, "status"); v != nil {
		status := model.Status(*v)
		input.Status = &status
	}

	removeIDs, err := formIDs(r, "remove_existing_images")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "remove_existing_images는 숫자 목록이어야 합니다.")
		return
	}

	review, err := h.reviewService.Update(id, input, removeIDs, formFiles(r, "images"))
	if err != nil {
		h.respondError(w, err, "리뷰 수정 중 오류가 발생했습니다.")
		return
	}

	respondMessage(w, http.StatusOK, "리뷰가 성공적으로 수정되었습니다.", map[string]any{
		"review_id":  review.ID,
		"updated_at": review.UpdatedAt,
	})
}

// Delete removes a review, its image rows, and its stored files.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.reviewService.Delete(id)
	if err != nil {
		h.respondError(w, err, "리뷰 삭제 중 오류가 발생했습니다.")
		return
	}

	respondMessage(w, http.StatusOK, "리뷰가 성공적으로 삭제되었습니다.", nil)
}

func (h *ReviewHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrReviewNotFound):
		respondDetail(w, http.StatusNotFound, "리뷰를 찾을 수 없습니다.")
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidFile):
		respondDetail(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("review operation failed", "error", err)
		respondDetail(w, http.StatusInternalServerError, fallback)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondDetail(w, http.StatusNotFound, "리뷰를 찾을 수 없습니다.")
		return 0, false
	}
	return id, true
}

// formOptional distinguishes an absent field from an empty one so partial
// updates only touch supplied fields.
func formOptional(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formFiles(r *http.Request, key string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[key]
}

func formIDs(r *http.Request, key string) ([]int64, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	values := r.MultipartForm.Value[key]
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
