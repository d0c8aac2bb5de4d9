package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tonythefreedom/noble-back/internal/repository"
	"github.com/tonythefreedom/noble-back/internal/service"
)

type ImageHandler struct {
	fileService   *service.FileService
	reviewService *service.ReviewService
}

func NewImageHandler(fileService *service.FileService, reviewService *service.ReviewService) *ImageHandler {
	return &ImageHandler{
		fileService:   fileService,
		reviewService: reviewService,
	}
}

// Upload stores a single standalone image and returns its URL and metadata.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "image 파일이 필요합니다.")
		return
	}
	defer func() { _ = file.Close() }()

	name, err := h.fileService.Save(header)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFile) {
			respondDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("image upload failed", "error", err, "filename", header.Filename)
		respondDetail(w, http.StatusInternalServerError, "이미지 업로드 중 오류가 발생했습니다.")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"image_url": h.fileService.URL(name),
		"filename":  name,
		"size":      header.Size,
		"mime_type": header.Header.Get("Content-Type"),
	})
}

// Delete removes a stored image by filename. 404 when absent.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	if !h.fileService.Delete(filename) {
		respondDetail(w, http.StatusNotFound, "이미지를 찾을 수 없습니다.")
		return
	}

	respondMessage(w, http.StatusOK, "이미지가 성공적으로 삭제되었습니다.", nil)
}

// ReplaceReviewImages removes the listed review images and appends new
// uploads in one request.
func (h *ImageHandler) ReplaceReviewImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	removeIDs, err := formIDs(r, "remove_images")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "remove_images는 숫자 목록이어야 합니다.")
		return
	}

	added, removed, err := h.reviewService.ReplaceImages(id, formFiles(r, "images"), removeIDs)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			respondDetail(w, http.StatusNotFound, "리뷰를 찾을 수 없습니다.")
			return
		}
		slog.Error("review image replace failed", "error", err, "review_id", id)
		respondDetail(w, http.StatusInternalServerError, "리뷰 이미지 수정 중 오류가 발생했습니다.")
		return
	}

	respondMessage(w, http.StatusOK, "리뷰 이미지가 성공적으로 수정되었습니다.", map[string]any{
		"added_images":   added,
		"removed_images": removed,
	})
}
