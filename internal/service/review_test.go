package service

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tonythefreedom/noble-back/internal/db"
	"github.com/tonythefreedom/noble-back/internal/model"
	"github.com/tonythefreedom/noble-back/internal/repository"
	"github.com/tonythefreedom/noble-back/internal/storage"
	"github.com/tonythefreedom/noble-back/internal/validation"
)

type testEnv struct {
	db        *sqlx.DB
	reviews   *ReviewService
	imageRepo repository.ImageRepository
	uploadDir string
	ownerID   int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	uploadDir := t.TempDir()
	store, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}

	constraints := validation.NewFileConstraints([]string{"image/jpeg", "image/png"}, 5<<20)
	fileService := NewFileService(store, constraints)

	userRepo := repository.NewUserRepository(database)
	now := time.Now()
	owner := &model.User{
		Username:     "tony",
		PasswordHash: "x",
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = userRepo.Create(owner)
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	reviewRepo := repository.NewReviewRepository(database)
	imageRepo := repository.NewImageRepository(database)

	return &testEnv{
		db:        database,
		reviews:   NewReviewService(reviewRepo, imageRepo, fileService),
		imageRepo: imageRepo,
		uploadDir: uploadDir,
		ownerID:   owner.ID,
	}
}

// makeUploads builds real multipart file headers the way the HTTP layer
// produces them.
func makeUploads(t *testing.T, contentType string, names ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, name))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		_, _ = part.Write([]byte("image-bytes-" + name))
	}
	_ = w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["images"]
}

func sampleInput() CreateReviewInput {
	return CreateReviewInput{
		Team:         "A팀",
		Title:        "이사 잘했습니다",
		Content:      "친절하고 빨랐어요",
		FromLocation: "서울",
		ToLocation:   "부산",
		FromDate:     "2025-08-01",
		ToDate:       "2025-08-02",
		Rating:       5,
	}
}

func TestListEmpty(t *testing.T) {
	env := newTestEnv(t)

	list, err := env.reviews.List(1, 6, model.StatusPublished)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if list.Pagination.TotalItems != 0 {
		t.Errorf("expected 0 total items, got %d", list.Pagination.TotalItems)
	}
	if list.Pagination.TotalPages != 0 {
		t.Errorf("expected 0 total pages, got %d", list.Pagination.TotalPages)
	}
	if len(list.Reviews) != 0 {
		t.Errorf("expected no reviews, got %d", len(list.Reviews))
	}
}

func TestCreateWithImagesOrdered(t *testing.T) {
	env := newTestEnv(t)

	files := makeUploads(t, "image/png", "a.png", "b.png", "c.png")
	id, err := env.reviews.Create(sampleInput(), env.ownerID, files)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	images, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(images))
	}
	for i, img := range images {
		if img.SortOrder != i {
			t.Errorf("image %d: expected sort order %d, got %d", i, i, img.SortOrder)
		}
		if _, err := os.Stat(filepath.Join(env.uploadDir, img.ImageFilename)); err != nil {
			t.Errorf("image %d: file not written: %v", i, err)
		}
	}

	detail, err := env.reviews.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.Image != detail.ImagesDetail[0].ImageURL {
		t.Errorf("main image %q does not match first image %q", detail.Image, detail.ImagesDetail[0].ImageURL)
	}
	if detail.ImagesDetail[0].SortOrder != 0 {
		t.Errorf("expected first image sort order 0, got %d", detail.ImagesDetail[0].SortOrder)
	}
	if detail.UserName != "**님" {
		t.Errorf("expected redacted userName, got %q", detail.UserName)
	}
}

func TestCreateRejectsBadRating(t *testing.T) {
	env := newTestEnv(t)

	for _, rating := range []int{0, -1, 6, 100} {
		input := sampleInput()
		input.Rating = rating
		_, err := env.reviews.Create(input, env.ownerID, nil)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestCreateSkipsInvalidFiles(t *testing.T) {
	env := newTestEnv(t)

	files := makeUploads(t, "application/zip", "a.zip", "b.zip")
	id, err := env.reviews.Create(sampleInput(), env.ownerID, files)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	images, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("expected invalid files to be skipped, got %d images", len(images))
	}
}

func TestGetNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reviews.Get(9999)
	if !errors.Is(err, repository.ErrReviewNotFound) {
		t.Errorf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.reviews.Create(sampleInput(), env.ownerID, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newTitle := "수정된 제목"
	updated, err := env.reviews.Update(id, UpdateReviewInput{Title: &newTitle}, nil, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != newTitle {
		t.Errorf("expected title %q, got %q", newTitle, updated.Title)
	}
	if updated.Team != "A팀" {
		t.Errorf("unsupplied field changed: team = %q", updated.Team)
	}
	if updated.Rating != 5 {
		t.Errorf("unsupplied field changed: rating = %d", updated.Rating)
	}
}

func TestUpdateRejectsBadRatingAndStatus(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.reviews.Create(sampleInput(), env.ownerID, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bad := 0
	_, err = env.reviews.Update(id, UpdateReviewInput{Rating: &bad}, nil, nil)
	if !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating, got %v", err)
	}

	badStatus := model.Status("archived")
	_, err = env.reviews.Update(id, UpdateReviewInput{Status: &badStatus}, nil, nil)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateRemoveAndAppendImages(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.reviews.Create(sampleInput(), env.ownerID, makeUploads(t, "image/png", "a.png", "b.png", "c.png"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	images, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}
	removedName := images[1].ImageFilename

	_, err = env.reviews.Update(id, UpdateReviewInput{}, []int64{images[1].ID}, makeUploads(t, "image/png", "d.png"))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	after, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}
	if len(after) != 3 {
		t.Fatalf("expected 3 images after remove+append, got %d", len(after))
	}
	// Appended image continues from the post-removal count (2), not the
	// pre-removal count (3)
	if after[len(after)-1].SortOrder != 2 {
		t.Errorf("expected appended sort order 2, got %d", after[len(after)-1].SortOrder)
	}

	if _, err := os.Stat(filepath.Join(env.uploadDir, removedName)); !os.IsNotExist(err) {
		t.Errorf("removed image file still present: %v", err)
	}
}

func TestReplaceImages(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.reviews.Create(sampleInput(), env.ownerID, makeUploads(t, "image/png", "a.png", "b.png"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	images, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}
	removedName := images[0].ImageFilename

	// Unknown image id in the removal list is skipped, not an error
	added, removed, err := env.reviews.ReplaceImages(id, makeUploads(t, "image/png", "c.png"), []int64{images[0].ID, 9999})
	if err != nil {
		t.Fatalf("ReplaceImages failed: %v", err)
	}

	if len(removed) != 1 || removed[0] != images[0].ID {
		t.Errorf("expected removed ids [%d], got %v", images[0].ID, removed)
	}
	if len(added) != 1 {
		t.Fatalf("expected 1 added image, got %d", len(added))
	}
	if added[0].ID == 0 {
		t.Error("expected added image id to be populated")
	}
	// Sort order continues from the post-removal count (1 remaining)
	if added[0].SortOrder != 1 {
		t.Errorf("expected added sort order 1, got %d", added[0].SortOrder)
	}

	after, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("expected 2 images after replace, got %d", len(after))
	}

	if _, err := os.Stat(filepath.Join(env.uploadDir, removedName)); !os.IsNotExist(err) {
		t.Errorf("removed image file still present: %v", err)
	}
}

func TestReplaceImagesNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.reviews.ReplaceImages(4242, makeUploads(t, "image/png", "a.png"), nil)
	if !errors.Is(err, repository.ErrReviewNotFound) {
		t.Errorf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestDeleteRemovesRowsAndFiles(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.reviews.Create(sampleInput(), env.ownerID, makeUploads(t, "image/png", "a.png", "b.png"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	images, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}

	err = env.reviews.Delete(id)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = env.reviews.Get(id)
	if !errors.Is(err, repository.ErrReviewNotFound) {
		t.Errorf("expected ErrReviewNotFound after delete, got %v", err)
	}

	rows, err := env.imageRepo.ByReviewID(id)
	if err != nil {
		t.Fatalf("ByReviewID failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected 0 image rows after delete, got %d", len(rows))
	}

	for _, img := range images {
		if _, err := os.Stat(filepath.Join(env.uploadDir, img.ImageFilename)); !os.IsNotExist(err) {
			t.Errorf("image file %s still present after delete", img.ImageFilename)
		}
	}
}

func TestDeleteNotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.reviews.Delete(4242)
	if !errors.Is(err, repository.ErrReviewNotFound) {
		t.Errorf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestListPaginationAndOrder(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 8; i++ {
		input := sampleInput()
		input.Title = fmt.Sprintf("review %d", i)
		_, err := env.reviews.Create(input, env.ownerID, nil)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := env.reviews.List(1, 6, model.StatusPublished)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list.Pagination.TotalItems != 8 {
		t.Errorf("expected 8 total items, got %d", list.Pagination.TotalItems)
	}
	if list.Pagination.TotalPages != 2 {
		t.Errorf("expected 2 total pages, got %d", list.Pagination.TotalPages)
	}
	if len(list.Reviews) != 6 {
		t.Errorf("expected 6 reviews on page 1, got %d", len(list.Reviews))
	}
	// Newest first
	if list.Reviews[0].Title != "review 7" {
		t.Errorf("expected newest review first, got %q", list.Reviews[0].Title)
	}

	page2, err := env.reviews.List(2, 6, model.StatusPublished)
	if err != nil {
		t.Fatalf("List page 2 failed: %v", err)
	}
	if len(page2.Reviews) != 2 {
		t.Errorf("expected 2 reviews on page 2, got %d", len(page2.Reviews))
	}

	drafts, err := env.reviews.List(1, 6, model.StatusDraft)
	if err != nil {
		t.Fatalf("List drafts failed: %v", err)
	}
	if drafts.Pagination.TotalItems != 0 {
		t.Errorf("expected 0 drafts, got %d", drafts.Pagination.TotalItems)
	}
}

func TestStatusCheckConstraint(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.db.Exec(
		`INSERT INTO reviews (user_id, team, title, content, from_location, to_location, from_date, to_date, rating, status, created_at, updated_at)
		 VALUES ($1, 'A팀', 't', 'c', 'a', 'b', 'd1', 'd2', 5, 'archived', $2, $3)`,
		env.ownerID, time.Now(), time.Now(),
	)
	if err == nil {
		t.Error("expected CHECK constraint to reject unknown status")
	}
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "방금 전"},
		{5 * time.Minute, "5분전"},
		{3 * time.Hour, "3시간전"},
		{2 * 24 * time.Hour, "2일전"},
	}
	for _, c := range cases {
		got := relativeAge(now.Add(-c.age), now)
		if got != c.want {
			t.Errorf("relativeAge(-%v) = %q, want %q", c.age, got, c.want)
		}
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := relativeAge(old, now); got != old.Format("2006.01.02") {
		t.Errorf("relativeAge(old) = %q, want date format", got)
	}
}
