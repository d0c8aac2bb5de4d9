package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tonythefreedom/noble-back/internal/config"
	"github.com/tonythefreedom/noble-back/internal/db"
	"github.com/tonythefreedom/noble-back/internal/model"
	"github.com/tonythefreedom/noble-back/internal/repository"
	"github.com/tonythefreedom/noble-back/internal/service"
	"github.com/tonythefreedom/noble-back/internal/storage"
	"github.com/tonythefreedom/noble-back/internal/validation"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Storage       storage.Storage
	AuthService   *service.AuthService
	FileService   *service.FileService
	ReviewService *service.ReviewService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	reviewRepository := repository.NewReviewRepository(database)
	imageRepository := repository.NewImageRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	fileService := service.NewFileService(fileStorage, validation.NewFileConstraints(cfg.AllowedFileTypes, cfg.MaxFileSize))
	reviewService := service.NewReviewService(reviewRepository, imageRepository, fileService)

	// Seed the default admin account (boot-only, idempotent)
	err = seedAdmin(userRepository, authService, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %v", err)
	}

	return &App{
		Cfg:           cfg,
		DB:            database,
		Storage:       fileStorage,
		AuthService:   authService,
		FileService:   fileService,
		ReviewService: reviewService,
	}, nil
}

// seedAdmin creates the default admin account when it doesn't exist yet.
// The check-then-insert race is acceptable at boot-only execution; a
// concurrent duplicate insert fails on the unique username and is ignored.
func seedAdmin(users repository.UserRepository, auth *service.AuthService, username, password string) error {
	_, err := users.ByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = users.Create(admin)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("default admin account created", "username", username)
	return nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
