package routes

import (
	"net/http"

	"github.com/tonythefreedom/noble-back/internal/app"
	"github.com/tonythefreedom/noble-back/internal/handler"
	"github.com/tonythefreedom/noble-back/internal/middleware"
	"github.com/tonythefreedom/noble-back/internal/storage"
)

const apiVersion = "1.0.0"

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(a.Cfg.AppName, apiVersion)
	auth := handler.NewAuthHandler(a.AuthService)
	review := handler.NewReviewHandler(a.ReviewService)
	image := handler.NewImageHandler(a.FileService, a.ReviewService)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /{$}", health.Root)
	mux.HandleFunc("GET /health", health.Health)

	// Uploaded files are served straight off disk for local storage;
	// the S3 backend returns absolute URLs so no route is needed.
	if local, ok := a.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}

	// Auth (login rate limited per IP)
	rateLimiter := middleware.RateLimitLogin()
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/verify", middleware.RequireAuth(auth.Verify))

	// Reviews (reads public, mutations admin-gated)
	mux.HandleFunc("GET /api/reviews", review.List)
	mux.HandleFunc("GET /api/reviews/{id}", review.Get)
	mux.HandleFunc("POST /api/reviews", middleware.RequireAdmin(review.Create))
	mux.HandleFunc("PUT /api/reviews/{id}", middleware.RequireAdmin(review.Update))
	mux.HandleFunc("DELETE /api/reviews/{id}", middleware.RequireAdmin(review.Delete))
	mux.HandleFunc("PUT /api/reviews/{id}/images", middleware.RequireAdmin(image.ReplaceReviewImages))

	// Images
	mux.HandleFunc("POST /api/images/upload", middleware.RequireAdmin(image.Upload))
	mux.HandleFunc("DELETE /api/images/{filename}", middleware.RequireAdmin(image.Delete))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS,
		middleware.RequestLogging,
		middleware.AuthMiddleware(a.AuthService),
	)
}
