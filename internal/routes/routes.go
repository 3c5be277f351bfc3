package routes

import (
	"net/http"

	"github.com/eehealth/api/internal/app"
	"github.com/eehealth/api/internal/handler"
	"github.com/eehealth/api/internal/middleware"
	"github.com/rs/cors"
)

func SetupRoutes(app *app.App) http.Handler {
	clock := handler.NewClock(app.Cfg.Location())

	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	goal := handler.NewGoalHandler(app.GoalService)
	progress := handler.NewProgressHandler(app.ProgressService, clock)
	dashboard := handler.NewDashboardHandler(app.SummaryService, clock)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PATCH /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Daily progress
	mux.HandleFunc("POST /api/progress", middleware.RequireAuth(progress.Record))
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(progress.History))
	mux.HandleFunc("GET /api/progress/streaks", middleware.RequireAuth(progress.Streaks))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/summary", middleware.RequireAuth(dashboard.Summary))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   app.Cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		corsHandler.Handler, // Answers preflights before anything else runs
		middleware.RequestLogging,
		middleware.RequireJSON,
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler
}
