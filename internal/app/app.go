package app

import (
	"context"
	"fmt"

	"github.com/eehealth/api/internal/config"
	"github.com/eehealth/api/internal/db"
	"github.com/eehealth/api/internal/repository"
	"github.com/eehealth/api/internal/service"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	GoalService     *service.GoalService
	ProgressService *service.ProgressService
	SummaryService  *service.SummaryService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewWithDB(cfg, database), nil
}

// NewWithDB wires repositories and services over an already migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	progressRepository := repository.NewProgressRepository(database)
	transactor := repository.NewTransactor(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.SecureCookies(),
	)
	goalService := service.NewGoalService(goalRepository, progressRepository, transactor, cfg.ProgressMaxRetries)
	progressService := service.NewProgressService(
		progressRepository,
		goalService,
		transactor,
		cfg.StreakHistoryDays,
		cfg.ProgressMaxRetries,
	)
	summaryService := service.NewSummaryService(progressRepository, goalRepository)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		GoalService:     goalService,
		ProgressService: progressService,
		SummaryService:  summaryService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
