package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"student-directory/internal/auth"
	"student-directory/internal/config"
	"student-directory/internal/db"
	"student-directory/internal/health"
	"student-directory/internal/logger"
	"student-directory/internal/metrics"
	"student-directory/internal/middleware"
	"student-directory/internal/student"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

type App struct {
	config *config.Config
	router chi.Router
	server *http.Server
	logger *slog.Logger
}

func New() *App {
	slogLogger := logger.NewWithServiceContext("student-directory", Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database, (*student.Student)(nil), (*auth.User)(nil)); err != nil {
		log.Fatal("failed to run migrations:", err)
	}
	// Natural-key uniqueness lives in the store, not just the pre-check.
	if err := db.EnsureIndex(ctx, database, (*student.Student)(nil), "uq_students_roll_no_class", true, "roll_no", "class"); err != nil {
		log.Fatal("failed to ensure indexes:", err)
	}

	m, err := metrics.New(otel.Meter("student-directory"))
	if err != nil {
		log.Fatal("failed to initialize metrics:", err)
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Auth setup
	authRepo := auth.NewRepository(database, m)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(authService, cfg.Auth.JWTSecret, slogLogger)

	// Bootstrap the admin credential. Idempotent: keyed on the unique email.
	if err := authService.EnsureAdmin(ctx, cfg.Auth); err != nil {
		log.Fatal("failed to bootstrap admin user:", err)
	}
	slogLogger.Info("admin user ensured", "email", cfg.Auth.AdminEmail)

	// Student endpoints: list is public, create/delete require a session
	studentRepo := student.NewRepository(database, m)
	studentService := student.NewService(studentRepo)
	studentHandler := student.NewHandler(studentService, slogLogger, m)

	app.router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		studentHandler.RegisterRoutes(r, auth.Middleware(cfg.Auth.JWTSecret, slogLogger))
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	return a.server.Shutdown(ctx)
}
