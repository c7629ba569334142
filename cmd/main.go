// cmd/main.go
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/handlers"
	"github.com/haradejene/yegara-web-lms/internal/repository"
	"github.com/haradejene/yegara-web-lms/internal/service"
)

func main() {
	// temporary logger until the config is read
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Loading config...")

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level, os.Getenv("APP_ENV"), tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("version", config.AppVersion))

	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			slog.Error("Auto migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Database schema migrated")
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStartup()

	mailer, err := service.NewMailer(cfg)
	if err != nil {
		slog.Error("Error initializing mailer", slog.Any("error", err))
		os.Exit(1)
	}
	storage, err := service.NewStorage(startupCtx, &cfg.Storage)
	if err != nil {
		slog.Error("Error initializing avatar storage", slog.Any("error", err))
		os.Exit(1)
	}
	if c, ok := storage.(io.Closer); ok {
		defer c.Close()
	}
	notifier, err := service.NewNotifier(startupCtx, &cfg.Redis)
	if err != nil {
		slog.Error("Error connecting to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer notifier.Close()

	// Dependency Injection
	courseRepo := repository.NewGormCourseRepository()
	moduleRepo := repository.NewGormModuleRepository()
	lessonRepo := repository.NewGormLessonRepository()
	enrollmentRepo := repository.NewGormEnrollmentRepository()
	lpRepo := repository.NewGormLessonProgressRepository()
	profileRepo := repository.NewGormProfileRepository()
	identityRepo := repository.NewGormIdentityRepository()
	settingsRepo := repository.NewGormSettingsRepository()

	settingsService := service.NewSettingsService(db, settingsRepo, cfg)
	progressService := service.NewProgressService(db, courseRepo, lessonRepo, enrollmentRepo, lpRepo, notifier)
	courseService := service.NewCourseService(db, courseRepo, moduleRepo, lessonRepo, enrollmentRepo, lpRepo, progressService)
	enrollmentService := service.NewEnrollmentService(db, courseRepo, enrollmentRepo, profileRepo, mailer, cfg)
	authService := service.NewAuthService(db, profileRepo, identityRepo, settingsService, cfg)
	profileService := service.NewProfileService(db, profileRepo, identityRepo, enrollmentRepo, lpRepo, storage)
	analyticsService := service.NewAnalyticsService(db, courseRepo, profileRepo, enrollmentRepo, &cfg.App)

	router := &handlers.Router{
		Config:     cfg,
		Logger:     logger,
		Auth:       handlers.NewAuthHandler(authService, logger),
		Enrollment: handlers.NewEnrollmentHandler(enrollmentService, logger),
		Course:     handlers.NewCourseHandler(courseService, progressService, logger),
		Profile:    handlers.NewProfileHandler(profileService, progressService, cfg.Storage.MaxAvatarSize, logger),
		Admin:      handlers.NewAdminHandler(courseService, progressService, profileService, analyticsService, settingsService, logger),
		Ping:       sqlDB.PingContext,
	}

	reconciler := service.NewReconciler(db, courseRepo, progressService, cfg.Reconcile.Schedule, logger)
	if err := reconciler.Start(); err != nil {
		slog.Error("Invalid reconcile schedule", slog.String("schedule", cfg.Reconcile.Schedule), slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}
	reconciler.Stop(ctx)

	log.Println("Server exiting")
}

// newLogger builds the application logger: tint in dev, JSON everywhere else.
func newLogger(level, appEnv string, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}
