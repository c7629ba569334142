// cmd/migrate/main.go creates the schema, the default platform settings and,
// when ADMIN_EMAIL and ADMIN_PASSWORD are set, a first admin account.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		os.Exit(1)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = middleware.WithLogger(ctx, logger)

	if err := repository.Migrate(db); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Schema migrated")

	if err := repository.EnsureSettings(ctx, db, cfg.App.Name); err != nil {
		slog.Error("Failed to seed platform settings", slog.Any("error", err))
		os.Exit(1)
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		slog.Info("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash admin password", slog.Any("error", err))
		os.Exit(1)
	}
	admin, err := repository.EnsureAdmin(ctx, db, email, string(hash))
	if err != nil {
		slog.Error("Failed to create admin account", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Admin account ready", slog.String("profile_id", admin.ID.String()), slog.String("email", admin.Email))
}
