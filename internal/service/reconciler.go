package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

// Reconciler periodically recomputes cached enrollment progress for every course.
type Reconciler struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	progress   ProgressService
	logger     *slog.Logger
	cron       *cron.Cron
	schedule   string
}

func NewReconciler(db *gorm.DB, courseRepo repository.CourseRepository, progress ProgressService, schedule string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		db:         db,
		courseRepo: courseRepo,
		progress:   progress,
		logger:     logger.With("component", "reconciler"),
		cron:       cron.New(),
		schedule:   schedule,
	}
}

// Start registers the job and starts the scheduler. An empty schedule disables it.
func (r *Reconciler) Start() error {
	if r.schedule == "" {
		r.logger.Info("Progress reconciliation disabled")
		return nil
	}
	_, err := r.cron.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error("Progress reconciliation failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("Progress reconciliation scheduled", "schedule", r.schedule)
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (r *Reconciler) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		r.logger.Warn("Reconciler stop timed out")
	}
}

// RunOnce recalculates every course and returns the number of enrollments that changed.
// A failing course is logged and skipped.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	ctx = middleware.WithLogger(ctx, r.logger)

	ids, err := r.courseRepo.ListIDs(ctx, r.db)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := r.progress.RecalculateCourse(ctx, id)
		if err != nil {
			r.logger.Warn("Skipping course during reconciliation", "course_id", id.String(), "error", err)
			continue
		}
		total += n
	}
	r.logger.Info("Progress reconciliation finished", "courses", len(ids), "updated", total)
	return total, nil
}
