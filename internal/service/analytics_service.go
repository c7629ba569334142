//go:generate mockery --name AnalyticsService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/progress"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
	Analytics(ctx context.Context) (*model.AnalyticsReport, error)
}

type analyticsService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	profileRepo    repository.ProfileRepository
	enrollmentRepo repository.EnrollmentRepository
	cfg            *config.AppConfig
	clock          func() time.Time
}

func NewAnalyticsService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	profileRepo repository.ProfileRepository,
	enrollmentRepo repository.EnrollmentRepository,
	cfg *config.AppConfig,
) AnalyticsService {
	return &analyticsService{
		db:             db,
		courseRepo:     courseRepo,
		profileRepo:    profileRepo,
		enrollmentRepo: enrollmentRepo,
		cfg:            cfg,
		clock:          time.Now,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// TrendWindowStart is the beginning of the day `days` days before t.
func TrendWindowStart(t time.Time, days int) time.Time {
	return now.With(t.AddDate(0, 0, -days)).BeginningOfDay()
}

func (s *analyticsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	var byType map[string]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalCourses, err = s.courseRepo.Count(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.profileRepo.Count(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.courseRepo.CountByContentType(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentCourses, err = s.courseRepo.ListRecent(gctx, s.db, orDefault(s.cfg.RecentCoursesLimit, config.DefaultRecentCoursesLimit))
		return err
	})
	if err := g.Wait(); err != nil {
		middleware.GetLogger(ctx).Error("Failed to build admin dashboard", "error", err)
		return nil, internalError("Failed to load dashboard statistics.", err)
	}

	stats.VideoCourses = byType[model.CourseContentVideo]
	stats.PDFCourses = byType[model.CourseContentPDF]
	if stats.RecentCourses == nil {
		stats.RecentCourses = []*model.Course{}
	}
	return &stats, nil
}

func (s *analyticsService) Analytics(ctx context.Context) (*model.AnalyticsReport, error) {
	report := &model.AnalyticsReport{
		WindowStart: TrendWindowStart(s.clock().UTC(), orDefault(s.cfg.EnrollmentTrendDays, config.DefaultEnrollmentTrendDays)),
	}
	var enrollments []*model.Enrollment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.TotalCourses, err = s.courseRepo.Count(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		report.TotalUsers, err = s.profileRepo.Count(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		report.TotalEnrollments, err = s.enrollmentRepo.Count(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		report.CompletedEnrollments, err = s.enrollmentRepo.CountCompleted(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		report.CourseTypes, err = s.courseRepo.CountByContentType(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		report.Roles, err = s.profileRepo.CountByRole(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		report.RecentEnrollments, err = s.enrollmentRepo.CountSince(gctx, s.db, report.WindowStart)
		return err
	})
	g.Go(func() (err error) {
		enrollments, err = s.enrollmentRepo.ListAll(gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		report.RecentActivity, err = s.enrollmentRepo.ListRecentActivity(gctx, s.db, orDefault(s.cfg.RecentActivityLimit, config.DefaultRecentActivityLimit))
		return err
	})
	if err := g.Wait(); err != nil {
		middleware.GetLogger(ctx).Error("Failed to build analytics report", "error", err)
		return nil, internalError("Failed to load analytics.", err)
	}

	report.PopularCourses = progress.TopCourses(enrollments, nil, orDefault(s.cfg.PopularCoursesLimit, config.DefaultPopularCoursesLimit))
	report.CompletionRate = progress.Percentage(int(report.CompletedEnrollments), int(report.TotalEnrollments))
	if report.RecentActivity == nil {
		report.RecentActivity = []model.RecentActivity{}
	}
	return report, nil
}
