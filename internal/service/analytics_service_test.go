package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
)

func TestTrendWindowStart(t *testing.T) {
	at := time.Date(2024, time.March, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), service.TrendWindowStart(at, 30))
	assert.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), service.TrendWindowStart(at, 0))
}

func TestAnalyticsService(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	svc := service.NewAnalyticsService(db, r.course, r.profile, r.enrollment, &config.AppConfig{
		EnrollmentTrendDays: 30,
		PopularCoursesLimit: 2,
		RecentActivityLimit: 2,
		RecentCoursesLimit:  2,
	})

	admin := seedProfile(t, db, "admin@example.com", model.RoleAdmin)
	a := seedProfile(t, db, "a@example.com", model.RoleMember)
	b := seedProfile(t, db, "b@example.com", model.RoleMember)

	popular := seedCourse(t, db, "Popular", 1)
	quiet := seedCourse(t, db, "Quiet", 1)
	pdf := &model.Course{ID: uuid.New(), Title: "PDF Guide", ContentType: model.CourseContentPDF}
	require.NoError(t, db.Create(pdf).Error)

	seedEnrollment(t, db, a.ID, popular.ID, 100)
	seedEnrollment(t, db, b.ID, popular.ID, 40)
	old := seedEnrollment(t, db, admin.ID, quiet.ID, 0)
	require.NoError(t, db.Model(old).Update("enrolled_at", time.Now().UTC().AddDate(0, 0, -90)).Error)

	t.Run("dashboard", func(t *testing.T) {
		stats, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalCourses)
		assert.Equal(t, int64(3), stats.TotalUsers)
		assert.Equal(t, int64(2), stats.VideoCourses)
		assert.Equal(t, int64(1), stats.PDFCourses)
		assert.Len(t, stats.RecentCourses, 2)
	})

	t.Run("analytics", func(t *testing.T) {
		report, err := svc.Analytics(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), report.TotalEnrollments)
		assert.Equal(t, int64(1), report.CompletedEnrollments)
		assert.Equal(t, 33, report.CompletionRate)
		assert.Equal(t, int64(2), report.RecentEnrollments)
		assert.Equal(t, int64(1), report.Roles[model.RoleAdmin])
		assert.Equal(t, int64(2), report.Roles[model.RoleMember])
		assert.Equal(t, int64(1), report.CourseTypes[model.CourseContentPDF])

		require.Len(t, report.PopularCourses, 2)
		assert.Equal(t, popular.ID, report.PopularCourses[0].CourseID)
		assert.Equal(t, "Popular", report.PopularCourses[0].Title)
		assert.Equal(t, 2, report.PopularCourses[0].Count)
		assert.Equal(t, 1, report.PopularCourses[0].CompletedCount)
		assert.Equal(t, quiet.ID, report.PopularCourses[1].CourseID)

		assert.Len(t, report.RecentActivity, 2)
	})
}

func TestAnalyticsService_EmptyPlatform(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	svc := service.NewAnalyticsService(db, r.course, r.profile, r.enrollment, &config.AppConfig{})

	report, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.TotalEnrollments)
	assert.Zero(t, report.CompletionRate)
	assert.Empty(t, report.PopularCourses)
	assert.NotNil(t, report.RecentActivity)

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.NotNil(t, stats.RecentCourses)
}
