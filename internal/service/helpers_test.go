package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

// repos bundles the real gorm repositories used by the service tests.
type repos struct {
	course     repository.CourseRepository
	module     repository.ModuleRepository
	lesson     repository.LessonRepository
	enrollment repository.EnrollmentRepository
	lp         repository.LessonProgressRepository
	profile    repository.ProfileRepository
	identity   repository.IdentityRepository
	settings   repository.SettingsRepository
}

func newRepos() repos {
	return repos{
		course:     repository.NewGormCourseRepository(),
		module:     repository.NewGormModuleRepository(),
		lesson:     repository.NewGormLessonRepository(),
		enrollment: repository.NewGormEnrollmentRepository(),
		lp:         repository.NewGormLessonProgressRepository(),
		profile:    repository.NewGormProfileRepository(),
		identity:   repository.NewGormIdentityRepository(),
		settings:   repository.NewGormSettingsRepository(),
	}
}

// setupTestDB opens a private in-memory sqlite database with the schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	return db
}

func testContext() context.Context {
	return middleware.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedProfile(t *testing.T, db *gorm.DB, email, role string) *model.Profile {
	t.Helper()
	p := &model.Profile{ID: uuid.New(), Email: email, Role: role, FullName: "Test " + email}
	require.NoError(t, db.Create(p).Error)
	return p
}

// seedCourse creates a course with one module per entry of lessonsPerModule.
func seedCourse(t *testing.T, db *gorm.DB, title string, lessonsPerModule ...int) *model.Course {
	t.Helper()
	course := &model.Course{ID: uuid.New(), Title: title, ContentType: model.CourseContentVideo}
	require.NoError(t, db.Create(course).Error)

	for i, n := range lessonsPerModule {
		m := model.CourseModule{ID: uuid.New(), CourseID: course.ID, Title: fmt.Sprintf("Module %d", i+1), Position: i}
		require.NoError(t, db.Create(&m).Error)
		for j := 0; j < n; j++ {
			l := model.Lesson{ID: uuid.New(), ModuleID: m.ID, Title: fmt.Sprintf("Lesson %d.%d", i+1, j+1), ContentType: model.LessonContentText, Position: j}
			require.NoError(t, db.Create(&l).Error)
			m.Lessons = append(m.Lessons, l)
		}
		course.Modules = append(course.Modules, m)
	}
	return course
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uuid.UUID, pct int) *model.Enrollment {
	t.Helper()
	now := time.Now().UTC()
	e := &model.Enrollment{
		ID:           uuid.New(),
		UserID:       userID,
		CourseID:     courseID,
		Progress:     pct,
		Completed:    pct == 100,
		EnrolledAt:   now,
		LastAccessed: now,
	}
	if e.Completed {
		e.CompletedAt = &now
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func reloadEnrollment(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Enrollment {
	t.Helper()
	var e model.Enrollment
	require.NoError(t, db.First(&e, "id = ?", id).Error)
	return &e
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Detail.Code
}
