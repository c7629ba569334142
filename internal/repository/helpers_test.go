package repository_test

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

func createProfile(t *testing.T, db *gorm.DB, email string) *model.Profile {
	t.Helper()
	p := &model.Profile{ID: uuid.New(), Email: email, Role: model.RoleMember}
	require.NoError(t, repository.NewGormProfileRepository().Create(testContext(), db, p))
	return p
}

// createCourse builds a course with a single module holding n lessons.
func createCourse(t *testing.T, db *gorm.DB, title, contentType string, n int) (*model.Course, []*model.Lesson) {
	t.Helper()
	ctx := testContext()
	course := &model.Course{ID: uuid.New(), Title: title, ContentType: contentType}
	require.NoError(t, repository.NewGormCourseRepository().Create(ctx, db, course))

	module := &model.CourseModule{ID: uuid.New(), CourseID: course.ID, Title: "Module 1"}
	require.NoError(t, repository.NewGormModuleRepository().Create(ctx, db, module))

	lessons := make([]*model.Lesson, 0, n)
	for i := 0; i < n; i++ {
		l := &model.Lesson{ID: uuid.New(), ModuleID: module.ID, Title: fmt.Sprintf("Lesson %d", i+1), ContentType: model.LessonContentText, Position: i}
		require.NoError(t, repository.NewGormLessonRepository().Create(ctx, db, l))
		lessons = append(lessons, l)
	}
	return course, lessons
}

func createEnrollment(t *testing.T, db *gorm.DB, userID, courseID uuid.UUID, lastAccessed time.Time) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{ID: uuid.New(), UserID: userID, CourseID: courseID, EnrolledAt: lastAccessed, LastAccessed: lastAccessed}
	require.NoError(t, repository.NewGormEnrollmentRepository().Create(testContext(), db, e))
	return e
}
