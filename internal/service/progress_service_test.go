package service_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
	servicemocks "github.com/haradejene/yegara-web-lms/internal/service/mocks"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

func newProgressService(t *testing.T, notifier service.Notifier) (service.ProgressService, repos) {
	db := setupTestDB(t)
	r := newRepos()
	return service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, notifier), r
}

func TestProgressService_ToggleLesson(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	notifier := servicemocks.NewNotifier(t)
	svc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, notifier)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	course := seedCourse(t, db, "Go Basics", 2, 1)
	enrollment := seedEnrollment(t, db, learner.ID, course.ID, 0)

	first := course.Modules[0].Lessons[0]
	second := course.Modules[0].Lessons[1]
	last := course.Modules[1].Lessons[0]

	notifier.On("PublishProgressChanged", mock.Anything, mock.MatchedBy(func(e model.ProgressChangedEvent) bool {
		return e.UserID == learner.ID && e.CourseID == course.ID
	})).Return(nil)

	t.Run("completes a lesson", func(t *testing.T) {
		res, err := svc.ToggleLesson(ctx, learner.ID, first.ID)
		require.NoError(t, err)
		assert.True(t, res.LessonProgress.Completed)
		assert.NotNil(t, res.LessonProgress.CompletedAt)
		assert.Equal(t, 50, res.ModuleProgress)
		assert.Equal(t, 33, res.CourseProgress)
		assert.Equal(t, 33, res.Enrollment.Progress)
		assert.False(t, res.Enrollment.Completed)

		stored := reloadEnrollment(t, db, enrollment.ID)
		assert.Equal(t, 33, stored.Progress)
	})

	t.Run("completing every lesson completes the course", func(t *testing.T) {
		_, err := svc.ToggleLesson(ctx, learner.ID, second.ID)
		require.NoError(t, err)
		res, err := svc.ToggleLesson(ctx, learner.ID, last.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, res.ModuleProgress)
		assert.Equal(t, 100, res.CourseProgress)

		stored := reloadEnrollment(t, db, enrollment.ID)
		assert.Equal(t, 100, stored.Progress)
		assert.True(t, stored.Completed)
		assert.NotNil(t, stored.CompletedAt)
	})

	t.Run("toggling again un-completes and reopens the course", func(t *testing.T) {
		res, err := svc.ToggleLesson(ctx, learner.ID, first.ID)
		require.NoError(t, err)
		assert.False(t, res.LessonProgress.Completed)
		assert.Nil(t, res.LessonProgress.CompletedAt)
		assert.Equal(t, 50, res.ModuleProgress)
		assert.Equal(t, 67, res.CourseProgress)

		stored := reloadEnrollment(t, db, enrollment.ID)
		assert.Equal(t, 67, stored.Progress)
		assert.False(t, stored.Completed)
		assert.Nil(t, stored.CompletedAt)
	})

	t.Run("keeps a single record per lesson", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&model.LessonProgress{}).
			Where("user_id = ? AND lesson_id = ?", learner.ID, first.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestProgressService_ToggleLesson_Errors(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	svc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, nil)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	course := seedCourse(t, db, "Go Basics", 1)

	t.Run("unknown lesson", func(t *testing.T) {
		_, err := svc.ToggleLesson(ctx, learner.ID, uuid.New())
		require.Error(t, err)
		assert.Equal(t, model.CodeLessonNotFound, appErrorCode(t, err))
		assert.Equal(t, http.StatusNotFound, webutil.MapErrorToStatusCode(err))
	})

	t.Run("not enrolled", func(t *testing.T) {
		_, err := svc.ToggleLesson(ctx, learner.ID, course.Modules[0].Lessons[0].ID)
		require.Error(t, err)
		assert.Equal(t, model.CodeNotEnrolled, appErrorCode(t, err))
		assert.Equal(t, http.StatusForbidden, webutil.MapErrorToStatusCode(err))

		var count int64
		require.NoError(t, db.Model(&model.LessonProgress{}).Count(&count).Error)
		assert.Zero(t, count, "a rejected toggle must not write progress")
	})
}

func TestProgressService_ToggleLesson_PublishFailureIgnored(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	notifier := servicemocks.NewNotifier(t)
	svc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, notifier)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	course := seedCourse(t, db, "Go Basics", 1)
	seedEnrollment(t, db, learner.ID, course.ID, 0)

	notifier.On("PublishProgressChanged", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	res, err := svc.ToggleLesson(ctx, learner.ID, course.Modules[0].Lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.CourseProgress)
}

func TestProgressService_GetCourseProgress(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	svc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, nil)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	course := seedCourse(t, db, "Go Basics", 2, 2)
	seedEnrollment(t, db, learner.ID, course.ID, 0)

	_, err := svc.ToggleLesson(ctx, learner.ID, course.Modules[1].Lessons[0].ID)
	require.NoError(t, err)

	t.Run("enrolled learner", func(t *testing.T) {
		view, err := svc.GetCourseProgress(ctx, learner.ID, course.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Enrollment)
		assert.Equal(t, 25, view.Enrollment.Progress)
		assert.Len(t, view.Progress, 1)
		assert.Equal(t, 25, view.Summary.Percentage)
		assert.Equal(t, 4, view.Summary.TotalLessons)
		require.Len(t, view.Summary.Modules, 2)
		assert.Equal(t, 0, view.Summary.Modules[0].Percentage)
		assert.Equal(t, 50, view.Summary.Modules[1].Percentage)
		require.Len(t, view.Course.Modules, 2)
		assert.Equal(t, "Module 1", view.Course.Modules[0].Title)
	})

	t.Run("visitor without enrollment", func(t *testing.T) {
		view, err := svc.GetCourseProgress(ctx, uuid.New(), course.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Enrollment)
		assert.Empty(t, view.Progress)
		assert.Equal(t, 0, view.Summary.Percentage)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.GetCourseProgress(ctx, learner.ID, uuid.New())
		require.Error(t, err)
		assert.Equal(t, model.CodeCourseNotFound, appErrorCode(t, err))
	})
}

func TestProgressService_GetLearnerDashboard(t *testing.T) {
	ctx := testContext()
	svc, _ := newProgressService(t, nil)

	dash, err := svc.GetLearnerDashboard(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.LearnerStats{}, dash.Stats)
	assert.NotNil(t, dash.Enrollments)
	assert.Empty(t, dash.Enrollments)
	assert.NotNil(t, dash.AvailableCourses)
	assert.Empty(t, dash.AvailableCourses)
}

func TestProgressService_GetLearnerDashboard_WithEnrollments(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	svc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, nil)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	a := seedCourse(t, db, "A", 1)
	b := seedCourse(t, db, "B", 1)
	c := seedCourse(t, db, "C", 1)
	open := seedCourse(t, db, "Open", 1)
	seedEnrollment(t, db, learner.ID, a.ID, 100)
	seedEnrollment(t, db, learner.ID, b.ID, 50)
	seedEnrollment(t, db, learner.ID, c.ID, 0)

	dash, err := svc.GetLearnerDashboard(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LearnerStats{
		EnrolledCount:   3,
		CompletedCount:  1,
		InProgressCount: 1,
		AverageProgress: 50,
	}, dash.Stats)
	require.Len(t, dash.Enrollments, 3)
	assert.NotNil(t, dash.Enrollments[0].Course)
	require.Len(t, dash.AvailableCourses, 1)
	assert.Equal(t, open.ID, dash.AvailableCourses[0].ID)
}

func TestProgressService_RecalculateCourse(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	svc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, nil)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	other := seedProfile(t, db, "other@example.com", model.RoleMember)
	course := seedCourse(t, db, "Go Basics", 2)
	stale := seedEnrollment(t, db, learner.ID, course.ID, 100)
	fresh := seedEnrollment(t, db, other.ID, course.ID, 0)

	// learner only finished one of the two lessons; the cached 100 is stale
	_, err := r.lp.Upsert(ctx, db, &model.LessonProgress{
		ID:           uuid.New(),
		UserID:       learner.ID,
		LessonID:     course.Modules[0].Lessons[0].ID,
		Completed:    true,
		CompletedAt:  &stale.EnrolledAt,
		LastAccessed: stale.EnrolledAt,
	})
	require.NoError(t, err)

	updated, err := svc.RecalculateCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got := reloadEnrollment(t, db, stale.ID)
	assert.Equal(t, 50, got.Progress)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, 0, reloadEnrollment(t, db, fresh.ID).Progress)

	_, err = svc.RecalculateCourse(ctx, uuid.New())
	assert.Equal(t, model.CodeCourseNotFound, appErrorCode(t, err))
}
