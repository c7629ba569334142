package service_test

import (
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

func TestCourseService_CRUD(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	progressSvc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, nil)
	svc := service.NewCourseService(db, r.course, r.module, r.lesson, r.enrollment, r.lp, progressSvc)

	course, err := svc.CreateCourse(ctx, &model.CreateCourseRequest{
		Title:       "Go Basics",
		ContentType: model.CourseContentPDF,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, course.ID)

	second, err := svc.AddModule(ctx, course.ID, &model.CreateModuleRequest{Title: "Second", Position: 2})
	require.NoError(t, err)
	first, err := svc.AddModule(ctx, course.ID, &model.CreateModuleRequest{Title: "First", Position: 1})
	require.NoError(t, err)

	_, err = svc.AddLesson(ctx, first.ID, &model.CreateLessonRequest{Title: "Intro", ContentType: model.LessonContentText})
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, second.ID, &model.CreateLessonRequest{Title: "Deep dive", ContentType: model.LessonContentVideo})
	require.NoError(t, err)

	t.Run("tree is ordered by position", func(t *testing.T) {
		got, err := svc.GetCourse(ctx, course.ID)
		require.NoError(t, err)
		require.Len(t, got.Modules, 2)
		assert.Equal(t, "First", got.Modules[0].Title)
		assert.Equal(t, "Second", got.Modules[1].Title)
		require.Len(t, got.Modules[0].Lessons, 1)
		assert.Equal(t, "Intro", got.Modules[0].Lessons[0].Title)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		title := "Go Fundamentals"
		got, err := svc.UpdateCourse(ctx, course.ID, &model.UpdateCourseRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Go Fundamentals", got.Title)
		assert.Equal(t, model.CourseContentPDF, got.ContentType)
	})

	t.Run("list", func(t *testing.T) {
		courses, err := svc.ListCourses(ctx, model.CourseFilter{})
		require.NoError(t, err)
		assert.Len(t, courses, 1)
	})

	t.Run("list by type", func(t *testing.T) {
		tests := []struct {
			contentType string
			wantLen     int
			wantErr     string
		}{
			{contentType: model.CourseContentPDF, wantLen: 1},
			{contentType: model.CourseContentVideo, wantLen: 0},
			{contentType: "quiz", wantErr: model.CodeValidation},
		}
		for _, tt := range tests {
			courses, err := svc.ListCourses(ctx, model.CourseFilter{ContentType: tt.contentType})
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, appErrorCode(t, err), tt.contentType)
				assert.Equal(t, http.StatusBadRequest, webutil.MapErrorToStatusCode(err))
				continue
			}
			require.NoError(t, err, tt.contentType)
			assert.NotNil(t, courses)
			assert.Len(t, courses, tt.wantLen, tt.contentType)
		}
	})

	t.Run("unknown ids", func(t *testing.T) {
		_, err := svc.GetCourse(ctx, uuid.New())
		assert.Equal(t, http.StatusNotFound, webutil.MapErrorToStatusCode(err))

		_, err = svc.AddModule(ctx, uuid.New(), &model.CreateModuleRequest{Title: "x"})
		assert.Equal(t, model.CodeCourseNotFound, appErrorCode(t, err))

		_, err = svc.AddLesson(ctx, uuid.New(), &model.CreateLessonRequest{Title: "x", ContentType: model.LessonContentText})
		assert.Equal(t, http.StatusNotFound, webutil.MapErrorToStatusCode(err))

		title := "x"
		_, err = svc.UpdateCourse(ctx, uuid.New(), &model.UpdateCourseRequest{Title: &title})
		assert.Equal(t, model.CodeCourseNotFound, appErrorCode(t, err))
	})
}

func TestCourseService_DeleteCourse_Cascades(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	progressSvc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, nil)
	svc := service.NewCourseService(db, r.course, r.module, r.lesson, r.enrollment, r.lp, progressSvc)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	course := seedCourse(t, db, "Go Basics", 2, 1)
	keep := seedCourse(t, db, "Keep me", 1)
	seedEnrollment(t, db, learner.ID, course.ID, 0)
	seedEnrollment(t, db, learner.ID, keep.ID, 0)

	_, err := progressSvc.ToggleLesson(ctx, learner.ID, course.Modules[0].Lessons[0].ID)
	require.NoError(t, err)
	_, err = progressSvc.ToggleLesson(ctx, learner.ID, keep.Modules[0].Lessons[0].ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))

	count := func(m interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&model.Course{}))
	assert.Equal(t, int64(1), count(&model.CourseModule{}))
	assert.Equal(t, int64(1), count(&model.Lesson{}))
	assert.Equal(t, int64(1), count(&model.Enrollment{}))
	assert.Equal(t, int64(1), count(&model.LessonProgress{}))

	err = svc.DeleteCourse(ctx, course.ID)
	assert.Equal(t, model.CodeCourseNotFound, appErrorCode(t, err))
}

func TestCourseService_AddLesson_Recalculates(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	progressSvc := servicemocks.NewProgressService(t)
	svc := service.NewCourseService(db, r.course, r.module, r.lesson, r.enrollment, r.lp, progressSvc)

	course := seedCourse(t, db, "Go Basics", 1)
	progressSvc.On("RecalculateCourse", mock.Anything, course.ID).Return(1, nil).Once()

	lesson, err := svc.AddLesson(ctx, course.Modules[0].ID, &model.CreateLessonRequest{
		Title:       "Extra",
		ContentType: model.LessonContentQuiz,
		Position:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, course.Modules[0].ID, lesson.ModuleID)
}

func TestCourseService_AddLesson_LowersCompletedEnrollment(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	progressSvc := service.NewProgressService(db, r.course, r.lesson, r.enrollment, r.lp, nil)
	svc := service.NewCourseService(db, r.course, r.module, r.lesson, r.enrollment, r.lp, progressSvc)

	learner := seedProfile(t, db, "learner@example.com", model.RoleMember)
	course := seedCourse(t, db, "Go Basics", 1)
	enrollment := seedEnrollment(t, db, learner.ID, course.ID, 0)

	res, err := progressSvc.ToggleLesson(ctx, learner.ID, course.Modules[0].Lessons[0].ID)
	require.NoError(t, err)
	require.True(t, res.Enrollment.Completed)

	_, err = svc.AddLesson(ctx, course.Modules[0].ID, &model.CreateLessonRequest{Title: "New", ContentType: model.LessonContentText})
	require.NoError(t, err)

	got := reloadEnrollment(t, db, enrollment.ID)
	assert.Equal(t, 50, got.Progress)
	assert.False(t, got.Completed)
}
