package progress_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/progress"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{name: "no lessons", completed: 0, total: 0, want: 0},
		{name: "none completed", completed: 0, total: 4, want: 0},
		{name: "all completed", completed: 4, total: 4, want: 100},
		{name: "half", completed: 1, total: 2, want: 50},
		{name: "one third rounds down", completed: 1, total: 3, want: 33},
		{name: "two thirds rounds up", completed: 2, total: 3, want: 67},
		{name: "exact half point rounds up", completed: 1, total: 8, want: 13},
		{name: "more completed than total is capped", completed: 5, total: 4, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progress.Percentage(tt.completed, tt.total))
		})
	}
}

func TestPercentage_MatchesRoundedRatio(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for k := 0; k <= n; k++ {
			// round-half-up of 100k/n computed with floor((100k*2 + n) / 2n)
			want := (100*k*2 + n) / (2 * n)
			require.Equal(t, want, progress.Percentage(k, n), "k=%d n=%d", k, n)
		}
	}
}

func TestToggleCompletion(t *testing.T) {
	userID, lessonID := uuid.New(), uuid.New()
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	t.Run("no record creates a completed one", func(t *testing.T) {
		rec := progress.ToggleCompletion(nil, userID, lessonID, t1)
		require.NotNil(t, rec)
		assert.NotEqual(t, uuid.Nil, rec.ID)
		assert.Equal(t, userID, rec.UserID)
		assert.Equal(t, lessonID, rec.LessonID)
		assert.True(t, rec.Completed)
		require.NotNil(t, rec.CompletedAt)
		assert.Equal(t, t1, *rec.CompletedAt)
		assert.Equal(t, t1, rec.LastAccessed)
	})

	t.Run("toggling twice restores completed and clears timestamp", func(t *testing.T) {
		created := progress.ToggleCompletion(nil, userID, lessonID, t1)
		off := progress.ToggleCompletion(created, userID, lessonID, t2)
		assert.False(t, off.Completed)
		assert.Nil(t, off.CompletedAt)
		assert.Equal(t, created.ID, off.ID)
		assert.Equal(t, t2, off.LastAccessed)

		on := progress.ToggleCompletion(off, userID, lessonID, t3)
		assert.True(t, on.Completed)
		require.NotNil(t, on.CompletedAt)
		assert.Equal(t, t3, *on.CompletedAt)
	})

	t.Run("input record is not mutated", func(t *testing.T) {
		orig := &model.LessonProgress{ID: uuid.New(), UserID: userID, LessonID: lessonID, Completed: false, LastAccessed: t1}
		next := progress.ToggleCompletion(orig, userID, lessonID, t2)
		assert.True(t, next.Completed)
		assert.False(t, orig.Completed)
		assert.Nil(t, orig.CompletedAt)
		assert.Equal(t, t1, orig.LastAccessed)
	})
}

// twoByTwo builds a course with 2 modules of 2 lessons each.
func twoByTwo() []model.CourseModule {
	mods := make([]model.CourseModule, 2)
	for i := range mods {
		mods[i] = model.CourseModule{ID: uuid.New(), Title: "m", Position: i}
		for j := 0; j < 2; j++ {
			mods[i].Lessons = append(mods[i].Lessons, model.Lesson{ID: uuid.New(), ModuleID: mods[i].ID, Position: j})
		}
	}
	return mods
}

func done(lessonID uuid.UUID, completed bool) *model.LessonProgress {
	return &model.LessonProgress{ID: uuid.New(), LessonID: lessonID, Completed: completed}
}

func TestModuleAndCourseProgress(t *testing.T) {
	mods := twoByTwo()

	t.Run("one lesson per module", func(t *testing.T) {
		records := progress.IndexByLesson([]*model.LessonProgress{
			done(mods[0].Lessons[0].ID, true),
			done(mods[1].Lessons[1].ID, true),
		})
		assert.Equal(t, 50, progress.ModuleProgress(mods[0].Lessons, records))
		assert.Equal(t, 50, progress.ModuleProgress(mods[1].Lessons, records))
		assert.Equal(t, 50, progress.CourseProgress(mods, records))
	})

	t.Run("uncompleted records do not count", func(t *testing.T) {
		records := progress.IndexByLesson([]*model.LessonProgress{
			done(mods[0].Lessons[0].ID, false),
			done(mods[0].Lessons[1].ID, true),
		})
		assert.Equal(t, 50, progress.ModuleProgress(mods[0].Lessons, records))
		assert.Equal(t, 25, progress.CourseProgress(mods, records))
	})

	t.Run("empty module is zero", func(t *testing.T) {
		assert.Equal(t, 0, progress.ModuleProgress(nil, model.ProgressMap{}))
		assert.Equal(t, 0, progress.CourseProgress(nil, nil))
	})

	t.Run("records for other lessons are ignored", func(t *testing.T) {
		records := progress.IndexByLesson([]*model.LessonProgress{done(uuid.New(), true)})
		assert.Equal(t, 0, progress.CourseProgress(mods, records))
	})
}

func TestCourseBreakdown(t *testing.T) {
	mods := twoByTwo()
	mods = append(mods, model.CourseModule{ID: uuid.New(), Title: "empty"})
	records := progress.IndexByLesson([]*model.LessonProgress{
		done(mods[0].Lessons[0].ID, true),
		done(mods[0].Lessons[1].ID, true),
		done(mods[1].Lessons[0].ID, true),
	})

	summary := progress.CourseBreakdown(mods, records)
	require.Len(t, summary.Modules, 3)
	assert.Equal(t, 100, summary.Modules[0].Percentage)
	assert.Equal(t, 50, summary.Modules[1].Percentage)
	assert.Equal(t, 0, summary.Modules[2].Percentage)
	assert.Equal(t, 0, summary.Modules[2].TotalLessons)
	assert.Equal(t, 3, summary.CompletedLessons)
	assert.Equal(t, 4, summary.TotalLessons)
	assert.Equal(t, 75, summary.Percentage)
	assert.Equal(t, progress.CourseProgress(mods, records), summary.Percentage)
}

func TestLearnerStats(t *testing.T) {
	t.Run("no enrollments", func(t *testing.T) {
		assert.Equal(t, model.LearnerStats{}, progress.LearnerStats(nil))
		assert.Equal(t, model.LearnerStats{}, progress.LearnerStats([]*model.Enrollment{}))
	})

	t.Run("one completed and one in progress", func(t *testing.T) {
		stats := progress.LearnerStats([]*model.Enrollment{
			{Progress: 100, Completed: true},
			{Progress: 40, Completed: false},
		})
		assert.Equal(t, model.LearnerStats{
			EnrolledCount:   2,
			CompletedCount:  1,
			InProgressCount: 1,
			AverageProgress: 70,
		}, stats)
	})

	t.Run("not started is neither completed nor in progress", func(t *testing.T) {
		stats := progress.LearnerStats([]*model.Enrollment{
			{Progress: 0},
			{Progress: 33},
			{Progress: 0},
		})
		assert.Equal(t, 3, stats.EnrolledCount)
		assert.Equal(t, 0, stats.CompletedCount)
		assert.Equal(t, 1, stats.InProgressCount)
		assert.Equal(t, 11, stats.AverageProgress)
	})

	t.Run("average rounds half up", func(t *testing.T) {
		stats := progress.LearnerStats([]*model.Enrollment{{Progress: 50}, {Progress: 51}})
		assert.Equal(t, 51, stats.AverageProgress)
	})
}

func TestApplyCourseProgress(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	e := &model.Enrollment{Progress: 50}
	assert.True(t, progress.ApplyCourseProgress(e, 100, now))
	assert.True(t, e.Completed)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, now, *e.CompletedAt)

	assert.False(t, progress.ApplyCourseProgress(e, 100, now.Add(time.Hour)))
	assert.Equal(t, now, *e.CompletedAt)

	assert.True(t, progress.ApplyCourseProgress(e, 75, now))
	assert.False(t, e.Completed)
	assert.Nil(t, e.CompletedAt)
	assert.Equal(t, 75, e.Progress)
}
