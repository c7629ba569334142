package progress_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/progress"
)

func TestCoursePopularity(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	titles := map[uuid.UUID]string{a: "Intro to Trading", b: "Shareholder Basics"}

	enrollments := []*model.Enrollment{
		{CourseID: a, Completed: true},
		{CourseID: a},
		{CourseID: a, Completed: true},
		{CourseID: b},
		{CourseID: c, Course: &model.Course{Title: "Fallback"}},
		{CourseID: d},
		nil,
	}

	stats := progress.CoursePopularity(enrollments, titles)
	require.Len(t, stats, 4)
	assert.Equal(t, model.CourseStat{CourseID: a, Title: "Intro to Trading", Count: 3, CompletedCount: 2}, stats[0])

	// b, c and d tie on count; order falls back to course id
	tail := stats[1:]
	for i := 1; i < len(tail); i++ {
		assert.True(t, tail[i-1].CourseID.String() < tail[i].CourseID.String())
	}

	wantTitles := map[uuid.UUID]string{
		a: "Intro to Trading",
		b: "Shareholder Basics",
		c: "Fallback",
		d: progress.UnknownCourseTitle,
	}
	total := 0
	for _, s := range stats {
		total += s.Count
		assert.Equal(t, wantTitles[s.CourseID], s.Title)
	}
	assert.Equal(t, 6, total, "counts sum to the number of enrollments")
}

func TestTopCourses(t *testing.T) {
	var enrollments []*model.Enrollment
	for i := 0; i < 7; i++ {
		id := uuid.New()
		for j := 0; j <= i; j++ {
			enrollments = append(enrollments, &model.Enrollment{CourseID: id})
		}
	}
	top := progress.TopCourses(enrollments, nil, 5)
	require.Len(t, top, 5)
	assert.Equal(t, 7, top[0].Count)
	assert.Equal(t, 3, top[4].Count)

	assert.Empty(t, progress.TopCourses(nil, nil, 5))
}

func TestUserEnrollmentStats(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	stats := progress.UserEnrollmentStats([]*model.Enrollment{
		{UserID: u1, Completed: true},
		{UserID: u1},
		{UserID: u2},
	})
	assert.Equal(t, model.UserStat{Total: 2, Completed: 1}, stats[u1])
	assert.Equal(t, model.UserStat{Total: 1}, stats[u2])
	assert.Equal(t, model.UserStat{}, stats[uuid.New()])
}
