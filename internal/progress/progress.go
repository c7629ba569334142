// Package progress derives lesson, module and course completion from a
// learner's LessonProgress records. It performs no I/O.
package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/haradejene/yegara-web-lms/internal/model"
)

// Percentage returns round-half-up(100*completed/total), or 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return (200*completed + total) / (2 * total)
}

// ToggleCompletion returns the record that results from toggling a lesson.
// A nil existing record yields a new completed record. The input is not modified.
func ToggleCompletion(existing *model.LessonProgress, userID, lessonID uuid.UUID, now time.Time) *model.LessonProgress {
	if existing == nil {
		completedAt := now
		return &model.LessonProgress{
			ID:           uuid.New(),
			UserID:       userID,
			LessonID:     lessonID,
			Completed:    true,
			CompletedAt:  &completedAt,
			LastAccessed: now,
		}
	}

	next := *existing
	next.Completed = !existing.Completed
	if next.Completed {
		completedAt := now
		next.CompletedAt = &completedAt
	} else {
		next.CompletedAt = nil
	}
	next.LastAccessed = now
	return &next
}

// IndexByLesson builds a ProgressMap. When a lesson appears twice the later record wins.
func IndexByLesson(records []*model.LessonProgress) model.ProgressMap {
	m := make(model.ProgressMap, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		m[r.LessonID] = r
	}
	return m
}

func countCompleted(lessons []model.Lesson, records model.ProgressMap) int {
	completed := 0
	for _, l := range lessons {
		if r, ok := records[l.ID]; ok && r.Completed {
			completed++
		}
	}
	return completed
}

// ModuleProgress is the completion percentage of one module's lessons.
func ModuleProgress(lessons []model.Lesson, records model.ProgressMap) int {
	return Percentage(countCompleted(lessons, records), len(lessons))
}

// CourseProgress flattens the lessons of every module and applies Percentage to the union.
func CourseProgress(modules []model.CourseModule, records model.ProgressMap) int {
	completed, total := 0, 0
	for _, m := range modules {
		completed += countCompleted(m.Lessons, records)
		total += len(m.Lessons)
	}
	return Percentage(completed, total)
}

// CourseBreakdown computes per-module percentages alongside the course total.
func CourseBreakdown(modules []model.CourseModule, records model.ProgressMap) model.CourseProgressSummary {
	summary := model.CourseProgressSummary{
		Modules: make([]model.ModuleProgress, 0, len(modules)),
	}
	for _, m := range modules {
		done := countCompleted(m.Lessons, records)
		summary.Modules = append(summary.Modules, model.ModuleProgress{
			ModuleID:         m.ID,
			Title:            m.Title,
			Percentage:       Percentage(done, len(m.Lessons)),
			CompletedLessons: done,
			TotalLessons:     len(m.Lessons),
		})
		summary.CompletedLessons += done
		summary.TotalLessons += len(m.Lessons)
	}
	summary.Percentage = Percentage(summary.CompletedLessons, summary.TotalLessons)
	return summary
}

// LearnerStats summarises a learner's enrollments. An empty slice yields the zero value.
func LearnerStats(enrollments []*model.Enrollment) model.LearnerStats {
	var stats model.LearnerStats
	sum := 0
	for _, e := range enrollments {
		if e == nil {
			continue
		}
		stats.EnrolledCount++
		sum += e.Progress
		switch {
		case e.Completed:
			stats.CompletedCount++
		case e.Progress > 0:
			stats.InProgressCount++
		}
	}
	if stats.EnrolledCount > 0 {
		stats.AverageProgress = (2*sum + stats.EnrolledCount) / (2 * stats.EnrolledCount)
	}
	return stats
}

// ApplyCourseProgress writes a freshly computed course percentage into the cached
// enrollment fields. It reports whether anything changed.
func ApplyCourseProgress(e *model.Enrollment, pct int, now time.Time) bool {
	completed := pct == 100
	changed := e.Progress != pct || e.Completed != completed
	e.Progress = pct
	e.Completed = completed
	switch {
	case completed && e.CompletedAt == nil:
		t := now
		e.CompletedAt = &t
		changed = true
	case !completed && e.CompletedAt != nil:
		e.CompletedAt = nil
		changed = true
	}
	return changed
}
