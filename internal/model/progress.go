// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress is one learner's completion state for one lesson.
// At most one row exists per (user_id, lesson_id).
type LessonProgress struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_lesson_progress_user_lesson" json:"user_id"`
	LessonID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_lesson_progress_user_lesson;index" json:"lesson_id"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastAccessed time.Time  `gorm:"not null" json:"last_accessed"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// ProgressMap indexes a learner's records by lesson id.
type ProgressMap map[uuid.UUID]*LessonProgress

// ModuleProgress is a module's completion for one learner.
type ModuleProgress struct {
	ModuleID         uuid.UUID `json:"module_id"`
	Title            string    `json:"title"`
	Percentage       int       `json:"percentage"`
	CompletedLessons int       `json:"completed_lessons"`
	TotalLessons     int       `json:"total_lessons"`
}

// CourseProgressSummary is the per-module and whole-course breakdown.
type CourseProgressSummary struct {
	Modules          []ModuleProgress `json:"modules"`
	Percentage       int              `json:"percentage"`
	CompletedLessons int              `json:"completed_lessons"`
	TotalLessons     int              `json:"total_lessons"`
}

// CourseProgressView is the read model of the course page.
type CourseProgressView struct {
	Course     *Course               `json:"course"`
	Enrollment *Enrollment           `json:"enrollment"`
	Progress   ProgressMap           `json:"lesson_progress"`
	Summary    CourseProgressSummary `json:"summary"`
}

// ToggleLessonResult is returned by POST /api/lessons/{lesson_id}/toggle.
type ToggleLessonResult struct {
	LessonProgress *LessonProgress `json:"lesson_progress"`
	ModuleProgress int             `json:"module_progress"`
	CourseProgress int             `json:"course_progress"`
	Enrollment     *Enrollment     `json:"enrollment"`
}

// LearnerStats aggregates a learner's enrollments. The zero value is the empty result.
type LearnerStats struct {
	EnrolledCount   int `json:"enrolled_count"`
	CompletedCount  int `json:"completed_count"`
	InProgressCount int `json:"in_progress_count"`
	AverageProgress int `json:"average_progress"`
}

type LearnerDashboard struct {
	Stats       LearnerStats  `json:"stats"`
	Enrollments []*Enrollment `json:"enrollments"`
	// courses the learner has not enrolled in yet
	AvailableCourses []*Course `json:"available_courses"`
}

// StudentProfile is the read model of GET /api/students/{user_id}.
type StudentProfile struct {
	Profile          *Profile      `json:"profile"`
	Stats            LearnerStats  `json:"stats"`
	Enrollments      []*Enrollment `json:"enrollments"`
	CompletedCourses []*Course     `json:"completed_courses"`
}

// ProgressChangedEvent is published after a lesson toggle commits.
type ProgressChangedEvent struct {
	UserID         uuid.UUID `json:"user_id"`
	CourseID       uuid.UUID `json:"course_id"`
	LessonID       uuid.UUID `json:"lesson_id"`
	Completed      bool      `json:"completed"`
	CourseProgress int       `json:"course_progress"`
	OccurredAt     time.Time `json:"occurred_at"`
}
