// internal/model/analytics.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CourseStat is the per-course popularity record: one increment per enrollment,
// CompletedCount incremented when the enrollment is completed.
type CourseStat struct {
	CourseID       uuid.UUID `json:"course_id"`
	Title          string    `json:"title"`
	Count          int       `json:"count"`
	CompletedCount int       `json:"completed_count"`
}

// UserStat is the per-user enrollment tally.
type UserStat struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type DashboardStats struct {
	TotalCourses  int64     `json:"total_courses"`
	TotalUsers    int64     `json:"total_users"`
	VideoCourses  int64     `json:"video_courses"`
	PDFCourses    int64     `json:"pdf_courses"`
	RecentCourses []*Course `json:"recent_courses"`
}

type RecentActivity struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	UserEmail    string    `json:"user_email"`
	CourseTitle  string    `json:"course_title"`
	Progress     int       `json:"progress"`
	Completed    bool      `json:"completed"`
	LastAccessed time.Time `json:"last_accessed"`
}

type AnalyticsReport struct {
	TotalCourses         int64            `json:"total_courses"`
	TotalUsers           int64            `json:"total_users"`
	TotalEnrollments     int64            `json:"total_enrollments"`
	CompletedEnrollments int64            `json:"completed_enrollments"`
	CompletionRate       int              `json:"completion_rate"`
	CourseTypes          map[string]int64 `json:"course_types"`
	Roles                map[string]int64 `json:"roles"`
	RecentEnrollments    int64            `json:"recent_enrollments"`
	WindowStart          time.Time        `json:"window_start"`
	PopularCourses       []CourseStat     `json:"popular_courses"`
	RecentActivity       []RecentActivity `json:"recent_activity"`
}
