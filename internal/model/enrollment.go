// internal/model/enrollment.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment ties one learner to one course. Progress is a cached course
// percentage kept in sync with LessonProgress; Completed == (Progress == 100).
type Enrollment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_enrollment_user_course" json:"user_id"`
	CourseID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_enrollment_user_course;index" json:"course_id"`
	Progress     int        `gorm:"not null;default:0" json:"progress"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	EnrolledAt   time.Time  `gorm:"not null" json:"enrolled_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastAccessed time.Time  `gorm:"not null;index" json:"last_accessed"`

	Course *Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	User   *Profile `gorm:"foreignKey:UserID" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// EnrollRequest accepts both JSON and form bodies.
type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid"`
}

type EnrollResponse struct {
	Success    bool        `json:"success"`
	Enrollment *Enrollment `json:"enrollment"`
}
