// internal/model/course.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Course content types
const (
	CourseContentVideo = "video"
	CourseContentPDF   = "pdf"
)

// Lesson content types
const (
	LessonContentVideo = "video"
	LessonContentPDF   = "pdf"
	LessonContentText  = "text"
	LessonContentQuiz  = "quiz"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ContentType  string    `gorm:"type:varchar(20);not null;default:video" json:"content_type"`
	ContentURL   string    `json:"content_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Modules []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule is an ordered group of lessons. Position defines display order.
type CourseModule struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type Lesson struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	ContentType string    `gorm:"type:varchar(20);not null;default:video" json:"content_type"`
	ContentURL  string    `json:"content_url"`
	ContentText string    `json:"content_text"`
	Duration    *int      `json:"duration"` // minutes
	Position    int       `gorm:"not null;default:0" json:"position"`
	IsFree      bool      `gorm:"not null;default:false" json:"is_free"`
	CreatedAt   time.Time `json:"created_at"`

	Module *CourseModule `gorm:"foreignKey:ModuleID" json:"-"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// CourseFilter narrows the catalog. The zero value lists every course.
type CourseFilter struct {
	ContentType   string
	NotEnrolledBy uuid.UUID
}

// CreateCourseRequest / UpdateCourseRequest are the admin course bodies.
type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	ContentType  string `json:"content_type" validate:"required,oneof=video pdf"`
	ContentURL   string `json:"content_url" validate:"omitempty,url"`
}

type UpdateCourseRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	ContentType  *string `json:"content_type,omitempty" validate:"omitempty,oneof=video pdf"`
	ContentURL   *string `json:"content_url,omitempty" validate:"omitempty,url"`
}

type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Position    int    `json:"position" validate:"min=0"`
}

type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	ContentType string `json:"content_type" validate:"required,oneof=video pdf text quiz"`
	ContentURL  string `json:"content_url" validate:"omitempty,url"`
	ContentText string `json:"content_text"`
	Duration    *int   `json:"duration,omitempty" validate:"omitempty,min=0"`
	Position    int    `json:"position" validate:"min=0"`
	IsFree      bool   `json:"is_free"`
}
