package models

import "time"

// Material kinds accepted for course content entries.
const (
	MaterialKindPDF   = "PDF"
	MaterialKindVideo = "Video"
	MaterialKindLink  = "Link"
)

// Course represents a unit of study owned by a tutor.
type Course struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	TutorID     uint             `gorm:"not null;index" json:"tutor_id"`
	Tutor       User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tutor"`
	Materials   []CourseMaterial `json:"materials"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CourseMaterial is a single content entry attached to a course.
// Entries are only ever appended; updates never replace the existing list.
type CourseMaterial struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CourseID   uint      `gorm:"not null;index" json:"course_id"`
	Title      string    `gorm:"size:255" json:"title"`
	Kind       string    `gorm:"size:32" json:"kind"`
	URL        string    `gorm:"size:512" json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
