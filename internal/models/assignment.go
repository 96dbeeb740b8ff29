package models

import "time"

// Assignment represents graded coursework attached to a course.
type Assignment struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	CourseID     uint         `gorm:"not null;index" json:"course_id"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Instructions string       `gorm:"type:text" json:"instructions"`
	Deadline     time.Time    `gorm:"not null" json:"deadline"`
	MaxPoints    float64      `gorm:"not null;default:100" json:"max_points"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Course       Course       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
	Submissions  []Submission `json:"-"`
}

// IsPastDue returns true when the deadline has already passed at the reference time.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.Deadline)
}
