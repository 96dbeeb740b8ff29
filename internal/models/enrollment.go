package models

import "time"

// Enrollment statuses.
const (
	EnrollmentStatusActive    = "Active"
	EnrollmentStatusCompleted = "Completed"
	EnrollmentStatusDropped   = "Dropped"
)

// Enrollment links a student to a course. Uniqueness per (student, course)
// is enforced both by the create path and a composite index.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"student_id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"course_id"`
	Status     string    `gorm:"size:32;not null;default:Active" json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Student    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Course     Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
}
