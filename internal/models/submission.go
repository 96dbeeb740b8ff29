package models

import "time"

// Submission is a student's attempt record for an assignment. At most one
// live submission exists per (assignment, student); resubmission overwrites
// file, text, and timestamp in place.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	FileURL      string     `gorm:"size:512" json:"file_url"`
	TextEntry    string     `gorm:"type:text" json:"text_entry"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	Grade        *float64   `json:"grade"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// IsGraded reports whether a grade has been recorded.
func (s Submission) IsGraded() bool {
	return s.Grade != nil
}

// IsLate reports whether the submission landed after the given deadline.
func (s Submission) IsLate(deadline time.Time) bool {
	return s.SubmittedAt.After(deadline)
}
