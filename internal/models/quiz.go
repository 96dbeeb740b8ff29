package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question kinds supported by quizzes.
const (
	QuestionKindMultipleChoice = "Multiple Choice"
	QuestionKindTrueFalse      = "True/False"
)

// Quiz is an ordered set of questions attached to a course.
type Quiz struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CourseID          uint           `gorm:"not null;index" json:"course_id"`
	Title             string         `gorm:"size:255;not null" json:"title"`
	TimerLimitMinutes int            `gorm:"not null;default:30" json:"timer_limit_minutes"`
	Questions         []QuizQuestion `json:"questions"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Course            Course         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// QuizQuestion holds one question, its options, and the correct option index.
// Position preserves the authoring order.
type QuizQuestion struct {
	ID                 uint                           `gorm:"primaryKey" json:"id"`
	QuizID             uint                           `gorm:"not null;index" json:"quiz_id"`
	Position           int                            `gorm:"not null" json:"position"`
	Text               string                         `gorm:"type:text;not null" json:"text"`
	Options            datatypes.JSONSlice[string]    `json:"options"`
	CorrectOptionIndex int                            `gorm:"not null" json:"correct_option_index"`
	Kind               string                         `gorm:"size:32;not null;default:Multiple Choice" json:"kind"`
}

// QuizResult is an immutable record of one quiz attempt. Repeat attempts
// create new rows; nothing enforces one result per (quiz, student).
type QuizResult struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	QuizID         uint              `gorm:"not null;index:idx_quiz_result_quiz_student" json:"quiz_id"`
	StudentID      uint              `gorm:"not null;index:idx_quiz_result_quiz_student" json:"student_id"`
	Answers        datatypes.JSONMap `gorm:"type:json" json:"answers"`
	Score          int               `gorm:"not null" json:"score"`
	TotalQuestions int               `gorm:"not null" json:"total_questions"`
	Percentage     float64           `gorm:"not null" json:"percentage"`
	SubmittedAt    time.Time         `gorm:"not null" json:"submitted_at"`
	CreatedAt      time.Time         `json:"created_at"`
	Quiz           Quiz              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student        User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
