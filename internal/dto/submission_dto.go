package dto

import (
	"time"

	"github.com/simplylearn/api/internal/models"
)

// SubmitRequest describes the multipart payload for an assignment submission.
// The file part is read separately by the handler.
type SubmitRequest struct {
	AssignmentID uint   `form:"assignment_id" validate:"required,gt=0"`
	TextEntry    string `form:"text_entry" validate:"omitempty,max=20000"`
}

// GradeRequest records a grade and feedback for a submission.
// Grades are only bounded below; max_points is advisory.
type GradeRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback" validate:"omitempty,max=10000"`
}

// StudentLite summarizes a student without exposing credential fields.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint        `json:"id"`
	AssignmentID uint        `json:"assignment_id"`
	StudentID    uint        `json:"student_id"`
	FileURL      string      `json:"file_url"`
	TextEntry    string      `json:"text_entry"`
	SubmittedAt  time.Time   `json:"submitted_at"`
	Late         bool        `json:"late"`
	Grade        *float64    `json:"grade"`
	Feedback     string      `json:"feedback"`
	Student      StudentLite `json:"student"`
}

// NewSubmissionResponse converts a Submission model into a DTO. Lateness is
// derived from the preloaded assignment deadline when available.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		FileURL:      model.FileURL,
		TextEntry:    model.TextEntry,
		SubmittedAt:  model.SubmittedAt,
		Grade:        model.Grade,
		Feedback:     model.Feedback,
	}

	if model.Assignment.ID != 0 {
		response.Late = model.IsLate(model.Assignment.Deadline)
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts a slice of Submission models.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
