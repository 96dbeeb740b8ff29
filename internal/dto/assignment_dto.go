package dto

import (
	"time"

	"github.com/simplylearn/api/internal/models"
)

// AssignmentCreateRequest is the payload for creating an assignment.
type AssignmentCreateRequest struct {
	CourseID     uint    `json:"course_id" validate:"required,gt=0"`
	Title        string  `json:"title" validate:"required,min=1,max=255"`
	Instructions string  `json:"instructions" validate:"omitempty"`
	Deadline     string  `json:"deadline" validate:"required"`
	MaxPoints    float64 `json:"max_points" validate:"omitempty,gte=0"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID           uint      `json:"id"`
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title,omitempty"`
	Title        string    `json:"title"`
	Instructions string    `json:"instructions"`
	Deadline     time.Time `json:"deadline"`
	MaxPoints    float64   `json:"max_points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentSubmissionStatus is the derived per-student view of an assignment.
type StudentSubmissionStatus struct {
	Submitted   bool       `json:"submitted"`
	Late        bool       `json:"late"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Grade       *float64   `json:"grade,omitempty"`
}

// StudentAssignmentResponse pairs an assignment with the caller's submission status.
type StudentAssignmentResponse struct {
	AssignmentResponse
	PastDue    bool                     `json:"past_due"`
	Submission *StudentSubmissionStatus `json:"submission"`
}

// SubmissionStats aggregates per-assignment submission counts for tutors.
type SubmissionStats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

// TutorAssignmentResponse pairs an assignment with its submission statistics.
type TutorAssignmentResponse struct {
	AssignmentResponse
	SubmissionStats SubmissionStats `json:"submission_stats"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:           model.ID,
		CourseID:     model.CourseID,
		Title:        model.Title,
		Instructions: model.Instructions,
		Deadline:     model.Deadline,
		MaxPoints:    model.MaxPoints,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Course.ID != 0 {
		response.CourseTitle = model.Course.Title
	}

	return response
}

// NewAssignmentResponseSlice converts a slice of Assignment models.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
