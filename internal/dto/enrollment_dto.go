package dto

import (
	"time"

	"github.com/simplylearn/api/internal/models"
)

// EnrollRequest is the payload for enrolling in a course.
type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

// EnrollmentResponse is returned to API clients when viewing enrollments.
type EnrollmentResponse struct {
	ID         uint            `json:"id"`
	StudentID  uint            `json:"student_id"`
	CourseID   uint            `json:"course_id"`
	Status     string          `json:"status"`
	EnrolledAt time.Time       `json:"enrolled_at"`
	Course     *CourseResponse `json:"course,omitempty"`
}

// EnrollmentCheckResponse answers an enrollment existence query.
type EnrollmentCheckResponse struct {
	Enrolled bool `json:"enrolled"`
}

// NewEnrollmentResponse converts an Enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	response := EnrollmentResponse{
		ID:         model.ID,
		StudentID:  model.StudentID,
		CourseID:   model.CourseID,
		Status:     model.Status,
		EnrolledAt: model.EnrolledAt,
	}

	if model.Course.ID != 0 {
		course := NewCourseResponse(model.Course)
		response.Course = &course
	}

	return response
}

// NewEnrollmentResponseSlice converts a slice of Enrollment models.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
