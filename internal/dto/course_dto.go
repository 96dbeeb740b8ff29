package dto

import (
	"time"

	"github.com/simplylearn/api/internal/models"
)

// CourseCreateRequest is the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required,min=1"`
}

// MaterialRequest describes one material entry to append to a course.
type MaterialRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	Kind  string `json:"kind" validate:"required,oneof=PDF Video Link"`
	URL   string `json:"url" validate:"required,url,max=512"`
}

// CourseUpdateRequest patches title/description and appends materials.
type CourseUpdateRequest struct {
	Title       *string           `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string           `json:"description" validate:"omitempty,min=1"`
	Materials   []MaterialRequest `json:"materials" validate:"omitempty,dive"`
}

// MaterialResponse serializes a course material entry.
type MaterialResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Kind       string    `json:"kind"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TutorLite summarizes a course owner.
type TutorLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CourseResponse is returned to API clients when viewing courses.
type CourseResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	TutorID     uint               `json:"tutor_id"`
	Tutor       TutorLite          `json:"tutor"`
	Materials   []MaterialResponse `json:"materials"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		TutorID:     model.TutorID,
		Materials:   make([]MaterialResponse, 0, len(model.Materials)),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Tutor.ID != 0 {
		response.Tutor = TutorLite{
			ID:    model.Tutor.ID,
			Name:  model.Tutor.Name,
			Email: model.Tutor.Email,
		}
	}

	for _, material := range model.Materials {
		response.Materials = append(response.Materials, MaterialResponse{
			ID:         material.ID,
			Title:      material.Title,
			Kind:       material.Kind,
			URL:        material.URL,
			UploadedAt: material.UploadedAt,
		})
	}

	return response
}

// NewCourseResponseSlice converts a slice of Course models.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
