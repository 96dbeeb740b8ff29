package dto

import (
	"time"

	"github.com/simplylearn/api/internal/models"
)

// ForumPostCreateRequest is the payload for creating a forum post or reply.
type ForumPostCreateRequest struct {
	CourseID     uint   `json:"course_id" validate:"required,gt=0"`
	Content      string `json:"content" validate:"required,min=1,max=20000"`
	ParentPostID *uint  `json:"parent_post_id" validate:"omitempty,gt=0"`
}

// AuthorLite summarizes a post author.
type AuthorLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ForumPostResponse is returned to API clients when viewing forum posts.
type ForumPostResponse struct {
	ID           uint       `json:"id"`
	CourseID     uint       `json:"course_id"`
	Content      string     `json:"content"`
	ParentPostID *uint      `json:"parent_post_id"`
	Author       AuthorLite `json:"author"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewForumPostResponse converts a ForumPost model into a DTO.
func NewForumPostResponse(model models.ForumPost) ForumPostResponse {
	response := ForumPostResponse{
		ID:           model.ID,
		CourseID:     model.CourseID,
		Content:      model.Content,
		ParentPostID: model.ParentPostID,
		CreatedAt:    model.CreatedAt,
	}

	if model.Author.ID != 0 {
		response.Author = AuthorLite{
			ID:   model.Author.ID,
			Name: model.Author.Name,
			Role: string(model.Author.Role),
		}
	}

	return response
}

// NewForumPostResponseSlice converts a slice of ForumPost models.
func NewForumPostResponseSlice(posts []models.ForumPost) []ForumPostResponse {
	responses := make([]ForumPostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, NewForumPostResponse(post))
	}

	return responses
}
