package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/repository"
)

var (
	// ErrForumPostNotFound indicates a forum post could not be found.
	ErrForumPostNotFound = errors.New("forum post not found")
	// ErrParentPostMismatch indicates a reply targeted a post from a different course.
	ErrParentPostMismatch = errors.New("parent post belongs to a different course")
	// ErrEmptyForumPost indicates the post content sanitized down to nothing.
	ErrEmptyForumPost = errors.New("post content is empty")
)

// ForumService exposes course discussion use-cases. Post content is
// sanitized before it is stored.
type ForumService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.ForumPostResponse, error)
	Create(ctx context.Context, author models.User, payload dto.ForumPostCreateRequest) (dto.ForumPostResponse, error)
}

type forumService struct {
	posts     repository.ForumRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewForumService constructs a ForumService instance.
func NewForumService(
	posts repository.ForumRepository,
	courses repository.CourseRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ForumService {
	return &forumService{
		posts:     posts,
		courses:   courses,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "forum_service").Logger(),
	}
}

func (s *forumService) ListByCourse(ctx context.Context, courseID uint) ([]dto.ForumPostResponse, error) {
	posts, err := s.posts.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewForumPostResponseSlice(posts), nil
}

func (s *forumService) Create(ctx context.Context, author models.User, payload dto.ForumPostCreateRequest) (dto.ForumPostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForumPostResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumPostResponse{}, ErrCourseNotFound
		}
		return dto.ForumPostResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ForumPostResponse{}, ErrEmptyForumPost
	}

	if payload.ParentPostID != nil {
		parent, err := s.posts.GetByID(ctx, *payload.ParentPostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ForumPostResponse{}, ErrForumPostNotFound
			}
			return dto.ForumPostResponse{}, err
		}
		if parent.CourseID != payload.CourseID {
			return dto.ForumPostResponse{}, ErrParentPostMismatch
		}
	}

	post := models.ForumPost{
		CourseID:     payload.CourseID,
		AuthorID:     author.ID,
		Content:      content,
		ParentPostID: payload.ParentPostID,
	}

	if err := s.posts.Create(ctx, &post); err != nil {
		return dto.ForumPostResponse{}, err
	}

	post.Author = author
	s.logger.Info().
		Uint("post_id", post.ID).
		Uint("course_id", post.CourseID).
		Bool("reply", post.ParentPostID != nil).
		Msg("forum post created")

	return dto.NewForumPostResponse(post), nil
}
