package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/repository"
)

var (
	// ErrCourseNotFound indicates a course could not be found.
	ErrCourseNotFound = errors.New("course not found")
	// ErrNotCourseOwner indicates the actor does not own the course and is not an admin.
	ErrNotCourseOwner = errors.New("not authorized to modify this course")
	// ErrStudentsCannotCreate indicates a student attempted a tutor-only operation.
	ErrStudentsCannotCreate = errors.New("not authorized to create courses")
)

// CourseService exposes course use-cases.
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, actor models.User, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, actor models.User, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, actor models.User, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if actor.Role == models.RoleStudent {
		return dto.CourseResponse{}, ErrStudentsCannotCreate
	}

	course := models.Course{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		TutorID:     actor.ID,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	created, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("tutor_id", actor.ID).Msg("course created")

	return dto.NewCourseResponse(created), nil
}

func (s *courseService) Update(ctx context.Context, actor models.User, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if course.TutorID != actor.ID && actor.Role != models.RoleAdmin {
		return dto.CourseResponse{}, ErrNotCourseOwner
	}

	if payload.Title != nil {
		if title := strings.TrimSpace(*payload.Title); title != "" {
			course.Title = title
		}
	}

	if payload.Description != nil {
		if description := strings.TrimSpace(*payload.Description); description != "" {
			course.Description = description
		}
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	// Materials are appended, never replaced.
	if len(payload.Materials) > 0 {
		materials := make([]models.CourseMaterial, 0, len(payload.Materials))
		for _, material := range payload.Materials {
			materials = append(materials, models.CourseMaterial{
				Title:      strings.TrimSpace(material.Title),
				Kind:       material.Kind,
				URL:        material.URL,
				UploadedAt: s.now(),
			})
		}

		if err := s.courses.AppendMaterials(ctx, course.ID, materials); err != nil {
			return dto.CourseResponse{}, err
		}
	}

	updated, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(updated), nil
}
