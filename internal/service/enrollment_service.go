package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/repository"
)

// ErrAlreadyEnrolled indicates a duplicate (student, course) enrollment attempt.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// EnrollmentService exposes enrollment use-cases.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID uint, payload dto.EnrollRequest) (dto.EnrollmentResponse, error)
	MyEnrollments(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error)
	Check(ctx context.Context, studentID, courseID uint) (dto.EnrollmentCheckResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID uint, payload dto.EnrollRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.enrollments.GetByStudentAndCourse(ctx, studentID, payload.CourseID); err == nil {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		StudentID:  studentID,
		CourseID:   payload.CourseID,
		Status:     models.EnrollmentStatusActive,
		EnrolledAt: s.now(),
	}

	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("student_id", studentID).Uint("course_id", payload.CourseID).Msg("student enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) MyEnrollments(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) Check(ctx context.Context, studentID, courseID uint) (dto.EnrollmentCheckResponse, error) {
	_, err := s.enrollments.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentCheckResponse{Enrolled: false}, nil
		}
		return dto.EnrollmentCheckResponse{}, err
	}

	return dto.EnrollmentCheckResponse{Enrolled: true}, nil
}
