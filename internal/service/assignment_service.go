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
	// ErrAssignmentNotFound indicates an assignment could not be found.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrInvalidDeadline indicates an unparseable assignment deadline.
	ErrInvalidDeadline = errors.New("invalid deadline")
)

// AssignmentService exposes assignment use-cases, including the derived
// per-student and per-tutor listings.
type AssignmentService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, actor models.User, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	StudentAssignments(ctx context.Context, studentID uint) ([]dto.StudentAssignmentResponse, error)
	TutorAssignments(ctx context.Context, tutorID uint) ([]dto.TutorAssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	submissions repository.SubmissionRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		submissions: submissions,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, actor models.User, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrCourseNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if course.TutorID != actor.ID && actor.Role != models.RoleAdmin {
		return dto.AssignmentResponse{}, ErrNotCourseOwner
	}

	deadline, err := time.Parse(time.RFC3339, payload.Deadline)
	if err != nil {
		return dto.AssignmentResponse{}, ErrInvalidDeadline
	}

	maxPoints := payload.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 100
	}

	assignment := models.Assignment{
		CourseID:     payload.CourseID,
		Title:        strings.TrimSpace(payload.Title),
		Instructions: strings.TrimSpace(payload.Instructions),
		Deadline:     deadline,
		MaxPoints:    maxPoints,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", course.ID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) StudentAssignments(ctx context.Context, studentID uint) ([]dto.StudentAssignmentResponse, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
	}

	assignments, err := s.assignments.ListByCourses(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StudentAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		entry := dto.StudentAssignmentResponse{
			AssignmentResponse: dto.NewAssignmentResponse(assignment),
			PastDue:            assignment.IsPastDue(s.now()),
		}

		submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, studentID)
		switch {
		case err == nil:
			submittedAt := submission.SubmittedAt
			entry.Submission = &dto.StudentSubmissionStatus{
				Submitted:   true,
				Late:        submission.IsLate(assignment.Deadline),
				SubmittedAt: &submittedAt,
				Grade:       submission.Grade,
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry.Submission = nil
		default:
			return nil, err
		}

		responses = append(responses, entry)
	}

	return responses, nil
}

func (s *assignmentService) TutorAssignments(ctx context.Context, tutorID uint) ([]dto.TutorAssignmentResponse, error) {
	courses, err := s.courses.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
	}

	assignments, err := s.assignments.ListByCourses(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TutorAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		total, err := s.submissions.CountByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}

		graded, err := s.submissions.CountGradedByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}

		responses = append(responses, dto.TutorAssignmentResponse{
			AssignmentResponse: dto.NewAssignmentResponse(assignment),
			SubmissionStats: dto.SubmissionStats{
				Total:   total,
				Pending: total - graded,
			},
		})
	}

	return responses, nil
}
