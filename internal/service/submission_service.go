package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/repository"
	"github.com/simplylearn/api/pkg/storage"
)

var (
	// ErrSubmissionNotFound indicates a submission could not be found.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrNotEnrolled indicates the student is not enrolled in the course.
	ErrNotEnrolled = errors.New("not enrolled in this course")
	// ErrEmptySubmission indicates neither a file nor a text entry was supplied.
	ErrEmptySubmission = errors.New("submission requires a file or a text entry")
	// ErrUnsupportedFileType indicates a disallowed upload extension or MIME type.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// allowedSubmissionExts are the upload extensions accepted for submissions.
var allowedSubmissionExts = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".pptx": {},
	".zip":  {},
}

// SubmissionUpload carries an uploaded file through the service layer.
type SubmissionUpload struct {
	Filename string
	Reader   io.Reader
}

// SubmissionService exposes submission use-cases: submitting (and
// resubmitting in place), listing, and grading.
type SubmissionService interface {
	Submit(ctx context.Context, student models.User, payload dto.SubmitRequest, upload *SubmissionUpload) (dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, actor models.User, assignmentID uint) ([]dto.SubmissionResponse, error)
	MySubmission(ctx context.Context, studentID, assignmentID uint) (*dto.SubmissionResponse, error)
	Grade(ctx context.Context, actor models.User, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	storage     storage.FileStorage
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	store storage.FileStorage,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		storage:     store,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, student models.User, payload dto.SubmitRequest, upload *SubmissionUpload) (dto.SubmissionResponse, error) {
	ctx, span := otel.Tracer("submission").Start(ctx, "submission.submit",
		trace.WithAttributes(attribute.Int("assignment.id", int(payload.AssignmentID))))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	textEntry := strings.TrimSpace(s.sanitizer.Sanitize(payload.TextEntry))
	if upload == nil && textEntry == "" {
		return dto.SubmissionResponse{}, ErrEmptySubmission
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.enrollments.GetByStudentAndCourse(ctx, student.ID, assignment.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrNotEnrolled
		}
		return dto.SubmissionResponse{}, err
	}

	fileURL := ""
	if upload != nil {
		fileURL, err = s.storeUpload(ctx, student.ID, assignment.ID, upload)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
	}

	span.SetAttributes(attribute.Int("student.id", int(student.ID)))

	submittedAt := s.now()

	existing, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, student.ID)
	switch {
	case err == nil:
		// Resubmission replaces the previous attempt in place and clears any
		// prior grade and feedback.
		existing.SubmittedAt = submittedAt
		existing.Grade = nil
		existing.Feedback = ""
		if fileURL != "" {
			existing.FileURL = fileURL
		}
		if textEntry != "" || upload == nil {
			existing.TextEntry = textEntry
		}
		if err := s.submissions.Update(ctx, &existing); err != nil {
			return dto.SubmissionResponse{}, err
		}

		existing.Assignment = assignment
		s.logger.Info().
			Uint("submission_id", existing.ID).
			Uint("assignment_id", assignment.ID).
			Bool("late", existing.IsLate(assignment.Deadline)).
			Msg("submission replaced")

		return dto.NewSubmissionResponse(existing), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission := models.Submission{
			AssignmentID: assignment.ID,
			StudentID:    student.ID,
			FileURL:      fileURL,
			TextEntry:    textEntry,
			SubmittedAt:  submittedAt,
		}
		if err := s.submissions.Create(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}

		submission.Assignment = assignment
		submission.Student = student
		s.logger.Info().
			Uint("submission_id", submission.ID).
			Uint("assignment_id", assignment.ID).
			Bool("late", submission.IsLate(assignment.Deadline)).
			Msg("submission created")

		return dto.NewSubmissionResponse(submission), nil
	default:
		return dto.SubmissionResponse{}, err
	}
}

func (s *submissionService) storeUpload(ctx context.Context, studentID, assignmentID uint, upload *SubmissionUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, ok := allowedSubmissionExts[ext]; !ok {
		return "", ErrUnsupportedFileType
	}

	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	if !submissionMIMEAllowed(mimetype.Detect(data)) {
		return "", ErrUnsupportedFileType
	}

	name := fmt.Sprintf("submission_%d_%d%s", assignmentID, studentID, ext)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return url, nil
}

func submissionMIMEAllowed(detected *mimetype.MIME) bool {
	allowed := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/zip",
		"application/x-zip-compressed",
	}
	for _, mime := range allowed {
		if detected.Is(mime) {
			return true
		}
	}

	return false
}

func (s *submissionService) ListByAssignment(ctx context.Context, actor models.User, assignmentID uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}

	if course.TutorID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, ErrNotCourseOwner
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// MySubmission returns nil without error when the student has not submitted
// yet, so the endpoint can answer with a null body instead of a 404.
func (s *submissionService) MySubmission(ctx context.Context, studentID, assignmentID uint) (*dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	response := dto.NewSubmissionResponse(submission)

	return &response, nil
}

func (s *submissionService) Grade(ctx context.Context, actor models.User, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, assignment.CourseID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if course.TutorID != actor.ID && actor.Role != models.RoleAdmin {
		return dto.SubmissionResponse{}, ErrNotCourseOwner
	}

	grade := payload.Grade
	submission.Grade = &grade
	submission.Feedback = strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission.Assignment = assignment

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("grade", grade).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}
