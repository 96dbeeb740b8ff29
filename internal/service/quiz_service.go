package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/repository"
)

var (
	// ErrQuizNotFound indicates a quiz could not be found.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidAnswerIndex indicates an answer referenced a question or option
	// that does not exist.
	ErrInvalidAnswerIndex = errors.New("answer references an unknown question or option")
)

// QuizService exposes quiz use-cases: authoring, taking, and reviewing
// attempts. Correct answers are only revealed to tutors and admins.
type QuizService interface {
	ListByCourse(ctx context.Context, actor models.User, courseID uint) ([]dto.QuizResponse, error)
	Get(ctx context.Context, actor models.User, id uint) (dto.QuizResponse, error)
	Create(ctx context.Context, actor models.User, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Submit(ctx context.Context, student models.User, quizID uint, payload dto.QuizSubmitRequest) (dto.QuizResultResponse, error)
	MyResults(ctx context.Context, studentID, quizID uint) ([]dto.QuizResultResponse, error)
}

type quizService struct {
	quizzes     repository.QuizRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(
	quizzes repository.QuizRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) QuizService {
	return &quizService{
		quizzes:     quizzes,
		courses:     courses,
		enrollments: enrollments,
		validator:   validate,
		logger:      logger.With().Str("component", "quiz_service").Logger(),
		now:         time.Now,
	}
}

func canSeeAnswers(actor models.User) bool {
	return actor.Role == models.RoleTutor || actor.Role == models.RoleAdmin
}

func (s *quizService) ListByCourse(ctx context.Context, actor models.User, courseID uint) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizResponseSlice(quizzes, canSeeAnswers(actor)), nil
}

func (s *quizService) Get(ctx context.Context, actor models.User, id uint) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	return dto.NewQuizResponse(quiz, canSeeAnswers(actor)), nil
}

func (s *quizService) Create(ctx context.Context, actor models.User, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrCourseNotFound
		}
		return dto.QuizResponse{}, err
	}

	if course.TutorID != actor.ID && actor.Role != models.RoleAdmin {
		return dto.QuizResponse{}, ErrNotCourseOwner
	}

	for _, question := range payload.Questions {
		if question.CorrectOptionIndex >= len(question.Options) {
			return dto.QuizResponse{}, ErrInvalidAnswerIndex
		}
	}

	timerLimit := payload.TimerLimitMinutes
	if timerLimit <= 0 {
		timerLimit = 30
	}

	quiz := models.Quiz{
		CourseID:          payload.CourseID,
		Title:             strings.TrimSpace(payload.Title),
		TimerLimitMinutes: timerLimit,
		Questions:         make([]models.QuizQuestion, 0, len(payload.Questions)),
	}

	for position, question := range payload.Questions {
		kind := question.Kind
		if kind == "" {
			kind = models.QuestionKindMultipleChoice
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Position:           position,
			Text:               strings.TrimSpace(question.Text),
			Options:            datatypes.NewJSONSlice(question.Options),
			CorrectOptionIndex: question.CorrectOptionIndex,
			Kind:               kind,
		})
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().
		Uint("quiz_id", quiz.ID).
		Uint("course_id", course.ID).
		Int("questions", len(quiz.Questions)).
		Msg("quiz created")

	return dto.NewQuizResponse(quiz, true), nil
}

func (s *quizService) Submit(ctx context.Context, student models.User, quizID uint, payload dto.QuizSubmitRequest) (dto.QuizResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResultResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResultResponse{}, ErrQuizNotFound
		}
		return dto.QuizResultResponse{}, err
	}

	if student.Role == models.RoleStudent {
		if _, err := s.enrollments.GetByStudentAndCourse(ctx, student.ID, quiz.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.QuizResultResponse{}, ErrNotEnrolled
			}
			return dto.QuizResultResponse{}, err
		}
	}

	byPosition := make(map[int]models.QuizQuestion, len(quiz.Questions))
	for _, question := range quiz.Questions {
		byPosition[question.Position] = question
	}

	score := 0
	answers := datatypes.JSONMap{}
	for position, selected := range payload.Answers {
		question, ok := byPosition[position]
		if !ok || selected < 0 || selected >= len(question.Options) {
			return dto.QuizResultResponse{}, ErrInvalidAnswerIndex
		}
		answers[strconv.Itoa(position)] = selected
		if selected == question.CorrectOptionIndex {
			score++
		}
	}

	total := len(quiz.Questions)
	percentage := 0.0
	if total > 0 {
		percentage = float64(score) / float64(total) * 100
	}

	result := models.QuizResult{
		QuizID:         quiz.ID,
		StudentID:      student.ID,
		Answers:        answers,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		SubmittedAt:    s.now(),
	}

	if err := s.quizzes.CreateResult(ctx, &result); err != nil {
		return dto.QuizResultResponse{}, err
	}

	s.logger.Info().
		Uint("quiz_id", quiz.ID).
		Uint("student_id", student.ID).
		Int("score", score).
		Int("total", total).
		Msg("quiz attempt recorded")

	return dto.NewQuizResultResponse(result), nil
}

func (s *quizService) MyResults(ctx context.Context, studentID, quizID uint) ([]dto.QuizResultResponse, error) {
	results, err := s.quizzes.ListResultsByQuizAndStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizResultResponseSlice(results), nil
}
