package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
)

type quizFixture struct {
	svc         *quizService
	quizzes     *memoryQuizRepo
	courses     *memoryCourseRepo
	enrollments *memoryEnrollmentRepo
	tutor       models.User
	student     models.User
	course      models.Course
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()

	courses := newMemoryCourseRepo()
	enrollments := newMemoryEnrollmentRepo()
	quizzes := newMemoryQuizRepo()

	svc := NewQuizService(quizzes, courses, enrollments,
		validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).(*quizService)

	tutor := models.User{ID: 1, Name: "Tutor", Role: models.RoleTutor}
	student := models.User{ID: 2, Name: "Student", Role: models.RoleStudent}

	course := models.Course{Title: "Networking", Description: "From sockets up", TutorID: tutor.ID}
	require.NoError(t, courses.Create(context.Background(), &course))

	require.NoError(t, enrollments.Create(context.Background(), &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentStatusActive,
	}))

	return &quizFixture{
		svc:         svc,
		quizzes:     quizzes,
		courses:     courses,
		enrollments: enrollments,
		tutor:       tutor,
		student:     student,
		course:      course,
	}
}

func (fx *quizFixture) createQuiz(t *testing.T) dto.QuizResponse {
	t.Helper()

	quiz, err := fx.svc.Create(context.Background(), fx.tutor, dto.QuizCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Protocol basics",
		Questions: []dto.QuizQuestionRequest{
			{Text: "Which layer does TCP live on?", Options: []string{"Link", "Transport", "Application"}, CorrectOptionIndex: 1},
			{Text: "UDP is connection oriented", Options: []string{"True", "False"}, CorrectOptionIndex: 1, Kind: models.QuestionKindTrueFalse},
			{Text: "Default HTTP port?", Options: []string{"21", "80", "443"}, CorrectOptionIndex: 1},
		},
	})
	require.NoError(t, err)
	return quiz
}

func TestQuizServiceCreateValidatesAnswerIndexes(t *testing.T) {
	fx := newQuizFixture(t)

	_, err := fx.svc.Create(context.Background(), fx.tutor, dto.QuizCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Broken",
		Questions: []dto.QuizQuestionRequest{
			{Text: "Pick one", Options: []string{"A", "B"}, CorrectOptionIndex: 2},
		},
	})
	require.ErrorIs(t, err, ErrInvalidAnswerIndex)

	_, err = fx.svc.Create(context.Background(), fx.student, dto.QuizCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Nope",
		Questions: []dto.QuizQuestionRequest{
			{Text: "Pick one", Options: []string{"A", "B"}, CorrectOptionIndex: 0},
		},
	})
	require.ErrorIs(t, err, ErrNotCourseOwner)
}

func TestQuizServiceStripsAnswersForStudents(t *testing.T) {
	fx := newQuizFixture(t)
	created := fx.createQuiz(t)

	studentView, err := fx.svc.Get(context.Background(), fx.student, created.ID)
	require.NoError(t, err)
	require.Len(t, studentView.Questions, 3)
	for _, question := range studentView.Questions {
		require.Nil(t, question.CorrectOptionIndex)
	}

	tutorView, err := fx.svc.Get(context.Background(), fx.tutor, created.ID)
	require.NoError(t, err)
	for _, question := range tutorView.Questions {
		require.NotNil(t, question.CorrectOptionIndex)
	}
}

func TestQuizServiceScoring(t *testing.T) {
	fx := newQuizFixture(t)
	created := fx.createQuiz(t)

	result, err := fx.svc.Submit(context.Background(), fx.student, created.ID, dto.QuizSubmitRequest{
		Answers: map[int]int{0: 1, 1: 0, 2: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Score)
	require.Equal(t, 3, result.TotalQuestions)
	require.InDelta(t, 66.67, result.Percentage, 0.01)

	// A second attempt is a fresh row, it never replaces the first.
	perfect, err := fx.svc.Submit(context.Background(), fx.student, created.ID, dto.QuizSubmitRequest{
		Answers: map[int]int{0: 1, 1: 1, 2: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 3, perfect.Score)
	require.InDelta(t, 100, perfect.Percentage, 0.001)

	results, err := fx.svc.MyResults(context.Background(), fx.student.ID, created.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestQuizServiceSubmitValidation(t *testing.T) {
	fx := newQuizFixture(t)
	created := fx.createQuiz(t)

	_, err := fx.svc.Submit(context.Background(), fx.student, created.ID, dto.QuizSubmitRequest{
		Answers: map[int]int{7: 0},
	})
	require.ErrorIs(t, err, ErrInvalidAnswerIndex)

	_, err = fx.svc.Submit(context.Background(), fx.student, created.ID, dto.QuizSubmitRequest{
		Answers: map[int]int{0: 9},
	})
	require.ErrorIs(t, err, ErrInvalidAnswerIndex)

	outsider := models.User{ID: 50, Role: models.RoleStudent}
	_, err = fx.svc.Submit(context.Background(), outsider, created.ID, dto.QuizSubmitRequest{
		Answers: map[int]int{0: 1},
	})
	require.ErrorIs(t, err, ErrNotEnrolled)

	_, err = fx.svc.Submit(context.Background(), fx.student, 999, dto.QuizSubmitRequest{
		Answers: map[int]int{0: 1},
	})
	require.ErrorIs(t, err, ErrQuizNotFound)
}
