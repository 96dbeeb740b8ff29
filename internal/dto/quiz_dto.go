package dto

import (
	"strconv"
	"time"

	"github.com/simplylearn/api/internal/models"
)

// QuizQuestionRequest describes one question in a quiz creation payload.
type QuizQuestionRequest struct {
	Text               string   `json:"text" validate:"required,min=1"`
	Options            []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOptionIndex int      `json:"correct_option_index" validate:"gte=0"`
	Kind               string   `json:"kind" validate:"omitempty,oneof='Multiple Choice' 'True/False'"`
}

// QuizCreateRequest is the payload for creating a quiz.
type QuizCreateRequest struct {
	CourseID          uint                  `json:"course_id" validate:"required,gt=0"`
	Title             string                `json:"title" validate:"required,min=1,max=255"`
	TimerLimitMinutes int                   `json:"timer_limit_minutes" validate:"omitempty,gt=0"`
	Questions         []QuizQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// QuizSubmitRequest carries a student's answers, keyed by question position.
type QuizSubmitRequest struct {
	Answers map[int]int `json:"answers" validate:"required,min=1"`
}

// QuizQuestionResponse serializes a question. The correct option index is
// omitted unless the payload was built for a tutor or admin.
type QuizQuestionResponse struct {
	ID                 uint     `json:"id"`
	Position           int      `json:"position"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	Kind               string   `json:"kind"`
	CorrectOptionIndex *int     `json:"correct_option_index,omitempty"`
}

// QuizResponse is returned to API clients when viewing quizzes.
type QuizResponse struct {
	ID                uint                   `json:"id"`
	CourseID          uint                   `json:"course_id"`
	Title             string                 `json:"title"`
	TimerLimitMinutes int                    `json:"timer_limit_minutes"`
	Questions         []QuizQuestionResponse `json:"questions"`
	CreatedAt         time.Time              `json:"created_at"`
}

// QuizResultResponse serializes one immutable quiz attempt.
type QuizResultResponse struct {
	ID             uint        `json:"id"`
	QuizID         uint        `json:"quiz_id"`
	StudentID      uint        `json:"student_id"`
	Answers        map[int]int `json:"answers"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"total_questions"`
	Percentage     float64     `json:"percentage"`
	SubmittedAt    time.Time   `json:"submitted_at"`
}

// NewQuizResponse converts a Quiz model into a DTO. When includeAnswers is
// false the correct option index is stripped from every question.
func NewQuizResponse(model models.Quiz, includeAnswers bool) QuizResponse {
	response := QuizResponse{
		ID:                model.ID,
		CourseID:          model.CourseID,
		Title:             model.Title,
		TimerLimitMinutes: model.TimerLimitMinutes,
		Questions:         make([]QuizQuestionResponse, 0, len(model.Questions)),
		CreatedAt:         model.CreatedAt,
	}

	for _, question := range model.Questions {
		entry := QuizQuestionResponse{
			ID:       question.ID,
			Position: question.Position,
			Text:     question.Text,
			Options:  question.Options,
			Kind:     question.Kind,
		}
		if includeAnswers {
			correct := question.CorrectOptionIndex
			entry.CorrectOptionIndex = &correct
		}
		response.Questions = append(response.Questions, entry)
	}

	return response
}

// NewQuizResultResponse converts a QuizResult model into a DTO. Answers are
// persisted as a JSON object keyed by question position, so the keys are
// parsed back into ints; entries with malformed keys are dropped.
func NewQuizResultResponse(model models.QuizResult) QuizResultResponse {
	answers := make(map[int]int, len(model.Answers))
	for key, value := range model.Answers {
		position, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		switch selected := value.(type) {
		case float64:
			answers[position] = int(selected)
		case int:
			answers[position] = selected
		}
	}

	return QuizResultResponse{
		ID:             model.ID,
		QuizID:         model.QuizID,
		StudentID:      model.StudentID,
		Answers:        answers,
		Score:          model.Score,
		TotalQuestions: model.TotalQuestions,
		Percentage:     model.Percentage,
		SubmittedAt:    model.SubmittedAt,
	}
}

// NewQuizResultResponseSlice converts a slice of QuizResult models.
func NewQuizResultResponseSlice(results []models.QuizResult) []QuizResultResponse {
	responses := make([]QuizResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewQuizResultResponse(result))
	}

	return responses
}

// NewQuizResponseSlice converts a slice of Quiz models.
func NewQuizResponseSlice(quizzes []models.Quiz, includeAnswers bool) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz, includeAnswers))
	}

	return responses
}
