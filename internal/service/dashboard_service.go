package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/repository"
)

// DashboardService produces role-specific aggregated statistics. Responses
// are cached per user for a short TTL.
type DashboardService interface {
	GetDashboard(ctx context.Context, user models.User) (dto.DashboardResponse, error)
}

type dashboardService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, user models.User) (dto.DashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:%s:%d", user.Role, user.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", user.ID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	var (
		response dto.DashboardResponse
		err      error
	)

	switch user.Role {
	case models.RoleAdmin:
		response, err = s.adminDashboard(ctx)
	case models.RoleTutor:
		response, err = s.tutorDashboard(ctx, user.ID)
	default:
		response, err = s.studentDashboard(ctx, user.ID)
	}
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) studentDashboard(ctx context.Context, studentID uint) (dto.DashboardResponse, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	courseIDs := make([]uint, 0, len(enrollments))
	courses := make([]models.Course, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
		if enrollment.Course.ID != 0 {
			courses = append(courses, enrollment.Course)
		}
	}

	upcoming, err := s.assignments.CountUpcomingByCourses(ctx, courseIDs, s.now())
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	submitted, err := s.submissions.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	return dto.DashboardResponse{
		Title: "Student Dashboard",
		Cards: []dto.StatCard{
			{Title: "Enrolled Courses", Value: int64(len(enrollments))},
			{Title: "Upcoming Assignments", Value: upcoming},
			{Title: "Submissions", Value: submitted},
		},
		EnrolledCourses: dto.NewCourseResponseSlice(courses),
	}, nil
}

func (s *dashboardService) tutorDashboard(ctx context.Context, tutorID uint) (dto.DashboardResponse, error) {
	courses, err := s.courses.ListByTutor(ctx, tutorID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
	}

	students, err := s.enrollments.CountByCourses(ctx, courseIDs)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	assignments, err := s.assignments.ListByCourses(ctx, courseIDs)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	assignmentIDs := make([]uint, 0, len(assignments))
	for _, assignment := range assignments {
		assignmentIDs = append(assignmentIDs, assignment.ID)
	}

	pending, err := s.submissions.CountPendingByAssignments(ctx, assignmentIDs)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	recent := courses
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return dto.DashboardResponse{
		Title: "Tutor Dashboard",
		Cards: []dto.StatCard{
			{Title: "Courses", Value: int64(len(courses))},
			{Title: "Enrolled Students", Value: students},
			{Title: "Assignments", Value: int64(len(assignments))},
			{Title: "Pending Grading", Value: pending},
		},
		RecentCourses: dto.NewCourseResponseSlice(recent),
	}, nil
}

func (s *dashboardService) adminDashboard(ctx context.Context) (dto.DashboardResponse, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	courses, err := s.courses.Count(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	assignments, err := s.assignments.Count(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	submissions, err := s.submissions.Count(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	return dto.DashboardResponse{
		Title: "Admin Dashboard",
		Cards: []dto.StatCard{
			{Title: "Users", Value: users},
			{Title: "Courses", Value: courses},
			{Title: "Assignments", Value: assignments},
			{Title: "Submissions", Value: submissions},
		},
	}, nil
}
