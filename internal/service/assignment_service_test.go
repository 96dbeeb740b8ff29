package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
)

type assignmentFixture struct {
	svc         *assignmentService
	assignments *memoryAssignmentRepo
	courses     *memoryCourseRepo
	enrollments *memoryEnrollmentRepo
	submissions *memorySubmissionRepo
	tutor       models.User
	student     models.User
	course      models.Course
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	courses := newMemoryCourseRepo()
	enrollments := newMemoryEnrollmentRepo()
	assignments := newMemoryAssignmentRepo()
	submissions := newMemorySubmissionRepo()

	svc := NewAssignmentService(assignments, courses, enrollments, submissions,
		validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).(*assignmentService)

	tutor := models.User{ID: 1, Name: "Tutor", Role: models.RoleTutor}
	student := models.User{ID: 2, Name: "Student", Role: models.RoleStudent}

	course := models.Course{Title: "Distributed Systems", Description: "Consensus and clocks", TutorID: tutor.ID}
	require.NoError(t, courses.Create(context.Background(), &course))

	require.NoError(t, enrollments.Create(context.Background(), &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentStatusActive,
	}))

	return &assignmentFixture{
		svc:         svc,
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		submissions: submissions,
		tutor:       tutor,
		student:     student,
		course:      course,
	}
}

func TestAssignmentServiceCreate(t *testing.T) {
	fx := newAssignmentFixture(t)

	assignment, err := fx.svc.Create(context.Background(), fx.tutor, dto.AssignmentCreateRequest{
		CourseID:     fx.course.ID,
		Title:        "Lamport clocks",
		Instructions: "Implement and compare",
		Deadline:     "2025-05-01T23:59:00Z",
	})
	require.NoError(t, err)
	require.Equal(t, "Lamport clocks", assignment.Title)
	require.EqualValues(t, 100, assignment.MaxPoints)

	_, err = fx.svc.Create(context.Background(), fx.tutor, dto.AssignmentCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Bad deadline",
		Deadline: "next tuesday",
	})
	require.ErrorIs(t, err, ErrInvalidDeadline)

	_, err = fx.svc.Create(context.Background(), models.User{ID: 9, Role: models.RoleTutor}, dto.AssignmentCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Someone else's course",
		Deadline: "2025-05-01T23:59:00Z",
	})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	_, err = fx.svc.Create(context.Background(), fx.tutor, dto.AssignmentCreateRequest{
		CourseID: 404,
		Title:    "Ghost course",
		Deadline: "2025-05-01T23:59:00Z",
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestAssignmentServiceStudentListingDerivesStatus(t *testing.T) {
	fx := newAssignmentFixture(t)
	deadline := time.Date(2025, 5, 1, 23, 59, 0, 0, time.UTC)

	submitted := models.Assignment{CourseID: fx.course.ID, Title: "Submitted on time", Deadline: deadline}
	require.NoError(t, fx.assignments.Create(context.Background(), &submitted))
	late := models.Assignment{CourseID: fx.course.ID, Title: "Submitted late", Deadline: deadline.Add(time.Hour)}
	require.NoError(t, fx.assignments.Create(context.Background(), &late))
	untouched := models.Assignment{CourseID: fx.course.ID, Title: "Untouched", Deadline: deadline.Add(2 * time.Hour)}
	require.NoError(t, fx.assignments.Create(context.Background(), &untouched))

	grade := 88.0
	require.NoError(t, fx.submissions.Create(context.Background(), &models.Submission{
		AssignmentID: submitted.ID,
		StudentID:    fx.student.ID,
		SubmittedAt:  deadline.Add(-time.Hour),
		Grade:        &grade,
	}))
	require.NoError(t, fx.submissions.Create(context.Background(), &models.Submission{
		AssignmentID: late.ID,
		StudentID:    fx.student.ID,
		SubmittedAt:  late.Deadline.Add(time.Minute),
	}))

	// A vantage point after the first deadline but before the other two.
	fx.svc.now = func() time.Time { return deadline.Add(30 * time.Minute) }

	listed, err := fx.svc.StudentAssignments(context.Background(), fx.student.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	byTitle := map[string]dto.StudentAssignmentResponse{}
	for _, entry := range listed {
		byTitle[entry.Title] = entry
	}

	onTime := byTitle["Submitted on time"]
	require.NotNil(t, onTime.Submission)
	require.True(t, onTime.Submission.Submitted)
	require.False(t, onTime.Submission.Late)
	require.NotNil(t, onTime.Submission.Grade)
	require.True(t, onTime.PastDue)

	overdue := byTitle["Submitted late"]
	require.NotNil(t, overdue.Submission)
	require.True(t, overdue.Submission.Late)
	require.Nil(t, overdue.Submission.Grade)
	require.False(t, overdue.PastDue)

	require.Nil(t, byTitle["Untouched"].Submission)
	require.False(t, byTitle["Untouched"].PastDue)
}

func TestAssignmentServiceTutorListingCountsPending(t *testing.T) {
	fx := newAssignmentFixture(t)
	deadline := time.Date(2025, 5, 1, 23, 59, 0, 0, time.UTC)

	assignment := models.Assignment{CourseID: fx.course.ID, Title: "Essay", Deadline: deadline}
	require.NoError(t, fx.assignments.Create(context.Background(), &assignment))

	grade := 70.0
	require.NoError(t, fx.submissions.Create(context.Background(), &models.Submission{
		AssignmentID: assignment.ID, StudentID: 2, SubmittedAt: deadline, Grade: &grade,
	}))
	require.NoError(t, fx.submissions.Create(context.Background(), &models.Submission{
		AssignmentID: assignment.ID, StudentID: 3, SubmittedAt: deadline,
	}))
	require.NoError(t, fx.submissions.Create(context.Background(), &models.Submission{
		AssignmentID: assignment.ID, StudentID: 4, SubmittedAt: deadline,
	}))

	listed, err := fx.svc.TutorAssignments(context.Background(), fx.tutor.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.EqualValues(t, 3, listed[0].SubmissionStats.Total)
	require.EqualValues(t, 2, listed[0].SubmissionStats.Pending)
}
