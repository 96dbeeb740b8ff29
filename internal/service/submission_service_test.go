package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
)

type submissionFixture struct {
	svc         *submissionService
	submissions *memorySubmissionRepo
	assignments *memoryAssignmentRepo
	courses     *memoryCourseRepo
	enrollments *memoryEnrollmentRepo
	storage     *stubStorage
	tutor       models.User
	student     models.User
	assignment  models.Assignment
}

func newSubmissionFixture(t *testing.T, deadline time.Time) *submissionFixture {
	t.Helper()

	courses := newMemoryCourseRepo()
	enrollments := newMemoryEnrollmentRepo()
	assignments := newMemoryAssignmentRepo()
	submissions := newMemorySubmissionRepo()
	storage := newStubStorage()

	svc := NewSubmissionService(submissions, assignments, courses, enrollments, storage,
		validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).(*submissionService)

	tutor := models.User{ID: 1, Name: "Tutor", Role: models.RoleTutor}
	student := models.User{ID: 2, Name: "Student", Role: models.RoleStudent}

	course := models.Course{Title: "Algorithms", Description: "Sorting and graphs", TutorID: tutor.ID}
	require.NoError(t, courses.Create(context.Background(), &course))

	assignment := models.Assignment{CourseID: course.ID, Title: "Homework 1", Deadline: deadline, MaxPoints: 100}
	require.NoError(t, assignments.Create(context.Background(), &assignment))

	require.NoError(t, enrollments.Create(context.Background(), &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentStatusActive,
	}))

	return &submissionFixture{
		svc:         svc,
		submissions: submissions,
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		storage:     storage,
		tutor:       tutor,
		student:     student,
		assignment:  assignment,
	}
}

func TestSubmissionServiceResubmitOverwritesInPlace(t *testing.T) {
	deadline := time.Date(2025, 4, 1, 23, 59, 0, 0, time.UTC)
	fx := newSubmissionFixture(t, deadline)

	fx.svc.now = func() time.Time { return deadline.Add(-24 * time.Hour) }
	first, err := fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "first attempt",
	}, nil)
	require.NoError(t, err)
	require.False(t, first.Late)

	// A grade lands in between.
	graded, err := fx.svc.Grade(context.Background(), fx.tutor, first.ID, dto.GradeRequest{Grade: 55, Feedback: "rough"})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)

	// The resubmission replaces the attempt rather than adding a second row,
	// and wipes the stale grade.
	fx.svc.now = func() time.Time { return deadline.Add(time.Hour) }
	second, err := fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "second attempt",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "second attempt", second.TextEntry)
	require.True(t, second.Late)
	require.Nil(t, second.Grade)
	require.Empty(t, second.Feedback)

	count, err := fx.submissions.CountByAssignment(context.Background(), fx.assignment.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestSubmissionServiceLateOnlyAfterDeadline(t *testing.T) {
	deadline := time.Date(2025, 4, 1, 23, 59, 0, 0, time.UTC)
	fx := newSubmissionFixture(t, deadline)

	// Exactly at the deadline still counts as on time.
	fx.svc.now = func() time.Time { return deadline }
	response, err := fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "right on the wire",
	}, nil)
	require.NoError(t, err)
	require.False(t, response.Late)
}

func TestSubmissionServiceRejectsUnenrolledStudent(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(time.Hour))
	outsider := models.User{ID: 99, Name: "Outsider", Role: models.RoleStudent}

	_, err := fx.svc.Submit(context.Background(), outsider, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "let me in",
	}, nil)
	require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestSubmissionServiceRejectsEmptyPayload(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(time.Hour))

	_, err := fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "   ",
	}, nil)
	require.ErrorIs(t, err, ErrEmptySubmission)
}

func TestSubmissionServiceFileUploads(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(time.Hour))

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

	response, err := fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
	}, &SubmissionUpload{Filename: "homework.pdf", Reader: bytes.NewReader(pdf)})
	require.NoError(t, err)
	require.NotEmpty(t, response.FileURL)
	require.Len(t, fx.storage.uploads, 1)

	// Disallowed extension.
	_, err = fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
	}, &SubmissionUpload{Filename: "notes.txt", Reader: bytes.NewReader([]byte("plain text"))})
	require.ErrorIs(t, err, ErrUnsupportedFileType)

	// Allowed extension hiding a different content type.
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	_, err = fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
	}, &SubmissionUpload{Filename: "sneaky.pdf", Reader: bytes.NewReader(png)})
	require.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestSubmissionServiceGradePermissions(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(time.Hour))

	response, err := fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "attempt",
	}, nil)
	require.NoError(t, err)

	otherTutor := models.User{ID: 77, Name: "Other", Role: models.RoleTutor}
	_, err = fx.svc.Grade(context.Background(), otherTutor, response.ID, dto.GradeRequest{Grade: 90})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	graded, err := fx.svc.Grade(context.Background(), fx.tutor, response.ID, dto.GradeRequest{
		Grade:    90,
		Feedback: "<script>alert(1)</script>well done",
	})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	require.EqualValues(t, 90, *graded.Grade)
	require.Equal(t, "well done", graded.Feedback)

	// Grades above max points are allowed; only negatives are rejected.
	over, err := fx.svc.Grade(context.Background(), fx.tutor, response.ID, dto.GradeRequest{Grade: 120})
	require.NoError(t, err)
	require.EqualValues(t, 120, *over.Grade)

	_, err = fx.svc.Grade(context.Background(), fx.tutor, response.ID, dto.GradeRequest{Grade: -5})
	require.Error(t, err)
}

func TestSubmissionServiceListRequiresOwnership(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(time.Hour))

	_, err := fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "attempt",
	}, nil)
	require.NoError(t, err)

	_, err = fx.svc.ListByAssignment(context.Background(), models.User{ID: 50, Role: models.RoleTutor}, fx.assignment.ID)
	require.ErrorIs(t, err, ErrNotCourseOwner)

	listed, err := fx.svc.ListByAssignment(context.Background(), fx.tutor, fx.assignment.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	admin := models.User{ID: 60, Role: models.RoleAdmin}
	listed, err = fx.svc.ListByAssignment(context.Background(), admin, fx.assignment.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestSubmissionServiceMySubmissionNilWhenAbsent(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(time.Hour))

	// Nothing submitted yet: the lookup reports null, not an error.
	mine, err := fx.svc.MySubmission(context.Background(), fx.student.ID, fx.assignment.ID)
	require.NoError(t, err)
	require.Nil(t, mine)

	_, err = fx.svc.Submit(context.Background(), fx.student, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		TextEntry:    "attempt",
	}, nil)
	require.NoError(t, err)

	mine, err = fx.svc.MySubmission(context.Background(), fx.student.ID, fx.assignment.ID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	require.Equal(t, "attempt", mine.TextEntry)
}
