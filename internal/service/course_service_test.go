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

func newTestCourseService(repo *memoryCourseRepo) CourseService {
	return NewCourseService(repo, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestCourseServiceCreateRejectsStudents(t *testing.T) {
	svc := newTestCourseService(newMemoryCourseRepo())

	_, err := svc.Create(context.Background(), models.User{ID: 1, Role: models.RoleStudent}, dto.CourseCreateRequest{
		Title:       "Not allowed",
		Description: "Students cannot author courses",
	})
	require.ErrorIs(t, err, ErrStudentsCannotCreate)
}

func TestCourseServiceUpdateEnforcesOwnership(t *testing.T) {
	repo := newMemoryCourseRepo()
	svc := newTestCourseService(repo)

	tutor := models.User{ID: 1, Role: models.RoleTutor}
	course, err := svc.Create(context.Background(), tutor, dto.CourseCreateRequest{
		Title:       "Databases",
		Description: "Indexes and transactions",
	})
	require.NoError(t, err)

	newTitle := "Hijacked"
	_, err = svc.Update(context.Background(), models.User{ID: 2, Role: models.RoleTutor}, course.ID, dto.CourseUpdateRequest{Title: &newTitle})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	// Admins may edit any course.
	adminTitle := "Databases, revised"
	updated, err := svc.Update(context.Background(), models.User{ID: 3, Role: models.RoleAdmin}, course.ID, dto.CourseUpdateRequest{Title: &adminTitle})
	require.NoError(t, err)
	require.Equal(t, adminTitle, updated.Title)
}

func TestCourseServiceMaterialsAreAppended(t *testing.T) {
	repo := newMemoryCourseRepo()
	svc := newTestCourseService(repo)

	tutor := models.User{ID: 1, Role: models.RoleTutor}
	course, err := svc.Create(context.Background(), tutor, dto.CourseCreateRequest{
		Title:       "Operating Systems",
		Description: "Scheduling and memory",
	})
	require.NoError(t, err)

	first, err := svc.Update(context.Background(), tutor, course.ID, dto.CourseUpdateRequest{
		Materials: []dto.MaterialRequest{
			{Title: "Week 1 slides", Kind: models.MaterialKindPDF, URL: "https://cdn.example.com/week1.pdf"},
		},
	})
	require.NoError(t, err)
	require.Len(t, first.Materials, 1)

	// A second update with a different material grows the list; it never
	// replaces what is already there.
	second, err := svc.Update(context.Background(), tutor, course.ID, dto.CourseUpdateRequest{
		Materials: []dto.MaterialRequest{
			{Title: "Intro lecture", Kind: models.MaterialKindVideo, URL: "https://video.example.com/intro"},
		},
	})
	require.NoError(t, err)
	require.Len(t, second.Materials, 2)
	require.Equal(t, "Week 1 slides", second.Materials[0].Title)
	require.Equal(t, "Intro lecture", second.Materials[1].Title)
}

func TestCourseServiceGetUnknownCourse(t *testing.T) {
	svc := newTestCourseService(newMemoryCourseRepo())

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrCourseNotFound)
}
