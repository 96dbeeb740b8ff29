package service

import (
	"context"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/models"
)

// In-memory repository fakes shared by the service tests.

type memoryCourseRepo struct {
	seq     uint
	courses map[uint]models.Course
}

func newMemoryCourseRepo() *memoryCourseRepo {
	return &memoryCourseRepo{courses: map[uint]models.Course{}}
}

func (r *memoryCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(r.courses))
	for _, course := range r.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *memoryCourseRepo) ListByTutor(ctx context.Context, tutorID uint) ([]models.Course, error) {
	all, _ := r.List(ctx)
	courses := make([]models.Course, 0, len(all))
	for _, course := range all {
		if course.TutorID == tutorID {
			courses = append(courses, course)
		}
	}
	return courses, nil
}

func (r *memoryCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (r *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.seq++
	course.ID = r.seq
	r.courses[course.ID] = *course
	return nil
}

func (r *memoryCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := r.courses[course.ID]
	stored.Title = course.Title
	stored.Description = course.Description
	r.courses[course.ID] = stored
	return nil
}

func (r *memoryCourseRepo) AppendMaterials(ctx context.Context, courseID uint, materials []models.CourseMaterial) error {
	course, ok := r.courses[courseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.Materials = append(course.Materials, materials...)
	r.courses[courseID] = course
	return nil
}

func (r *memoryCourseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.courses)), nil
}

type memoryEnrollmentRepo struct {
	seq         uint
	enrollments map[uint]models.Enrollment
}

func newMemoryEnrollmentRepo() *memoryEnrollmentRepo {
	return &memoryEnrollmentRepo{enrollments: map[uint]models.Enrollment{}}
}

func (r *memoryEnrollmentRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0)
	for _, enrollment := range r.enrollments {
		if enrollment.StudentID == studentID {
			enrollments = append(enrollments, enrollment)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID < enrollments[j].ID })
	return enrollments, nil
}

func (r *memoryEnrollmentRepo) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.Enrollment, error) {
	for _, enrollment := range r.enrollments {
		if enrollment.StudentID == studentID && enrollment.CourseID == courseID {
			return enrollment, nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (r *memoryEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	r.seq++
	enrollment.ID = r.seq
	r.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (r *memoryEnrollmentRepo) CountByCourses(ctx context.Context, courseIDs []uint) (int64, error) {
	ids := map[uint]struct{}{}
	for _, id := range courseIDs {
		ids[id] = struct{}{}
	}
	var count int64
	for _, enrollment := range r.enrollments {
		if _, ok := ids[enrollment.CourseID]; ok {
			count++
		}
	}
	return count, nil
}

type memoryAssignmentRepo struct {
	seq         uint
	assignments map[uint]models.Assignment
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: map[uint]models.Assignment{}}
}

func (r *memoryAssignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	return r.ListByCourses(ctx, []uint{courseID})
}

func (r *memoryAssignmentRepo) ListByCourses(ctx context.Context, courseIDs []uint) ([]models.Assignment, error) {
	ids := map[uint]struct{}{}
	for _, id := range courseIDs {
		ids[id] = struct{}{}
	}
	assignments := make([]models.Assignment, 0)
	for _, assignment := range r.assignments {
		if _, ok := ids[assignment.CourseID]; ok {
			assignments = append(assignments, assignment)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Deadline.Before(assignments[j].Deadline)
	})
	return assignments, nil
}

func (r *memoryAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, ok := r.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (r *memoryAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	r.seq++
	assignment.ID = r.seq
	r.assignments[assignment.ID] = *assignment
	return nil
}

func (r *memoryAssignmentRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.assignments)), nil
}

func (r *memoryAssignmentRepo) CountUpcomingByCourses(ctx context.Context, courseIDs []uint, after time.Time) (int64, error) {
	assignments, _ := r.ListByCourses(ctx, courseIDs)
	var count int64
	for _, assignment := range assignments {
		if assignment.Deadline.After(after) {
			count++
		}
	}
	return count, nil
}

type memorySubmissionRepo struct {
	seq         uint
	submissions map[uint]models.Submission
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: map[uint]models.Submission{}}
}

func (r *memorySubmissionRepo) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	submissions := make([]models.Submission, 0)
	for _, submission := range r.submissions {
		if submission.AssignmentID == assignmentID {
			submissions = append(submissions, submission)
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})
	return submissions, nil
}

func (r *memorySubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := r.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (r *memorySubmissionRepo) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Submission, error) {
	for _, submission := range r.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (r *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	r.seq++
	submission.ID = r.seq
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *memorySubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := r.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *memorySubmissionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.submissions)), nil
}

func (r *memorySubmissionRepo) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	for _, submission := range r.submissions {
		if submission.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (r *memorySubmissionRepo) CountByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	for _, submission := range r.submissions {
		if submission.AssignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

func (r *memorySubmissionRepo) CountGradedByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	for _, submission := range r.submissions {
		if submission.AssignmentID == assignmentID && submission.IsGraded() {
			count++
		}
	}
	return count, nil
}

func (r *memorySubmissionRepo) CountPendingByAssignments(ctx context.Context, assignmentIDs []uint) (int64, error) {
	ids := map[uint]struct{}{}
	for _, id := range assignmentIDs {
		ids[id] = struct{}{}
	}
	var count int64
	for _, submission := range r.submissions {
		if _, ok := ids[submission.AssignmentID]; ok && !submission.IsGraded() {
			count++
		}
	}
	return count, nil
}

type memoryQuizRepo struct {
	seq       uint
	resultSeq uint
	quizzes   map[uint]models.Quiz
	results   map[uint]models.QuizResult
}

func newMemoryQuizRepo() *memoryQuizRepo {
	return &memoryQuizRepo{quizzes: map[uint]models.Quiz{}, results: map[uint]models.QuizResult{}}
}

func (r *memoryQuizRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error) {
	quizzes := make([]models.Quiz, 0)
	for _, quiz := range r.quizzes {
		if quiz.CourseID == courseID {
			quizzes = append(quizzes, quiz)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	return quizzes, nil
}

func (r *memoryQuizRepo) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, ok := r.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (r *memoryQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	r.seq++
	quiz.ID = r.seq
	for i := range quiz.Questions {
		quiz.Questions[i].ID = uint(i + 1)
		quiz.Questions[i].QuizID = quiz.ID
	}
	r.quizzes[quiz.ID] = *quiz
	return nil
}

func (r *memoryQuizRepo) CreateResult(ctx context.Context, result *models.QuizResult) error {
	r.resultSeq++
	result.ID = r.resultSeq
	r.results[result.ID] = *result
	return nil
}

func (r *memoryQuizRepo) ListResultsByQuizAndStudent(ctx context.Context, quizID, studentID uint) ([]models.QuizResult, error) {
	results := make([]models.QuizResult, 0)
	for _, result := range r.results {
		if result.QuizID == quizID && result.StudentID == studentID {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

type memoryForumRepo struct {
	seq   uint
	posts map[uint]models.ForumPost
}

func newMemoryForumRepo() *memoryForumRepo {
	return &memoryForumRepo{posts: map[uint]models.ForumPost{}}
}

func (r *memoryForumRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.ForumPost, error) {
	posts := make([]models.ForumPost, 0)
	for _, post := range r.posts {
		if post.CourseID == courseID {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (r *memoryForumRepo) GetByID(ctx context.Context, id uint) (models.ForumPost, error) {
	post, ok := r.posts[id]
	if !ok {
		return models.ForumPost{}, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (r *memoryForumRepo) Create(ctx context.Context, post *models.ForumPost) error {
	r.seq++
	post.ID = r.seq
	r.posts[post.ID] = *post
	return nil
}

type stubStorage struct {
	uploads map[string][]byte
}

func newStubStorage() *stubStorage {
	return &stubStorage{uploads: map[string][]byte{}}
}

func (s *stubStorage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.uploads[name] = data
	return "/uploads/" + name, nil
}
