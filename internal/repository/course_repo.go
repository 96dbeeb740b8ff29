package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/models"
)

// CourseRepository defines data operations for courses and their materials.
type CourseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	ListByTutor(ctx context.Context, tutorID uint) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	AppendMaterials(ctx context.Context, courseID uint, materials []models.CourseMaterial) error
	Count(ctx context.Context) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Course{}).
		Preload("Tutor").
		Preload("Materials")
}

func (r *courseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.baseQuery(ctx).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) ListByTutor(ctx context.Context, tutorID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.baseQuery(ctx).Where("tutor_id = ?", tutorID).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.baseQuery(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit("Materials", "Tutor").Save(course).Error
}

func (r *courseRepository) AppendMaterials(ctx context.Context, courseID uint, materials []models.CourseMaterial) error {
	if len(materials) == 0 {
		return nil
	}

	for i := range materials {
		materials[i].CourseID = courseID
	}

	return r.db.WithContext(ctx).Create(&materials).Error
}

func (r *courseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
