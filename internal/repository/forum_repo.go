package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/models"
)

// ForumRepository defines data operations for forum posts.
type ForumRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.ForumPost, error)
	GetByID(ctx context.Context, id uint) (models.ForumPost, error)
	Create(ctx context.Context, post *models.ForumPost) error
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository instantiates the repository.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ForumPost{}).Preload("Author")
}

func (r *forumRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if err := r.baseQuery(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *forumRepository) GetByID(ctx context.Context, id uint) (models.ForumPost, error) {
	var post models.ForumPost
	if err := r.baseQuery(ctx).First(&post, id).Error; err != nil {
		return models.ForumPost{}, err
	}

	return post, nil
}

func (r *forumRepository) Create(ctx context.Context, post *models.ForumPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}
