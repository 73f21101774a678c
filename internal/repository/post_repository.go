package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/model"
)

// ListFilter narrows and pages a post listing. Search matches title or
// author username as a case-insensitive substring.
type ListFilter struct {
	Search string
	Offset int
	Limit  int
}

// PostRepository defines post persistence operations. UpdateOwned and
// DeleteOwned fold the ownership predicate into the WHERE clause so the
// check and the mutation are one atomic store call.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, filter ListFilter) ([]model.Post, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Post, int64, error)
	UpdateOwned(ctx context.Context, id uint, userID uuid.UUID, fields map[string]interface{}) (int64, error)
	DeleteOwned(ctx context.Context, id uint, userID uuid.UUID) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter ListFilter) ([]model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(username) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) UpdateOwned(ctx context.Context, id uint, userID uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *postRepository) DeleteOwned(ctx context.Context, id uint, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Post{})
	return res.RowsAffected, res.Error
}
