package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/cache"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

const (
	postCacheTTL = 5 * time.Minute

	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// PostInput carries the mutable post fields from a request body. Updates are
// a full replacement of all three, never a partial patch.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// PostService handles post operations.
type PostService interface {
	List(ctx context.Context, search string, page, limit int) ([]model.Post, Pagination, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Post, Pagination, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, userID uuid.UUID, username string, in PostInput) (*model.Post, error)
	Update(ctx context.Context, id uint, userID uuid.UUID, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, id uint, userID uuid.UUID) error
}

type postService struct {
	repo  repository.PostRepository
	cache *cache.Client
}

// NewPostService creates a new post service.
func NewPostService(repo repository.PostRepository, cache *cache.Client) PostService {
	return &postService{
		repo:  repo,
		cache: cache,
	}
}

func (s *postService) cacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// clampPaging coerces non-positive values to the defaults and bounds limit,
// so hostile query params cannot produce absurd offsets.
func clampPaging(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func paginate(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int64(math.Ceil(float64(total) / float64(limit))),
	}
}

func (s *postService) List(ctx context.Context, search string, page, limit int) ([]model.Post, Pagination, error) {
	page, limit = clampPaging(page, limit)

	posts, total, err := s.repo.List(ctx, repository.ListFilter{
		Search: search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, Pagination{}, err
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return posts, paginate(page, limit, total), nil
}

func (s *postService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Post, Pagination, error) {
	page, limit = clampPaging(page, limit)

	posts, total, err := s.repo.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return posts, paginate(page, limit, total), nil
}

// Get retrieves a post by ID with caching.
func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(post); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, postCacheTTL)
	}

	return post, nil
}

// Create inserts a post for the authenticated identity. Author fields come
// from the token, never from the request body.
func (s *postService) Create(ctx context.Context, userID uuid.UUID, username string, in PostInput) (*model.Post, error) {
	post := &model.Post{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		ImageURL: normalizeImageURL(in.ImageURL),
		UserID:   userID,
		Username: username,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Update replaces the three mutable fields of a post the caller owns. The
// ownership check rides inside the UPDATE's WHERE clause; when no row is
// touched a follow-up read distinguishes a missing post from a foreign one.
func (s *postService) Update(ctx context.Context, id uint, userID uuid.UUID, in PostInput) (*model.Post, error) {
	fields := map[string]interface{}{
		"title":     strings.TrimSpace(in.Title),
		"content":   strings.TrimSpace(in.Content),
		"image_url": normalizeImageURL(in.ImageURL),
	}

	rows, err := s.repo.UpdateOwned(ctx, id, userID, fields)
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		existing, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrPostNotFound
			}
			return nil, err
		}
		if existing.UserID != userID {
			return nil, apperrors.ErrNotPostOwner
		}
		// no-op update: the submitted values already match the row
		_ = s.cache.Delete(ctx, s.cacheKey(id))
		return existing, nil
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return post, nil
}

// Delete removes a post the caller owns. Same conditional-mutation shape as
// Update; a repeated delete reads back nothing and reports not found.
func (s *postService) Delete(ctx context.Context, id uint, userID uuid.UUID) error {
	rows, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if rows == 0 {
		existing, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrPostNotFound
			}
			return err
		}
		if existing.UserID != userID {
			return apperrors.ErrNotPostOwner
		}
		return apperrors.ErrPostNotFound
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func normalizeImageURL(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
