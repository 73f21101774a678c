package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// MockPostRepository is a mock implementation of PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.ListFilter) ([]model.Post, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Post, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) UpdateOwned(ctx context.Context, id uint, userID uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, userID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) DeleteOwned(ctx context.Context, id uint, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

// the nil cache client degrades to always-miss, so services are testable
// without redis
func newPostFixture() (*MockPostRepository, PostService) {
	repo := new(MockPostRepository)
	return repo, NewPostService(repo, nil)
}

func TestPostService_List(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int64
		wantOffset     int
		wantLimit      int
		wantPagination Pagination
	}{
		{
			name: "defaults applied for zero values",
			page: 0, limit: 0, total: 25,
			wantOffset: 0, wantLimit: 10,
			wantPagination: Pagination{Page: 1, Limit: 10, Total: 25, TotalPages: 3},
		},
		{
			name: "negative page coerced to first page",
			page: -3, limit: 5, total: 11,
			wantOffset: 0, wantLimit: 5,
			wantPagination: Pagination{Page: 1, Limit: 5, Total: 11, TotalPages: 3},
		},
		{
			name: "limit clamped to the maximum",
			page: 2, limit: 5000, total: 250,
			wantOffset: 100, wantLimit: 100,
			wantPagination: Pagination{Page: 2, Limit: 100, Total: 250, TotalPages: 3},
		},
		{
			name: "evenly divisible total",
			page: 2, limit: 10, total: 30,
			wantOffset: 10, wantLimit: 10,
			wantPagination: Pagination{Page: 2, Limit: 10, Total: 30, TotalPages: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newPostFixture()
			repo.On("List", mock.Anything, repository.ListFilter{Search: "", Offset: tt.wantOffset, Limit: tt.wantLimit}).
				Return([]model.Post{}, tt.total, nil)

			_, pagination, err := svc.List(context.Background(), "", tt.page, tt.limit)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantPagination, pagination)
			repo.AssertExpectations(t)
		})
	}

	t.Run("page past the end returns empty posts with unchanged totals", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("List", mock.Anything, repository.ListFilter{Offset: 90, Limit: 10}).
			Return(nil, int64(15), nil)

		posts, pagination, err := svc.List(context.Background(), "", 10, 10)

		assert.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
		assert.Equal(t, int64(15), pagination.Total)
		assert.Equal(t, int64(2), pagination.TotalPages)
	})

	t.Run("search is passed through to the store", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("List", mock.Anything, repository.ListFilter{Search: "hello", Offset: 0, Limit: 10}).
			Return([]model.Post{{ID: 1, Title: "Hello World Post"}}, int64(1), nil)

		posts, _, err := svc.List(context.Background(), "hello", 1, 10)

		assert.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}

func TestPostService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, svc := newPostFixture()
		want := &model.Post{ID: 7, Title: "Hello World Post"}
		repo.On("FindByID", mock.Anything, uint(7)).Return(want, nil)

		got, err := svc.Get(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing row maps to ErrPostNotFound", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Get(context.Background(), 99)

		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})
}

func TestPostService_Create(t *testing.T) {
	owner := uuid.New()

	t.Run("author comes from the identity, fields are trimmed", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

		post, err := svc.Create(context.Background(), owner, "alice", PostInput{
			Title:    "  Hello World Post  ",
			Content:  "  this content is certainly longer than fifty characters in total  ",
			ImageURL: "  https://example.com/cover.png  ",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Hello World Post", post.Title)
		assert.Equal(t, "this content is certainly longer than fifty characters in total", post.Content)
		assert.Equal(t, owner, post.UserID)
		assert.Equal(t, "alice", post.Username)
		if assert.NotNil(t, post.ImageURL) {
			assert.Equal(t, "https://example.com/cover.png", *post.ImageURL)
		}
	})

	t.Run("blank image url stores NULL", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

		post, err := svc.Create(context.Background(), owner, "alice", PostInput{
			Title:   "Hello World Post",
			Content: "this content is certainly longer than fifty characters in total",
		})

		assert.NoError(t, err)
		assert.Nil(t, post.ImageURL)
	})
}

func TestPostService_Update(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	input := PostInput{
		Title:   "Hello World Post Edited",
		Content: "this replacement content is also longer than fifty characters in total",
	}

	t.Run("owner update succeeds", func(t *testing.T) {
		repo, svc := newPostFixture()
		updated := &model.Post{ID: 7, Title: input.Title, UserID: owner}
		repo.On("UpdateOwned", mock.Anything, uint(7), owner, mock.Anything).Return(int64(1), nil)
		repo.On("FindByID", mock.Anything, uint(7)).Return(updated, nil)

		post, err := svc.Update(context.Background(), 7, owner, input)

		assert.NoError(t, err)
		assert.Equal(t, updated, post)
	})

	t.Run("missing post maps to ErrPostNotFound", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("UpdateOwned", mock.Anything, uint(99), owner, mock.Anything).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Update(context.Background(), 99, owner, input)

		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})

	t.Run("foreign post maps to ErrNotPostOwner", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("UpdateOwned", mock.Anything, uint(7), stranger, mock.Anything).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, uint(7)).Return(&model.Post{ID: 7, UserID: owner}, nil)

		_, err := svc.Update(context.Background(), 7, stranger, input)

		assert.ErrorIs(t, err, apperrors.ErrNotPostOwner)
	})

	t.Run("no-op update of an owned post still succeeds", func(t *testing.T) {
		repo, svc := newPostFixture()
		existing := &model.Post{ID: 7, Title: input.Title, UserID: owner}
		repo.On("UpdateOwned", mock.Anything, uint(7), owner, mock.Anything).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, uint(7)).Return(existing, nil)

		post, err := svc.Update(context.Background(), 7, owner, input)

		assert.NoError(t, err)
		assert.Equal(t, existing, post)
	})
}

func TestPostService_Delete(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("owner delete succeeds", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("DeleteOwned", mock.Anything, uint(7), owner).Return(int64(1), nil)

		assert.NoError(t, svc.Delete(context.Background(), 7, owner))
	})

	t.Run("repeated delete reports not found", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("DeleteOwned", mock.Anything, uint(7), owner).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

		err := svc.Delete(context.Background(), 7, owner)

		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})

	t.Run("foreign post maps to ErrNotPostOwner", func(t *testing.T) {
		repo, svc := newPostFixture()
		repo.On("DeleteOwned", mock.Anything, uint(7), stranger).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, uint(7)).Return(&model.Post{ID: 7, UserID: owner}, nil)

		err := svc.Delete(context.Background(), 7, stranger)

		assert.ErrorIs(t, err, apperrors.ErrNotPostOwner)
	})
}
