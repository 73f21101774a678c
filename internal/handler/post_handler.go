package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/model"
	"blogapi/internal/service"
)

// PostHandler handles post CRUD endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRequest represents a create or full-replace update body. Author
// identity is never read from here; it comes from the verified token.
type PostRequest struct {
	Title    string `json:"title" validate:"required,trimmin=5,trimmax=120" msg:"Title must be between 5 and 120 characters"`
	Content  string `json:"content" validate:"required,trimmin=50" msg:"Content must be at least 50 characters"`
	ImageURL string `json:"image_url" validate:"httpurl" msg:"Image URL must be a valid URL"`
}

// PostResponse wraps a single mutated post.
type PostResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

// PostListResponse is the paginated listing envelope.
type PostListResponse struct {
	Posts      []model.Post       `json:"posts"`
	Pagination service.Pagination `json:"pagination"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// List godoc
// @Summary List posts with optional search and pagination
// @Tags posts
// @Produce json
// @Param search query string false "Case-insensitive substring over title or username"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} PostListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	posts, pagination, err := h.postService.List(c.Request().Context(), c.QueryParam("search"), page, limit)
	if err != nil {
		return storeError("Failed to fetch posts", err)
	}

	return c.JSON(http.StatusOK, PostListResponse{
		Posts:      posts,
		Pagination: pagination,
	})
}

// Get godoc
// @Summary Get a single post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return storeError("Failed to fetch post", err)
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return postNotFound()
		}
		return storeError("Failed to fetch post", err)
	}

	return c.JSON(http.StatusOK, post)
}

// Create godoc
// @Summary Create a post as the authenticated user
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "Post fields"
// @Success 201 {object} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Message: "Access token required",
		})
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), claims.UserID, claims.Username, service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return storeError("Failed to create post", err)
	}

	return c.JSON(http.StatusCreated, PostResponse{
		Message: "Post created successfully",
		Post:    post,
	})
}

// Update godoc
// @Summary Replace a post's fields (owner only)
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body PostRequest true "Replacement fields"
// @Success 200 {object} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Message: "Access token required",
		})
	}

	id, err := postID(c)
	if err != nil {
		return storeError("Failed to fetch post", err)
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Request().Context(), id, claims.UserID, service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			return postNotFound()
		case errors.Is(err, apperrors.ErrNotPostOwner):
			return forbidden("You can only update your own posts")
		default:
			return storeError("Failed to update post", err)
		}
	}

	return c.JSON(http.StatusOK, PostResponse{
		Message: "Post updated successfully",
		Post:    post,
	})
}

// Delete godoc
// @Summary Delete a post (owner only)
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Message: "Access token required",
		})
	}

	id, err := postID(c)
	if err != nil {
		return storeError("Failed to fetch post", err)
	}

	if err := h.postService.Delete(c.Request().Context(), id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			return postNotFound()
		case errors.Is(err, apperrors.ErrNotPostOwner):
			return forbidden("You can only delete your own posts")
		default:
			return storeError("Failed to delete post", err)
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted successfully"})
}

// ListByUser godoc
// @Summary List a user's posts (publicly readable)
// @Tags posts
// @Produce json
// @Param userId path string true "Author user ID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} PostListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /posts/user/{userId} [get]
func (h *PostHandler) ListByUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return storeError("Failed to fetch user posts", err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	posts, pagination, err := h.postService.ListByUser(c.Request().Context(), userID, page, limit)
	if err != nil {
		return storeError("Failed to fetch user posts", err)
	}

	return c.JSON(http.StatusOK, PostListResponse{
		Posts:      posts,
		Pagination: pagination,
	})
}

func postID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func postNotFound() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
		Message: "Post not found",
		Details: "No post exists with the given ID",
	})
}

func forbidden(details string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
		Message: "Forbidden",
		Details: details,
	})
}

// storeError surfaces an upstream store failure as a 400 with the message
// passed through in details.
func storeError(message string, err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: message,
		Details: err.Error(),
	})
}
