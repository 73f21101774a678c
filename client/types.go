package client

import (
	"fmt"
	"time"
)

// User is the public identity returned by the auth endpoints.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Post mirrors the server's post representation.
type Post struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both auth endpoints.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// PostRequest is the body for creating or replacing a post.
type PostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

// PostResponse wraps a single mutated post.
type PostResponse struct {
	Message string `json:"message"`
	Post    *Post  `json:"post"`
}

// PostList is the paginated listing envelope.
type PostList struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// ListOptions narrows and pages GET /posts.
type ListOptions struct {
	Search string
	Page   int
	Limit  int
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}
