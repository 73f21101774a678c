package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,trimmin=3,trimmax=30" msg:"Username must be between 3 and 30 characters"`
	Email    string `json:"email" validate:"required,email" msg:"Valid email is required"`
	Password string `json:"password" validate:"required,min=6" msg:"Password must be at least 6 characters"`
}

// LoginRequest represents a user login request. Email format is only
// validated at registration time, not here.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" msg:"Email is required"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// UserResponse is the public identity shape returned by auth endpoints.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

func userResponse(profile *model.Profile) UserResponse {
	return UserResponse{
		ID:       profile.ID,
		Username: profile.Username,
		Email:    profile.Email,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	token, profile, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Message: "Registration failed",
				Details: err.Error(),
			})
		}
		if errors.Is(err, apperrors.ErrProfileCreation) {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Message: "Profile creation failed",
				Details: err.Error(),
			})
		}
		return err
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    userResponse(profile),
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	token, profile, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: "Authentication failed",
				Details: "Invalid email or password",
			})
		}
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
				Message: "Profile not found",
				Details: "User profile does not exist",
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    userResponse(profile),
	})
}
