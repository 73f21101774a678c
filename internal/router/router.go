package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/handler"
	appmw "blogapi/internal/middleware"
	"blogapi/internal/validation"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.Validator = validation.New()
	e.HTTPErrorHandler = errorHandler

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Blog API Server is running"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/user/:userId", postHandler.ListByUser)
	api.GET("/posts/:id", postHandler.Get)

	// Secured routes (require a valid bearer token)
	secured := api.Group("", appmw.RequireAuth(jwtService))
	secured.POST("/posts", postHandler.Create)
	secured.PUT("/posts/:id", postHandler.Update)
	secured.DELETE("/posts/:id", postHandler.Delete)
}

// errorHandler renders every failure through the uniform {message, details}
// envelope. Validation errors become a 400 with the field map; anything that
// reaches here without a status is the 500 catch-all.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		_ = c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
			Message: "Validation failed",
			Details: verr.Fields,
		})
		return
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		switch m := herr.Message.(type) {
		case apperrors.ErrorResponse:
			_ = c.JSON(herr.Code, m)
		case string:
			_ = c.JSON(herr.Code, apperrors.ErrorResponse{Message: m})
		default:
			_ = c.JSON(herr.Code, apperrors.ErrorResponse{Message: http.StatusText(herr.Code)})
		}
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, apperrors.ErrorResponse{
		Message: "Something went wrong",
		Details: err.Error(),
	})
}
