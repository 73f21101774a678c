package errors

import "errors"

var (
	// ErrPostNotFound is returned when a post id matches no row.
	ErrPostNotFound = errors.New("post not found")
	// ErrNotPostOwner is returned when an authenticated caller tries to
	// mutate a post they do not own.
	ErrNotPostOwner = errors.New("not the post owner")
	// ErrProfileNotFound is returned when a credential has no profile row.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrEmailTaken is returned when registering with an email that already
	// has a credential.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrProfileCreation wraps a failed profile insert during registration.
	ErrProfileCreation = errors.New("profile creation failed")
)

// ErrorResponse is the uniform error envelope for every failure response.
// Details is either a string (upstream/unexpected errors) or a
// field-to-message map (validation failures).
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ValidationError carries every field failure collected by the request
// validator. It renders as a 400 with the field map in Details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }
