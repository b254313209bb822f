package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/hypergigs/internal/apperr"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrUsernameTaken indicates the username belongs to another account
type ErrUsernameTaken struct {
	Username string
}

func (e *ErrUsernameTaken) Error() string {
	return fmt.Sprintf("username already taken: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Typed auth errors are checked first, then the apperr kind.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var (
		emailTaken    *ErrEmailAlreadyExists
		usernameTaken *ErrUsernameTaken
		badLogin      *ErrInvalidCredentials
	)
	switch {
	case errors.As(err, &emailTaken), errors.As(err, &usernameTaken):
		return http.StatusConflict
	case errors.As(err, &badLogin):
		return http.StatusUnauthorized
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
