package user

import (
	"net/http"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(http.StatusConflict, "email already used")
	ErrEmailRequired    = apperror.New(http.StatusBadRequest, "email is required")
	ErrInvalidEmail     = apperror.New(http.StatusBadRequest, "invalid email")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "name is required")
)

// User represents a registered participant: a booker, an item owner, or both.
type User struct {
	ID    int64
	Name  string
	Email string
}
