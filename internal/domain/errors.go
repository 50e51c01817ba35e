package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrNotFound          = errors.New("not found")
	ErrEmptyUpdate       = errors.New("no data to update")

	// ErrDuplicate is returned when a create collides with an existing key.
	// It matches ErrBadRequest under errors.Is.
	ErrDuplicate = fmt.Errorf("%w: duplicate entity", ErrBadRequest)
)
