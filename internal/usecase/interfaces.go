package usecase

import (
	"context"

	"jobly/internal/domain"
)

// UserStore is the slice of the user repository that token issuance needs.
type UserStore interface {
	Register(ctx context.Context, user domain.NewUser) (domain.User, error)
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
}
