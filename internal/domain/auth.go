package domain

import (
	"context"
	"time"
)

// Identity is the verified requester for the current request. Username and
// IsAdmin are required claims; anything else carried by the credential is
// kept in Extra.
type Identity struct {
	Username string
	IsAdmin  bool
	IssuedAt time.Time
	Extra    map[string]any
}

type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

type TokenSigner interface {
	Sign(identity Identity) (string, error)
}

// Gate names a route access policy.
type Gate string

const (
	GateAnonymous          Gate = "anonymous"
	GateLoggedIn           Gate = "logged_in"
	GateAdmin              Gate = "admin"
	GateAdminOrCorrectUser Gate = "admin_or_correct_user"
)

type Authorizer interface {
	Authorize(ctx context.Context, identity *Identity, gate Gate, routeUsername string) error
}
