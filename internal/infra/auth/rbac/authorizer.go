package rbac

import (
	"context"
	"errors"

	"jobly/internal/domain"
)

// AuthzError is a gate failure. It unwraps to domain.ErrUnauthorized.
type AuthzError struct {
	Code string
	Gate domain.Gate
	Err  error
}

func (e *AuthzError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *AuthzError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

const (
	CodeNotLoggedIn   = "NOT_LOGGED_IN"
	CodeAdminRequired = "ADMIN_REQUIRED"
	CodeWrongUser     = "WRONG_USER"
	CodeUnknownGate   = "UNKNOWN_GATE"
)

type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

func (a *Authorizer) Authorize(_ context.Context, identity *domain.Identity, gate domain.Gate, routeUsername string) error {
	return Check(identity, gate, routeUsername)
}

// Check evaluates gate for identity. A nil identity is an anonymous
// requester. routeUsername is compared case-sensitively.
func Check(identity *domain.Identity, gate domain.Gate, routeUsername string) error {
	if gate == domain.GateAnonymous {
		return nil
	}
	if identity == nil || identity.Username == "" {
		return deny(gate, CodeNotLoggedIn)
	}
	switch gate {
	case domain.GateLoggedIn:
		return nil
	case domain.GateAdmin:
		if identity.IsAdmin {
			return nil
		}
		return deny(gate, CodeAdminRequired)
	case domain.GateAdminOrCorrectUser:
		if identity.IsAdmin || identity.Username == routeUsername {
			return nil
		}
		return deny(gate, CodeWrongUser)
	default:
		return deny(gate, CodeUnknownGate)
	}
}

func deny(gate domain.Gate, code string) error {
	return &AuthzError{Code: code, Gate: gate, Err: domain.ErrUnauthorized}
}

func IsAuthzError(err error) (*AuthzError, bool) {
	var authz *AuthzError
	if errors.As(err, &authz) {
		return authz, true
	}
	return nil, false
}
