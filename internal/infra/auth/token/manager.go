// Package token signs and verifies HS256 bearer credentials carrying a
// Jobly identity.
package token

import (
	"errors"
	"fmt"
	"time"

	"jobly/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimUsername = "username"
	claimIsAdmin  = "isAdmin"
	claimIssuedAt = "iat"
	claimExpires  = "exp"
)

// Config for NewManager. A positive TTL adds an exp claim to signed
// tokens.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Leeway time.Duration
	Now    func() time.Time
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL < 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Manager{secret: secret, ttl: cfg.TTL, leeway: cfg.Leeway, now: cfg.Now}, nil
}

// Sign encodes identity as a token. Extra claims are carried through
// unless they collide with a reserved claim.
func (m *Manager) Sign(identity domain.Identity) (string, error) {
	if identity.Username == "" {
		return "", errors.New("username is required")
	}
	now := m.now()
	claims := jwt.MapClaims{}
	for k, v := range identity.Extra {
		switch k {
		case claimUsername, claimIsAdmin, claimIssuedAt, claimExpires:
			continue
		}
		claims[k] = v
	}
	claims[claimUsername] = identity.Username
	claims[claimIsAdmin] = identity.IsAdmin
	claims[claimIssuedAt] = now.Unix()
	if m.ttl > 0 {
		claims[claimExpires] = now.Add(m.ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the signature and time claims of tokenStr and decodes the
// identity. Every failure wraps domain.ErrInvalidCredential.
func (m *Manager) Verify(tokenStr string) (domain.Identity, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.leeway > 0 {
		options = append(options, jwt.WithLeeway(m.leeway))
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, options...)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	if !token.Valid {
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims jwt.MapClaims) (domain.Identity, error) {
	username, ok := claims[claimUsername].(string)
	if !ok || username == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing or invalid %q claim", domain.ErrInvalidCredential, claimUsername)
	}
	isAdmin, ok := claims[claimIsAdmin].(bool)
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: missing or invalid %q claim", domain.ErrInvalidCredential, claimIsAdmin)
	}
	identity := domain.Identity{Username: username, IsAdmin: isAdmin}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		identity.IssuedAt = iat.Time
	}
	for k, v := range claims {
		switch k {
		case claimUsername, claimIsAdmin, claimIssuedAt:
			continue
		}
		if identity.Extra == nil {
			identity.Extra = make(map[string]any)
		}
		identity.Extra[k] = v
	}
	return identity, nil
}
