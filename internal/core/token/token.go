// Package token issues and verifies the bearer tokens that carry a user's
// identity between requests. Tokens are self-contained: no server-side
// session state exists, a token is valid iff its signature checks out and
// its expiry has not passed.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 24 * time.Hour

// Verification failure kinds. Callers at the HTTP boundary must collapse all
// three into a single unauthenticated outcome so clients cannot distinguish
// them.
var ErrTokenExpired = errors.New("token expired")
var ErrTokenMalformed = errors.New("token malformed")
var ErrBadSignature = errors.New("token signature invalid")

// Claims is the identity extracted from a verified token.
type Claims struct {
	UserID string
	Role   string
}

// Manager signs and verifies HS256 tokens with a shared server secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the subject's id and role with the
// configured expiry window.
func (m *Manager) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks signature integrity and expiry. The signing algorithm is
// pinned to HS256; a token declaring any other algorithm fails with
// ErrBadSignature.
func (m *Manager) Verify(raw string) (Claims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrBadSignature
		default:
			return Claims{}, ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return Claims{}, ErrTokenMalformed
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, ErrTokenMalformed
	}

	return Claims{UserID: sub, Role: role}, nil
}
