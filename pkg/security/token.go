package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token cannot be parsed or fails validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the authenticated identity inside a JWT.
type Claims struct {
	Login       string   `json:"login"`
	Authorities []string `json:"auth,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed JWTs for the HTTP surface.
type TokenManager struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
}

// NewTokenManager creates a TokenManager.
// rememberTTL is used when the client asks to stay signed in.
func NewTokenManager(secret string, ttl, rememberTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:      []byte(secret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
	}
}

// Issue creates a signed token for the given login and authorities.
func (m *TokenManager) Issue(login string, authorities []string, rememberMe bool) (string, error) {
	ttl := m.ttl
	if rememberMe {
		ttl = m.rememberTTL
	}

	now := time.Now()
	claims := Claims{
		Login:       login,
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a signed token and returns its claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
