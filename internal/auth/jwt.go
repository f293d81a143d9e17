package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user data embedded in an access token.
type Identity struct {
	ID       uint
	Username string
}

// TokenManager issues and verifies HS256 access tokens. It keeps no
// server-side session state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not set")
	}

	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

func (m *TokenManager) Issue(identity Identity) (string, error) {
	claims := jwt.MapClaims{
		"id":       identity.ID,
		"username": identity.Username,
		"exp":      m.now().Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify returns the embedded identity of a valid, unexpired token. Any
// malformed, tampered or expired token yields ok == false.
func (m *TokenManager) Verify(tokenString string) (Identity, bool) {
	if tokenString == "" {
		return Identity{}, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))

	if err != nil || !token.Valid {
		return Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return Identity{}, false
	}

	idFloat, ok := claims["id"].(float64)

	if !ok || idFloat < 1 {
		return Identity{}, false
	}

	username, _ := claims["username"].(string)

	return Identity{ID: uint(idFloat), Username: username}, true
}
