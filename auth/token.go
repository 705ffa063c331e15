package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTTL is how long a session token (and its cookie) stays valid.
	TokenTTL = 7 * 24 * time.Hour
)

// Identity is the payload carried by a session token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Claims represents JWT claims.
type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// Sign returns an HS256 token for the identity that expires after TokenTTL.
func (s *TokenService) Sign(identity Identity) (string, error) {
	if identity.ID == "" {
		return "", errors.New("identity without id")
	}

	issuedAt := s.now()
	claims := &Claims{
		AdminID: identity.ID,
		Email:   identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify decodes a token. Any failure (malformed, bad signature, unexpected
// algorithm, expired) yields false; no error reaches the caller.
func (s *TokenService) Verify(tokenString string) (Identity, bool) {
	if tokenString == "" {
		return Identity{}, false
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return Identity{}, false
	}

	return Identity{ID: claims.AdminID, Email: claims.Email}, true
}

// TTL is the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
