package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/pkg/config"
)

// Validation failure classes. The access guard collapses all of them to one
// opaque 401; the split exists for logs and tests.
var (
	ErrTokenExpired   = errors.New("jwtutil: token is expired")
	ErrTokenMalformed = errors.New("jwtutil: token is malformed")
	ErrTokenSignature = errors.New("jwtutil: token signature is invalid")
)

// UserClaims represents the JWT claims for an authenticated user. TenantID is
// the tenant binding every downstream handler trusts; it is set once at login
// and never derived from request data.
type UserClaims struct {
	Email    string    `json:"email"`
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Role     string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWT issues and validates HS256 session tokens. The signing key and token
// lifetime come from configuration at construction time; there is no package
// level secret, so tests can run isolated issuers with distinct keys.
type JWT struct {
	secret   []byte
	lifetime time.Duration
}

// New creates a token issuer/validator from the JWT configuration.
func New(cfg *config.JWTConfig) *JWT {
	return &JWT{
		secret:   []byte(cfg.SigningKey),
		lifetime: time.Duration(cfg.ExpirationMinutes) * time.Minute,
	}
}

// GenerateToken creates a signed token binding the user's identity and
// tenant. The token is self-contained: validation needs no server-side state.
func (j *JWT) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := UserClaims{
		Email:    user.Email,
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken verifies the signature and expiry of a token and returns its
// claims. Failures map onto the three sentinel errors above.
func (j *JWT) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenSignature
	}
	return claims, nil
}

func classify(err error) error {
	var ve *jwt.ValidationError
	if !errors.As(err, &ve) {
		return ErrTokenMalformed
	}
	switch {
	case ve.Errors&jwt.ValidationErrorMalformed != 0:
		return ErrTokenMalformed
	case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
		return ErrTokenExpired
	default:
		// Signature mismatch and unexpected signing methods both land here.
		return ErrTokenSignature
	}
}
