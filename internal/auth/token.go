package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every validation failure: bad signature, wrong
// algorithm, expiry, missing claims. Callers should not distinguish.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what a validated bearer token resolves to.
type Identity struct {
	UserID uint
	Role   string
}

// TokenValidator checks bearer tokens issued by the identity provider.
// Token issuance lives in the auth service; this backend only validates
// and extracts the identity for session binding.
type TokenValidator struct {
	secret []byte
}

func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

// Validate parses and verifies the token and returns the identity it
// carries.
func (v *TokenValidator) Validate(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return &Identity{UserID: uint(userID), Role: role}, nil
}

// Issue signs a token for local development and tests. Production tokens
// come from the identity provider with the same claim shape.
func (v *TokenValidator) Issue(userID uint, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(userID),
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
		"iss":     "moneybuddy-auth",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
