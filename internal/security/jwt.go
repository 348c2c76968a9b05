package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	auth       *jwtauth.JWTAuth
	expiration time.Duration
}

func NewTokenManager(secret string, expiration time.Duration) *TokenManager {
	return &TokenManager{
		auth:       jwtauth.New("HS256", []byte(secret), nil),
		expiration: expiration,
	}
}

func (m *TokenManager) JWTAuth() *jwtauth.JWTAuth {
	return m.auth
}

func (m *TokenManager) GenerateToken(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.Hex(),
		"iat": now.Unix(),
		"exp": now.Add(m.expiration).Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["sub"].(string)
	if !ok || id == "" {
		return "", errors.New("sub claim is missing or not a string")
	}
	return id, nil
}
