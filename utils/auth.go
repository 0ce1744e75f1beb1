package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtKey signs session and verification tokens; set from JWT_SECRET
var JwtKey = []byte("change-me")

const (
	sessionTTL      = 24 * time.Hour
	verificationTTL = 48 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// GenerateJWT issues a session token for a user
func GenerateJWT(userID, email, role string) (string, error) {
	return sign(&Claims{UserID: userID, Email: email, Role: role}, sessionTTL)
}

// GenerateVerificationToken issues the token mailed on registration
func GenerateVerificationToken(email string) (string, error) {
	return sign(&Claims{Email: email, StandardClaims: jwt.StandardClaims{Subject: "verify"}}, verificationTTL)
}

func sign(claims *Claims, ttl time.Duration) (string, error) {
	claims.ExpiresAt = time.Now().Add(ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// ParseJWT validates a token signed with JwtKey and returns its claims
func ParseJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return JwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
