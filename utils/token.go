package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"mapmyissues/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the session user in the token.
type Claims struct {
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
	District   string      `json:"district,omitempty"`
	Town       string      `json:"town,omitempty"`
	Department string      `json:"department,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(secret []byte, user models.SessionUser, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Username:   user.Username,
		Role:       user.Role,
		District:   user.District,
		Town:       user.Town,
		Department: user.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}
	return token, nil
}

// ParseToken verifies an HS256 token and returns its session user.
func ParseToken(secret []byte, tokenString string) (models.SessionUser, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return models.SessionUser{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Username == "" || !claims.Role.Valid() {
		return models.SessionUser{}, fmt.Errorf("%w: missing session user", ErrInvalidToken)
	}

	return models.SessionUser{
		Username:   claims.Username,
		Role:       claims.Role,
		District:   claims.District,
		Town:       claims.Town,
		Department: claims.Department,
	}, nil
}
