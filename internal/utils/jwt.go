package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken создаёт JWT указанного типа (access или refresh).
func GenerateToken(secret string, userID string, isAdmin bool, duration time.Duration, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"is_admin":   isAdmin,
		"token_type": tokenType, // различие между access и refresh
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(), // issued at — доп. уникальность
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken разбирает и проверяет подпись JWT.
func ParseToken(secret, tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("невалидный токен")
	}
	return claims, nil
}

// TokenSubject достаёт user_id, is_admin и token_type из claims.
func TokenSubject(claims jwt.MapClaims) (userID string, isAdmin bool, tokenType string, ok bool) {
	userID, ok1 := claims["user_id"].(string)
	isAdmin, _ = claims["is_admin"].(bool)
	tokenType, ok2 := claims["token_type"].(string)
	return userID, isAdmin, tokenType, ok1 && ok2
}
