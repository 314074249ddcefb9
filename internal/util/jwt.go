package util

import (
	"errors"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/config"
	"github.com/dgrijalva/jwt-go"
)

// TokenClaims 从令牌中解析出的信息
type TokenClaims struct {
	UserID    int
	ExpiresAt time.Time
}

func GenerateToken(userID int) (string, error) {
	ttl := config.AppConfig.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func ParseToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid user id")
	}
	exp, _ := claims["exp"].(float64)

	return &TokenClaims{
		UserID:    int(userID),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

func ValidateToken(tokenString string) (int, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func RefreshToken(tokenString string) (string, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	return GenerateToken(claims.UserID)
}
