package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"polychat/internal/config"
)

// SessionClaims is the decoded view of a session token.
type SessionClaims struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// GenerateSessionToken creates a signed session JWT for a logged-in user.
func GenerateSessionToken(userID, email, name, role string, cfg *config.Config) (string, int64, error) {
	expirationTime := time.Now().Add(cfg.SessionTTL).Unix()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"name":  name,
		"role":  role,
		"exp":   expirationTime,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(cfg.JWTSecret)
	if err != nil {
		return "", 0, err
	}
	return signedToken, expirationTime, nil
}

// ValidateSessionToken verifies the token signature and expiry and returns
// the embedded session claims.
func ValidateSessionToken(tokenString string, cfg *config.Config) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return &SessionClaims{
		UserID: sub,
		Email:  email,
		Name:   name,
		Role:   role,
	}, nil
}
