package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const accessTokenDurationMinutes time.Duration = 30

const issuer = "mopify-api"

var ErrInvalidToken = errors.New("invalid token")

func GenerateJWT(secret []byte, subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("Subject is a required field for generating JWT Token!")
	}

	jwtToken := jwt.New(jwt.SigningMethodHS256)

	jwtClaims := jwtToken.Claims.(jwt.MapClaims)
	jwtClaims["iat"] = time.Now().Unix()
	jwtClaims["exp"] = time.Now().Add(accessTokenDurationMinutes * time.Minute).Unix()
	jwtClaims["iss"] = issuer
	jwtClaims["sub"] = subject

	return jwtToken.SignedString(secret)
}

// VerifyJWT checks a token, with or without its "Bearer " prefix, and returns its subject.
func VerifyJWT(secret []byte, tokenString string) (string, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	jwtToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	jwtClaims, ok := jwtToken.Claims.(jwt.MapClaims)
	if !ok || !jwtToken.Valid {
		return "", ErrInvalidToken
	}

	if !jwtClaims.VerifyIssuer(issuer, true) {
		return "", ErrInvalidToken
	}

	subject, ok := jwtClaims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
