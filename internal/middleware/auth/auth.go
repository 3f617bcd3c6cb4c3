package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies the session tokens handed out at login.
// The token subject is the username; no other claims are trusted.
type TokenIssuer struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), tokenTTL: ttl}
}

func (t *TokenIssuer) Issue(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid or expired token")
	}

	return claims.Subject, nil
}

// Middleware resolves the bearer token into a username in request locals.
// When required is false, anonymous requests pass through with no username
// set; protected routes pass required=true and get a 401 instead.
func Middleware(issuer *TokenIssuer, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			if required {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Please log in to contribute",
				})
			}
			return c.Next()
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		username, err := issuer.Verify(tokenString)
		if err != nil {
			if required {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Please log in to contribute",
				})
			}
			return c.Next()
		}

		c.Locals("username", username)
		return c.Next()
	}
}
