package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "dealshub-backend"

// GenerateAdminToken mints an HS256 token carrying the admin role.
// Used by the ops CLI; admin-only endpoints expect it as a Bearer token.
func GenerateAdminToken(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret not configured")
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(time.Hour * 72).Unix(),
		"iss":  tokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// adminAuthorized reports whether the request carries a valid admin token.
func (h *Handler) adminAuthorized(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" || h.JWTSecret == "" {
		return false
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(h.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	return ok && claims["role"] == "admin"
}
