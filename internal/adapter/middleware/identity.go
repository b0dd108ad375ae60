package middleware

import (
	"net/http"
	"strings"
	"time"

	"loan-ledger/internal/domain/principal"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Claims carry the caller's principal in the standard subject.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 bearer token for p.
func GenerateToken(secret []byte, p string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	s, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, expiresAt, nil
}

// Identity resolves the caller from "Authorization: Bearer <jwt>" and stores
// the normalized principal on the context.
func Identity(secret []byte) echo.MiddlewareFunc {
	keyFn := func(*jwt.Token) (any, error) { return secret, nil }
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header required"})
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, keyFn,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			if principal.IsNull(claims.Subject) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token has no subject"})
			}

			c.Set(principalKey, principal.Normalize(claims.Subject))
			return next(c)
		}
	}
}

// Principal returns the caller resolved by Identity, or "".
func Principal(c echo.Context) string {
	if p, ok := c.Get(principalKey).(string); ok {
		return p
	}
	return ""
}
