package apimiddleware

import (
	"fmt"
	"net/http"
	"strings"

	"agenthub/internal/domain/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// identityContextKey is the echo context key under which the caller's
// identity is stored. Only this package reads or writes it.
const identityContextKey = "caller-identity"

// IdentityClaims is the token payload issued by the external identity
// provider: the stable subject plus optional profile fields.
type IdentityClaims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns middleware that resolves an optional Bearer token
// into the caller's identity. Requests without a token pass through as
// anonymous; requests with an invalid token are rejected.
func Identity(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return next(c)
			}

			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, prefix),
				&IdentityClaims{},
				func(token *jwt.Token) (any, error) {
					if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
					}
					return key, nil
				},
				jwt.WithValidMethods([]string{"HS256"}),
				jwt.WithExpirationRequired(),
			)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(*IdentityClaims)
			if !ok || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			c.Set(identityContextKey, &entities.Identity{
				Subject:    claims.Subject,
				Name:       claims.Name,
				Email:      claims.Email,
				PictureURL: claims.Picture,
			})
			return next(c)
		}
	}
}

// CallerIdentity returns the identity set by the Identity middleware,
// or nil for anonymous callers.
func CallerIdentity(c echo.Context) *entities.Identity {
	if identity, ok := c.Get(identityContextKey).(*entities.Identity); ok {
		return identity
	}
	return nil
}
