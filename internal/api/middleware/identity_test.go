package apimiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agenthub/internal/domain/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-for-identity-tokens"

func signToken(t *testing.T, claims IdentityClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func runMiddleware(authHeader string) (*entities.Identity, error, int) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured *entities.Identity
	handler := Identity(testSecret)(func(c echo.Context) error {
		captured = CallerIdentity(c)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)

	status := rec.Code
	if httpErr, ok := err.(*echo.HTTPError); ok {
		status = httpErr.Code
	}
	return captured, err, status
}

func TestIdentity_ValidToken(t *testing.T) {
	token := signToken(t, IdentityClaims{
		Name:    "Dana",
		Email:   "dana@example.com",
		Picture: "https://example.com/dana.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	identity, err, status := runMiddleware("Bearer " + token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, identity)
	assert.Equal(t, "subject-1", identity.Subject)
	assert.Equal(t, "Dana", identity.Name)
	assert.Equal(t, "dana@example.com", identity.Email)
	assert.Equal(t, "https://example.com/dana.png", identity.PictureURL)
}

func TestIdentity_AnonymousPassesThrough(t *testing.T) {
	identity, err, status := runMiddleware("")

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, identity)
}

func TestIdentity_BadSignature(t *testing.T) {
	token := signToken(t, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, "some-other-secret")

	_, err, status := runMiddleware("Bearer " + token)

	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIdentity_ExpiredToken(t *testing.T) {
	token := signToken(t, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, testSecret)

	_, err, status := runMiddleware("Bearer " + token)

	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIdentity_MissingSubject(t *testing.T) {
	token := signToken(t, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	_, err, status := runMiddleware("Bearer " + token)

	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}
