package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, sub, issuer string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func echoWith(mw echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, UserIDFromContext(c.Request().Context()))
	})
	return e
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	e := echoWith(JWTMiddleware(JWTConfig{Issuer: "healthfolio", SigningKey: testKey}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", "healthfolio", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("expected user-1 in context, got %q", rec.Body.String())
	}
}

func TestJWTMiddleware_MissingToken(t *testing.T) {
	e := echoWith(JWTMiddleware(JWTConfig{SigningKey: testKey}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	e := echoWith(JWTMiddleware(JWTConfig{SigningKey: testKey}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", "", time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestJWTMiddleware_WrongIssuer(t *testing.T) {
	e := echoWith(JWTMiddleware(JWTConfig{Issuer: "healthfolio", SigningKey: testKey}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", "someone-else", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong issuer, got %d", rec.Code)
	}
}

func TestOptionalJWTMiddleware_Anonymous(t *testing.T) {
	e := echoWith(OptionalJWTMiddleware(JWTConfig{SigningKey: testKey}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected anonymous access allowed, got %d", rec.Code)
	}
	if rec.Body.String() != "" {
		t.Errorf("expected empty user id for anonymous, got %q", rec.Body.String())
	}
}

func TestOptionalJWTMiddleware_CapturesIdentity(t *testing.T) {
	e := echoWith(OptionalJWTMiddleware(JWTConfig{SigningKey: testKey}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "clinician-7", "", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Body.String() != "clinician-7" {
		t.Errorf("expected identity captured, got %q", rec.Body.String())
	}
}

func TestOptionalJWTMiddleware_InvalidTokenFallsBackToAnonymous(t *testing.T) {
	e := echoWith(OptionalJWTMiddleware(JWTConfig{SigningKey: testKey}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for invalid token on public surface, got %d", rec.Code)
	}
	if rec.Body.String() != "" {
		t.Errorf("expected anonymous, got %q", rec.Body.String())
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echoWith(DevAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Body.String() == "" {
		t.Error("expected dev user id in context")
	}
}
