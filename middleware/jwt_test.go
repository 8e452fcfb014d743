package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// The signing key must be read from the environment at token time, not at
// package init: the .env file is only loaded once the config package
// connects, long after this package initializes.
func TestTokenRoundTripWithLateSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "late-loaded-secret")

	token, err := GenerateToken("staff-1", "admin", "Ana", "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var got *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClaims(r)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	JWTMiddleware(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("middleware rejected a freshly minted token: %d %s", rr.Code, rr.Body.String())
	}
	if got == nil {
		t.Fatal("claims missing from request context")
	}
	if got.StaffID != "staff-1" || got.Role != "admin" {
		t.Errorf("claims = %s/%s, want staff-1/admin", got.StaffID, got.Role)
	}
}

func TestJWTMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken("staff-1", "admin", "Ana", "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "rotated-secret")
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a token signed with a stale secret")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}
