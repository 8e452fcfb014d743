package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Registered protected routes answer 401 without a token; only unknown
// paths fall through to the router's 404. This pins the permit list being
// reachable both at the bare collection path and at the /all alias.
func TestProtectedRoutesAreRegistered(t *testing.T) {
	handler := RegisterRoutes()

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/permit"},
		{"GET", "/api/permit/all"},
		{"GET", "/api/budget/all"},
		{"GET", "/api/work/all"},
		{"GET", "/api/archive/budgets"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusNotFound {
			t.Errorf("%s %s is not registered", p.method, p.path)
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without a token = %d, want 401", p.method, p.path, rr.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/no-such-resource", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d, want 404", rr.Code)
	}
}

func TestHealthRouteIsPublic(t *testing.T) {
	handler := RegisterRoutes()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("health endpoint = %d, want 200", rr.Code)
	}
}
