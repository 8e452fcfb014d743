package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"zurcher.dev/api/middleware"
)

func waitConnected(reg *Registry, staffID string) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if reg.Connected(staffID) {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// The socket must bind to the identity in the JWT, not to whatever staffId
// the client puts in the query string. Otherwise any authenticated staff
// member could read another's pushed notifications and evict their session.
func TestNotificationSocketBindsTokenIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "socket-test-secret")

	registry := NewRegistry()
	ns := &NotificationService{registry: registry}
	srv := httptest.NewServer(middleware.JWTMiddleware(http.HandlerFunc(ns.NotificationSocket)))
	defer srv.Close()

	token, err := middleware.GenerateToken("staff-a", "worker", "Ana", "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// Try to subscribe as somebody else via the query string.
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?staffId=staff-b"
	header := http.Header{"Authorization": {"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if !waitConnected(registry, "staff-a") {
		t.Fatal("session should be registered under the token's staff id")
	}
	if registry.Connected("staff-b") {
		t.Error("session must not be registered under the client-chosen staff id")
	}
}

func TestNotificationSocketRequiresClaims(t *testing.T) {
	registry := NewRegistry()
	ns := &NotificationService{registry: registry}
	srv := httptest.NewServer(http.HandlerFunc(ns.NotificationSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?staffId=staff-b"
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatal("upgrade without an authenticated session should fail")
	}
	if registry.Count() != 0 {
		t.Errorf("registry should stay empty, got %d sessions", registry.Count())
	}
}
