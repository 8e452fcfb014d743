package handlers

import (
	"encoding/json"
	"net/http"
)

// envelope is the single response shape every JSON endpoint uses:
// {"error": bool, "message": ..., "data": ...}. The two PDF endpoints are
// the only exception (binary body, plain-text errors).
type envelope struct {
	Error   bool        `json:"error"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, envelope{Error: false, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, envelope{Error: false, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Error: true, Message: message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
