// Package httpapi implements the HTTP/JSON surface: routing, middleware
// (metrics, rate limiting, authentication) and the handlers that translate
// between the wire shapes and the service layer.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response is the standard JSON envelope. A few endpoints keep the bare
// shapes the original frontend expects instead; those are written with
// writeJSON directly.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     any    `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newResponse(success bool, message string, data, errDetail any) Response {
	return Response{
		Success:   success,
		Message:   message,
		Data:      data,
		Error:     errDetail,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data, errDetail any) {
	writeJSON(w, status, newResponse(success, message, data, errDetail))
}
