package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrMessageRetry is the flash shown on form pages when something unexpected failed.
const ErrMessageRetry = "Something went wrong, please try again"

// Response is the body of every JSON API answer.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError sends {"status":"error","message":...}.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, Response{Status: "error", Message: message})
}

// JSONSuccess sends a 200 {"status":"success",...} with an optional message and data.
func JSONSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Status: "success", Message: message, Data: data})
}
