package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the {status, message} error body every JSON response in the app uses.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": msg})
}
