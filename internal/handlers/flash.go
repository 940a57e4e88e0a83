package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/crucial707/visco/internal/web"
)

const flashCookieName = "visco_flash"

// setFlash queues a one-shot message for the next rendered page.
func setFlash(w http.ResponseWriter, secure bool, category, message string) {
	b, err := json.Marshal([]web.Flash{{Category: category, Message: message}})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns queued messages and clears them. A mangled cookie yields nothing.
func popFlashes(w http.ResponseWriter, r *http.Request, secure bool) []web.Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var flashes []web.Flash
	if err := json.Unmarshal(b, &flashes); err != nil {
		return nil
	}
	return flashes
}
