// Package flash implements one-shot notification messages carried in a
// cookie and drained by the /notifications endpoint.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Level classifies a flash message for the frontend.
type Level string

const (
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

const cookieName = "flash"

// Message is one queued notification.
type Message struct {
	Level Level  `json:"level"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Set queues a flash message on the response.
func Set(w http.ResponseWriter, level Level, title, body string) {
	payload, err := json.Marshal(Message{Level: level, Title: title, Body: body})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandlerWithLogger returns the /notifications handler: it reads the flash
// cookie, clears it, and returns the message as JSON (204 when empty).
func HandlerWithLogger(logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Expire the cookie either way; flash messages are one-shot.
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			MaxAge:   -1,
		})

		raw, err := base64.URLEncoding.DecodeString(cookie.Value)
		if err != nil {
			logger.Warn("discarding malformed flash cookie", "error", err)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("discarding undecodable flash message", "error", err)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(msg); err != nil {
			logger.Error("writing flash message", "error", err)
		}
	})
}
