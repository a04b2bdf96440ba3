package middleware

import (
	"net/http"
	"time"
)

// AuthMiddleware checks if the "loggedIn" cookie is set and not expired.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loggedInCookie, err := r.Cookie("loggedIn")
		if err != nil || loggedInCookie.Value == "" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		// Check if the cookie has expired based on its creation time
		if loggedInCookie.MaxAge > 0 {
			creationTime := time.Now().Add(time.Duration(-loggedInCookie.MaxAge) * time.Second)
			if time.Now().After(creationTime.Add(time.Duration(loggedInCookie.MaxAge) * time.Second)) {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
