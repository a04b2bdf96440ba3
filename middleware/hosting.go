package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"sync"

	"coffeechat/internal/env"

	"github.com/gorilla/csrf"
)

var csrfOnce sync.Once
var csrfMiddleware func(http.Handler) http.Handler

// csrfProtection reads CSRF_KEY lazily so the .env file has been loaded by
// the time the first request arrives.
func csrfProtection() func(http.Handler) http.Handler {
	csrfOnce.Do(func() {
		csrfMiddleware = csrf.Protect(
			[]byte(env.GetAsStringElseAlt("CSRF_KEY", "32-byte-long-auth-key-change-me!")),
			csrf.Secure(true),
		)
	})
	return csrfMiddleware
}

var (
	xForwardedScheme = http.CanonicalHeaderKey("X-Forwarded-Scheme")
	xForwardedProto  = http.CanonicalHeaderKey("X-Forwarded-Proto")
	// RFC7239 defines a new "Forwarded: " header designed to replace the
	// existing use of X-Forwarded-* headers.
	// e.g. Forwarded: for=192.0.2.60;proto=https;by=203.0.113.43.
	forwarded = http.CanonicalHeaderKey("Forwarded")
	// Allows for a sub-match for the first instance of scheme (http|https)
	// prefixed by 'proto='. The match is case-insensitive.
	protoRegex = regexp.MustCompile(`(?i)(?:proto=)(https|http)`)
)

func getScheme(r *http.Request) string {
	scheme := r.URL.Scheme

	if proto := r.Header.Get(xForwardedProto); proto != "" {
		scheme = strings.ToLower(proto)
	} else if proto = r.Header.Get(xForwardedScheme); proto != "" {
		scheme = strings.ToLower(proto)
	} else if proto = r.Header.Get(forwarded); proto != "" {
		// In the case of multiple proto parameters (invalid) only the
		// first is extracted.
		if match := protoRegex.FindStringSubmatch(proto); len(match) > 1 {
			scheme = strings.ToLower(match[1])
		}
	}

	return scheme
}

// HttpsForwardMiddleware checks for X-Forwarded-Proto and redirects
// http to https.
func HttpsForwardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme := getScheme(r)
		if scheme != "" {
			r.URL.Scheme = scheme
		}

		if scheme != "https" {
			http.Redirect(w, r, "https://"+r.Host+r.RequestURI, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HSTS Middleware to enforce HTTPS.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets common security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=()")

		if r.URL.Path == "/login" || r.URL.Path == "/admin" {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}

		policy := "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' https://accounts.google.com https://apis.google.com; " +
			"img-src 'self' data:; " +
			"frame-src https://accounts.google.com; " +
			"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
			"font-src 'self' fonts.gstatic.com"
		w.Header().Set("Content-Security-Policy", policy)

		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		next.ServeHTTP(w, r)
	})
}

// CORS allows the hosted frontend to call the drafting endpoints. The
// allow-list comes from CORS_ORIGINS (comma-separated), localhost always
// included for development.
func CORS(next http.Handler) http.Handler {
	allowed := map[string]bool{
		"http://localhost:9005": true,
		"http://127.0.0.1:9005": true,
	}
	for _, origin := range strings.Split(env.GetAsString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-CSRF-Token")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CSRFProtect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		csrfProtection()(next).ServeHTTP(w, r)
	})
}
