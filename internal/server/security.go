package server

import (
	"net/http"
	"strings"
)

// SecurityConfig controls the headers added to every response.
type SecurityConfig struct {
	// EnableCORS turns on cross-origin headers.
	EnableCORS bool
	// AllowedOrigins lists accepted origins; "*" accepts any.
	AllowedOrigins []string
	// AllowedMethods is sent in Access-Control-Allow-Methods.
	AllowedMethods []string
}

// DefaultSecurityConfig allows read-only cross-origin scraping.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}
}

// SecurityMiddleware sets hardening headers, applies CORS and answers
// preflight requests itself.
func SecurityMiddleware(cfg SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if cfg.EnableCORS {
			if origin, ok := allowedOrigin(cfg.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func allowedOrigin(allowed []string, origin string) (string, bool) {
	for _, a := range allowed {
		if a == "*" {
			return "*", true
		}
		if origin != "" && a == origin {
			return origin, true
		}
	}
	return "", false
}
