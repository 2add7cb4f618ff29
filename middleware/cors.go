package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/broady/tygql"
)

// CORSConfig configures CORS. Empty lists take the defaults of
// DefaultCORSConfig.
type CORSConfig struct {
	// AllowOrigins lists origins that may call the endpoint. "*" allows any.
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	// ExposeHeaders lists response headers readable by the browser.
	ExposeHeaders []string
	// AllowCredentials lets requests carry cookies. A wildcard origin is
	// then answered with the requesting origin.
	AllowCredentials bool
	// MaxAge is how long, in seconds, a preflight result may be cached.
	MaxAge int
}

// DefaultCORSConfig allows any origin to query and mutate over GET and
// POST, and exposes the request ID header.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Authorization", tygql.RequestIDHeader},
		ExposeHeaders: []string{tygql.RequestIDHeader},
	}
}

// CORS returns HTTP middleware that answers preflight requests and sets
// CORS headers on the rest. A nil cfg means DefaultCORSConfig.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	def := DefaultCORSConfig()
	if cfg == nil {
		cfg = def
	}
	origins := cmpOr(cfg.AllowOrigins, def.AllowOrigins)
	anyOrigin := slices.Contains(origins, "*")
	methods := strings.Join(cmpOr(cfg.AllowMethods, def.AllowMethods), ", ")
	headers := strings.Join(cmpOr(cfg.AllowHeaders, def.AllowHeaders), ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")
			if !anyOrigin || cfg.AllowCredentials {
				h.Add("Vary", "Origin")
			}

			allowed := anyOrigin || (origin != "" && slices.Contains(origins, origin))
			if allowed {
				switch {
				case anyOrigin && (origin == "" || !cfg.AllowCredentials):
					h.Set("Access-Control-Allow-Origin", "*")
				default:
					// Credentialed responses may not use the wildcard.
					h.Set("Access-Control-Allow-Origin", origin)
				}
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if expose != "" {
					h.Set("Access-Control-Expose-Headers", expose)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if !allowed {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func cmpOr(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
