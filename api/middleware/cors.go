package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ecoleta/ecoleta-backend/pkg/config"
)

// CORS applies the cross-origin policy. go-chi/cors answers a preflight it
// handles with 200 itself; plain OPTIONS requests reach the route handlers.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         cfg.MaxAgeSeconds,
	}).Handler
}
