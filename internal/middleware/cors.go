package middleware

import (
	"net/http"

	"diet-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS allows the configured dashboard origins. Content-Disposition is
// exposed so browsers can read the report filename.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
