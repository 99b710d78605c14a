package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ordermesa/preorder-backend/pkg/config"
)

// CORS returns middleware that applies the API's allowed origin policy.
// The mobile client runs on Expo dev server ports locally, so the defaults
// in config cover those.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
