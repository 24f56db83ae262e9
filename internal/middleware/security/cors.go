package security

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSMiddleware allows the configured browser origins to call the API with
// credentials. Preflight requests are answered without reaching next.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Refresh-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Authorization", "Refresh-Token", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}
