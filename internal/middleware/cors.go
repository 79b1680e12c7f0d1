package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// FrontendOrigin is the only origin allowed to call the API from a browser
const FrontendOrigin = "http://localhost:3000"

// CORS applies the fixed cross-origin policy: the local frontend origin,
// any method, any header, credentials allowed.
func CORS() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
