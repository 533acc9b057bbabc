package middleware

import (
	"github.com/go-chi/cors"
)

// CORSConfig lists the allowed origins and whether credentials may be sent.
type CORSConfig struct {
	Origins          []string
	AllowCredentials bool
}

// CORS answers preflight requests and decorates cross-origin responses.
func CORS(cfg CORSConfig) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: cfg.AllowCredentials,
		AllowedHeaders: []string{
			"Authorization", "Content-Type", "X-Requested-With", "Accept", "Origin",
			"User-Agent", "DNT", "Cache-Control", "X-Mx-ReqToken", "Keep-Alive", "X-CSRFToken",
		},
		ExposedHeaders: []string{
			"X-Total-Count", HeaderRateLimitRemaining, HeaderRateLimitReset, HeaderRequestID,
		},
		MaxAge: 600,
	})
}
