package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/SampleBase/samplebase-services/internal/authn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// JWTMiddleware verifies the bearer token and adds its claims to the
// request context.
func JWTMiddleware(issuer *authn.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "JWTMiddleware").Logger()

				// Get the Authorization header
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					logger.Debug().Msg("authorization header missing")
					http.Error(w, "authorization header missing",
						http.StatusUnauthorized)
					return
				}

				// Check the Authorization header format
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader {
					logger.Error().Msg("invalid token format")
					http.Error(w, "invalid token format", http.StatusUnauthorized)
					return
				}

				// Verify the token signature and expiry
				claims, err := issuer.Parse(token)
				if err != nil {
					logger.Error().Err(err).Msg("invalid bearer jwt token")
					http.Error(w, "invalid bearer jwt token", http.StatusUnauthorized)
					return
				}

				ctx := context.WithValue(r.Context(), ClaimsKey, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// OptionalJWTMiddleware adds claims to the context when a valid bearer
// token is present but lets anonymous requests through. Public endpoints
// use it to upgrade the view for logged-in callers.
func OptionalJWTMiddleware(issuer *authn.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				authHeader := r.Header.Get("Authorization")
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if authHeader == "" || token == authHeader {
					next.ServeHTTP(w, r)
					return
				}

				claims, err := issuer.Parse(token)
				if err != nil {
					// A bad token on a public endpoint is treated as anonymous
					next.ServeHTTP(w, r)
					return
				}

				ctx := context.WithValue(r.Context(), ClaimsKey, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}
