package apiapp

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/config"
	ratesvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/rate"
	httperrors "github.com/eugene-guo-moe/interactive-display1-sub000/internal/transport/http/errors"
)

// requestTimeout must cover the full generation pipeline: submit, the polling
// budget and the image download.
const requestTimeout = 150 * time.Second

func ApplyMiddlewares(r chiRouter, cfg config.SecurityConfig, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(securityHeaders)
	r.Use(corsMiddleware(cfg.AllowedOrigins))
	r.Use(requestLogger(log))
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware echoes the request origin when it is on the allow-list and
// falls back to the first configured origin otherwise, so a misconfigured
// kiosk fails visibly in the browser console instead of silently wildcarding.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && len(allowedOrigins) > 0 {
				allowed := allowedOrigins[0]
				for _, candidate := range allowedOrigins {
					if candidate == origin {
						allowed = origin
						break
					}
				}

				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowed)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
				h.Set("Access-Control-Max-Age", "600")
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyMiddleware gates an endpoint on the X-API-Key header. An empty
// configured key leaves the endpoint open; that is the dev-mode default.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "invalid api key",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware applies the fixed-window limiter keyed by the trusted
// client-IP header. Client-settable headers like X-Forwarded-For are never
// consulted. Limiter backend errors fail open; the limiter is defense in
// depth and redis downtime must not take the kiosk offline.
func RateLimitMiddleware(limiter *ratesvc.Limiter, trustedIPHeader string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := r.Header.Get(trustedIPHeader)
			if clientKey == "" {
				clientKey = "unknown"
			}

			result, err := limiter.Check(r.Context(), clientKey)
			if err != nil {
				if log != nil {
					log.Warn("rate limiter unavailable, failing open", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(result.RetryAfterSec, 10))
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "RATE_LIMITED",
					Message:       "too many generation requests, try again later",
					RetryAfterSec: result.RetryAfterSec,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
