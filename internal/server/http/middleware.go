package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
	"github.com/dmitrijs2005/greetingws/internal/server/requestctx"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// AccountLookup resolves the account behind a set of credentials.
type AccountLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

// RequestID assigns each request a unique id, echoed on the response so
// clients can correlate logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		r.Header.Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r)
	})
}

// Logging logs every request with its status and duration.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info(r.Context(), "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", r.Header.Get(requestIDHeader),
			)
		})
	}
}

// CORS adds cross-origin headers and short-circuits preflight requests.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies a process-wide request budget.
func RateLimit(limiter *rate.Limiter, eh *ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				eh.WriteError(w, r, http.StatusTooManyRequests, ErrorCodeInvalidRequest, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BasicAuth authenticates requests with HTTP Basic credentials against the
// account store and seeds the request identity context. An account is
// usable only when it is enabled, unexpired, unlocked, its credentials are
// current, and it holds at least one role; anything else fails closed.
func BasicAuth(accounts AccountLookup, eh *ErrorHandler, logger logging.Logger) func(http.Handler) http.Handler {
	log := logger.With("module", "basic_auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r, eh)
				return
			}

			account, err := accounts.FindByUsername(r.Context(), username)
			if err != nil {
				// Not-found and store failure answer identically; existence
				// of an account is not leaked.
				unauthorized(w, r, eh)
				return
			}

			if !usable(account) {
				log.Warn(r.Context(), "rejected unusable account", "username", username)
				unauthorized(w, r, eh)
				return
			}

			if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
				unauthorized(w, r, eh)
				return
			}

			ctx := requestctx.WithUsername(r.Context(), account.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func usable(a *models.Account) bool {
	if !a.Enabled || a.Expired || a.CredentialsExpired || a.Locked {
		return false
	}
	// No roles, no access.
	return len(a.Roles) > 0
}

func unauthorized(w http.ResponseWriter, r *http.Request, eh *ErrorHandler) {
	w.Header().Set("WWW-Authenticate", `Basic realm="greetingws"`)
	eh.WriteError(w, r, http.StatusUnauthorized, ErrorCodeUnauthorized, "authentication required")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
