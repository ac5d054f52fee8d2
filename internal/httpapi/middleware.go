package httpapi

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/penguindb/internal/auth"
	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/ratelimit"
)

// Slow request thresholds for the monitoring middleware.
const (
	slowRequestThreshold     = time.Second
	verySlowRequestThreshold = 3 * time.Second
)

// responseWriter wraps http.ResponseWriter to capture the status code for
// the metrics and rate-limit middlewares.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// clientIP extracts the caller address used as the rate-limit key.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// monitor records every finished request in the tracker and logs it with a
// severity based on duration and status.
func (s *Server) monitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := wrapWriter(w)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		s.tracker.Record(ww.status, duration)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", duration.Round(time.Millisecond).String(),
		}
		ctx := r.Context()
		switch {
		case duration > verySlowRequestThreshold:
			s.logger.Error(ctx, "very slow request", args...)
		case duration > slowRequestThreshold:
			s.logger.Warn(ctx, "slow request", args...)
		case ww.status >= 400:
			s.logger.Warn(ctx, "request failed", args...)
		default:
			s.logger.Debug(ctx, "request", args...)
		}
	})
}

// recoverer converts panics into the generic 500 envelope, attaching the
// stack trace only in development mode.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := string(debug.Stack())
				s.logger.Error(r.Context(), "panic recovered",
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", stack,
				)
				detail := map[string]any{"type": "panic"}
				if s.cfg.IsDevelopment() {
					detail["stack"] = stack
				}
				writeEnvelope(w, http.StatusInternalServerError, false,
					"Internal server error", nil, detail)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// limit applies a sliding-window limiter keyed by client IP; every request
// counts against the budget.
func (s *Server) limit(l *ratelimit.Limiter, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, retryAfter := l.Allow(ip)
			if !ok {
				s.writeRateLimited(w, r, ip, message, retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authLimit guards the credential endpoints: the budget is checked up front
// but only failed attempts are recorded against it.
func (s *Server) authLimit(l *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, retryAfter := l.Check(ip)
			if !ok {
				s.writeRateLimited(w, r, ip,
					"Too many authentication attempts. Please try again later.", retryAfter)
				return
			}

			ww := wrapWriter(w)
			next.ServeHTTP(ww, r)

			if ww.status >= 400 {
				l.Record(ip)
			}
		})
	}
}

func (s *Server) writeRateLimited(w http.ResponseWriter, r *http.Request, ip, message string, retryAfter time.Duration) {
	s.logger.Warn(r.Context(), "rate limit exceeded",
		"ip", ip, "method", r.Method, "path", r.URL.Path)

	secs := int(retryAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	writeEnvelope(w, http.StatusTooManyRequests, false, message, nil, map[string]any{
		"code":       "RATE_LIMIT_EXCEEDED",
		"retryAfter": fmt.Sprintf("%ds", secs),
		"path":       r.URL.Path,
	})
}

// bearerToken pulls the token out of the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", common.ErrTokenRequired
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}

// requireAuth rejects requests without a valid bearer token and attaches the
// verified claims to the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// optionalAuth attaches claims when a valid token is presented but never
// blocks the request.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, err := bearerToken(r); err == nil {
			if claims, err := auth.ParseToken(token, s.jwtSecret); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}
