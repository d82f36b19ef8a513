// Package middleware holds the HTTP middleware this API installs on every
// route: request logging and CORS. Auth-specific middleware lives next to the
// token code in internal/auth.
//
// WHAT IS MIDDLEWARE?
// A middleware is a function that takes an http.Handler and returns a new one
// wrapping it, adding behaviour before and/or after the real handler runs:
//
//	func MyMiddleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // before
//	        next.ServeHTTP(w, r)
//	        // after
//	    })
//	}
//
// Chaining these wrappers is how chi composes a request pipeline.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// statusRecorder wraps http.ResponseWriter to remember what was sent.
// The standard ResponseWriter gives us no way to read the status code back
// after a handler has written it, so we intercept WriteHeader and Write.
type statusRecorder struct {
	http.ResponseWriter       // Embedding: this struct "inherits" all methods
	status              int   // Our addition: the status code sent to the client
	bytes               int64 // Response body size
}

// WriteHeader remembers the status code before delegating to the embedded writer.
func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Write counts body bytes and delegates to the embedded writer.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Logger returns middleware that writes one structured slog line per request.
//
// The line carries method, path, status, duration, response size, the caller's
// address (so failed admin logins can be traced to a source), and chi's request
// ID when the RequestID middleware runs earlier in the chain.
//
// Log level follows the outcome: server errors log at Error, client errors at
// Warn, everything else at Info. That way a quiet production log only shows
// requests worth looking at when filtered to Warn and above.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				status:         http.StatusOK, // Default if WriteHeader is never called
			}

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", rec.bytes),
				slog.String("remote", r.RemoteAddr),
				slog.String("requestId", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
