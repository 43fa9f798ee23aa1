package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/logging"
)

// correlationHeader is the header an operator or load balancer can set
// to carry its own correlation id through to this node's logs; a
// missing or empty header gets a freshly generated one instead.
const correlationHeader = "X-Correlation-ID"

// withCorrelation wraps next the way the teacher's RequestIDMiddleware
// and LoggingMiddleware do combined: it stamps every request's context
// with a correlation id (logging.WithCorrelationID) before the handler
// runs, echoes it back on the response, and logs start/completion
// keyed on it.
func withCorrelation(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(correlationHeader)
		if correlationID == "" {
			correlationID = logging.GenerateCorrelationID()
		}

		ctx := logging.WithCorrelationID(r.Context(), correlationID)
		w.Header().Set(correlationHeader, correlationID)

		start := time.Now()
		logger.InfoContext(ctx, "http request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("correlation_id", correlationID),
			slog.String("component", constants.ComponentHTTPServer))

		next.ServeHTTP(w, r.WithContext(ctx))

		logger.InfoContext(ctx, "http request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("correlation_id", correlationID),
			slog.Duration("duration", time.Since(start)),
			slog.String("component", constants.ComponentHTTPServer))
	})
}
