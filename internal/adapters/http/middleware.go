package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader       = "X-Request-Id"
	maxIncomingRequestID  = 128
	unmatchedRouteLogName = "unmatched"
)

// requestScope travels in the request context. The matched route fills in
// route and recipeID so the access log can report them.
type requestScope struct {
	id       string
	route    string
	recipeID string
}

type requestScopeKey struct{}

func scopeFromContext(ctx context.Context) *requestScope {
	if ctx == nil {
		return nil
	}
	scope, _ := ctx.Value(requestScopeKey{}).(*requestScope)
	return scope
}

func requestIDFromContext(ctx context.Context) string {
	if scope := scopeFromContext(ctx); scope != nil {
		return scope.id
	}
	return ""
}

// routed marks the request with the ServeMux pattern that matched it.
func routed(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if scope := scopeFromContext(r.Context()); scope != nil {
			scope.route = r.Pattern
			scope.recipeID = r.PathValue("id")
		}
		handler(w, r)
	}
}

// requestLogMiddleware assigns the request id and writes one http_request
// line after the handler returns.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" || len(requestID) > maxIncomingRequestID {
			requestID = uuid.NewString()
		}
		scope := &requestScope{id: requestID}
		r = r.WithContext(context.WithValue(r.Context(), requestScopeKey{}, scope))
		w.Header().Set(requestIDHeader, requestID)

		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := scope.route
		if route == "" {
			route = unmatchedRouteLogName
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				route = r.URL.Path
			}
		}
		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"bytes", recorder.bytesWritten,
			"remote_addr", clientHost(r.RemoteAddr),
		}
		if scope.recipeID != "" {
			attrs = append(attrs, "recipe_id", scope.recipeID)
		}

		switch {
		case recorder.statusCode >= 500:
			slog.Error("http_request", attrs...)
		case recorder.statusCode >= 400:
			slog.Warn("http_request", attrs...)
		default:
			slog.Info("http_request", attrs...)
		}
	})
}

func clientHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
