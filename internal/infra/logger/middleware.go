package logger

import (
	"bytes"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-http-utils/headers"
	"github.com/zenazn/goji/web/mutil"

	"github.com/fleetwire/fleetwire/internal/infra/tracing"
)

// Headers carrying credentials or signatures never reach the log.
var redactedHeaders = map[string]struct{}{
	"X-Api-Key":           {},
	"Authorization":       {},
	"X-Signature":         {},
	"X-Webhook-Signature": {},
	"Webhook-Signature":   {},
}

// Middleware creates HTTP logging middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log := slog.Default().With(
			slog.Group("request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("ip", r.RemoteAddr),
				slog.Any("headers", redact(r.Header)),
				slog.String("request_id", tracing.GetRequestID(r.Context())),
			),
		)
		r = r.WithContext(WithLogger(r.Context(), log))

		lw := mutil.WrapWriter(w)
		buf := bytes.NewBuffer(nil)
		lw.Tee(buf)

		next.ServeHTTP(lw, r)

		logResponse(w, r, lw.Status(), lw.BytesWritten(), time.Since(start), buf.String())
	})
}

func logResponse(
	w http.ResponseWriter,
	r *http.Request,
	status, size int,
	duration time.Duration,
	body string,
) {
	msg, level := "success", slog.LevelInfo
	switch {
	case status >= 500:
		msg, level = "server error", slog.LevelError
	case status >= 400:
		msg = "client error"
	}

	log := FromContext(r.Context())

	attrs := []any{
		slog.Int("status", status),
		slog.Int("size", size),
		slog.Duration("duration", duration),
	}
	if log.Enabled(r.Context(), slog.LevelDebug) &&
		w.Header().Get(headers.ContentType) == "application/json" {
		attrs = append(attrs, slog.String("body", body))
	}

	log.Log(r.Context(), level, msg, slog.Group("response", attrs...))
}

func redact(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if _, ok := redactedHeaders[http.CanonicalHeaderKey(k)]; ok {
			out[k] = []string{"[redacted]"}
			continue
		}
		out[k] = v
	}
	return out
}

// RecoveryMiddleware creates panic recovery middleware
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				FromContext(r.Context()).Error("panic recovered",
					"error", rec,
					"stack", string(debug.Stack()),
				)
				http.Error(
					w,
					http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError,
				)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
