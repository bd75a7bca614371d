package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/google/uuid"
)

const apiLogWriteTimeout = 2 * time.Second

type statusRecorder struct {
	http.ResponseWriter
	status  int
	message string
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// RecordError implements response.ErrorRecorder.
func (s *statusRecorder) RecordError(message string) {
	s.message = message
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// APILogger persists every response with status >= 400. Persisting is best
// effort: a failed insert is logged and the response is left untouched.
func APILogger(repo apilog.APILogRepository, clk clock.Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status < http.StatusBadRequest {
				return
			}

			entry := apilog.Entry{
				Level:      apilog.LevelForStatus(rec.status),
				URL:        r.URL.RequestURI(),
				Method:     r.Method,
				IP:         clientIP(r),
				StatusCode: rec.status,
				Message:    rec.message,
				CreatedAt:  clk.Now(),
			}
			if entry.Message == "" {
				entry.Message = http.StatusText(rec.status)
			}
			if reqID := GetRequestID(r.Context()); reqID != "" {
				entry.RequestID = &reqID
			}
			id, err := uuid.NewV7()
			if err != nil {
				slog.Warn("failed to generate api log id", "error", err)
				return
			}
			entry.ID = id.String()

			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), apiLogWriteTimeout)
			defer cancel()
			if err := repo.Create(ctx, entry); err != nil {
				slog.Warn("failed to persist api log", "status", rec.status, "url", entry.URL, "error", err)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
