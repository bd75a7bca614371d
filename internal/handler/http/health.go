package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 3 * time.Second

type HealthHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
}

type HealthHandlerImpl struct {
	checks  map[string]database.Pinger
	version string
}

// NewHealthHandler probes every named dependency on each request.
func NewHealthHandler(version string, checks map[string]database.Pinger) HealthHandler {
	return &HealthHandlerImpl{checks: checks, version: version}
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// Check implements HealthHandler.
func (h *HealthHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var mu sync.Mutex
	result := HealthResponse{Status: "ok", Version: h.version, Checks: make(map[string]string, len(h.checks))}

	var g errgroup.Group
	for name, pinger := range h.checks {
		name, pinger := name, pinger
		g.Go(func() error {
			status := "ok"
			if err := pinger.Ping(ctx); err != nil {
				slog.Warn("health check failed", "check", name, "error", err)
				status = "unavailable"
			}
			mu.Lock()
			result.Checks[name] = status
			if status != "ok" {
				result.Status = "degraded"
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if result.Status != "ok" {
		response.ServiceUnavailable(w, "Service unavailable", result)
		return
	}
	response.Success(w, result)
}
