package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/segyhp/club-engine/pkg/response"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	db      Pinger
	cache   Pinger
	timeout time.Duration
}

func NewHealthHandler(db, cache Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{
		db:      db,
		cache:   cache,
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic liveness check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    map[string]string{},
	})
}

// Ready checks database and cache connectivity
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	h.check(r.Context(), &status, "database", h.db)
	h.check(r.Context(), &status, "redis", h.cache)

	if status.Status == "error" {
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}
	response.Success(w, status)
}

func (h *HealthHandler) check(ctx context.Context, status *HealthStatus, name string, p Pinger) {
	if p == nil {
		status.Checks[name] = "disabled"
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		status.Status = "error"
		status.Checks[name] = "failed: " + err.Error()
		return
	}
	status.Checks[name] = "ok"
}
