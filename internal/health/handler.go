// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

var errNotConfigured = errors.New("database checker not configured")

type Checker interface {
	Ping(ctx context.Context) error
}

// Database reports connectivity together with the server clock.
type Database interface {
	Checker
	Now(ctx context.Context) (time.Time, error)
}

type Config struct {
	Service      string
	Environment  string
	DatabaseHost string
	DatabaseName string
	DB           Database
	// Redis is optional. A nil checker is left out of readiness.
	Redis Checker
}

type Handler struct {
	cfg      Config
	now      func() time.Time
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler(cfg Config) *Handler {
	h := &Handler{cfg: cfg, now: time.Now}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// Health runs SELECT NOW() against the database and reports 503 when it
// fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:      "healthy",
		Timestamp:   h.now().UTC(),
		Environment: h.cfg.Environment,
		Service:     h.cfg.Service,
	}

	dbTime, err := h.databaseTime(ctx)
	if err != nil {
		resp.Status = "unhealthy"
		resp.Database = DatabaseInfo{Error: "Database connection error"}
		h.writeStatus(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Database = DatabaseInfo{
		Connected: true,
		Host:      h.cfg.DatabaseHost,
		Database:  h.cfg.DatabaseName,
		Timestamp: &dbTime,
	}
	h.writeStatus(w, http.StatusOK, resp)
}

func (h *Handler) databaseTime(ctx context.Context) (time.Time, error) {
	if h.cfg.DB == nil {
		return time.Time{}, errNotConfigured
	}
	return h.cfg.DB.Now(ctx)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	h.writeStatus(w, http.StatusOK, StatusResponse{
		Status: "ok",
	})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	if !h.ready.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runHealthChecks(ctx)

	status := "ok"
	statusCode := http.StatusOK
	for _, check := range checks {
		if !check.Healthy {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	h.writeStatus(w, statusCode, ReadinessResponse{
		Status: status,
		Checks: checks,
	})
}

func (h *Handler) runHealthChecks(ctx context.Context) []HealthCheck {
	targets := []target{{"database", h.cfg.DB}}
	if h.cfg.Redis != nil {
		targets = append(targets, target{"redis", h.cfg.Redis})
	}

	var wg sync.WaitGroup
	checks := make([]HealthCheck, len(targets))

	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = check(ctx, target.name, target.checker)
		}()
	}

	wg.Wait()
	return checks
}

type target struct {
	name    string
	checker Checker
}

func check(ctx context.Context, name string, checker Checker) HealthCheck {
	result := HealthCheck{
		Name:    name,
		Healthy: true,
	}

	if checker == nil {
		result.Healthy = false
		result.Message = name + " checker not configured"
		return result
	}

	start := time.Now()
	err := checker.Ping(ctx)
	result.Latency = time.Since(start).String()

	if err != nil {
		result.Healthy = false
		result.Message = "ping failed"
	}

	return result
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type HealthResponse struct {
	Status      string       `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
	Environment string       `json:"environment"`
	Service     string       `json:"service"`
	Database    DatabaseInfo `json:"database"`
}

type DatabaseInfo struct {
	Connected bool       `json:"connected"`
	Host      string     `json:"host,omitempty"`
	Database  string     `json:"database,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
