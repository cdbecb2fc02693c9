// AngelaMos | 2026
// handler.go

package stats

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

// PoolSource is satisfied by *core.Pool.
type PoolSource interface {
	Stats() sql.DBStats
	Ping(ctx context.Context) error
}

// RedisSource is satisfied by *core.Redis.
type RedisSource interface {
	PoolStats() *redis.PoolStats
	Ping(ctx context.Context) error
}

type Handler struct {
	db      PoolSource
	redis   RedisSource
	started time.Time
	now     func() time.Time
}

// NewHandler reports on db and, when non-nil, redis. Uptime counts from
// started.
func NewHandler(db PoolSource, redis RedisSource, started time.Time) *Handler {
	return &Handler{
		db:      db,
		redis:   redis,
		started: started,
		now:     time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Route("/stats", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Snapshot)
		r.Get("/db", h.Database)
		r.Get("/runtime", h.Runtime)
	})
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap := Snapshot{
		Database: h.poolSnapshot(r.Context()),
		Runtime:  h.runtimeSnapshot(),
	}
	if h.redis != nil {
		snap.Redis = h.redisSnapshot(r.Context())
	}

	core.OK(w, snap)
}

func (h *Handler) Database(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.poolSnapshot(r.Context()))
}

func (h *Handler) Runtime(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.runtimeSnapshot())
}

func (h *Handler) poolSnapshot(ctx context.Context) PoolSnapshot {
	if h.db == nil {
		return PoolSnapshot{}
	}

	s := h.db.Stats()
	return PoolSnapshot{
		Reachable:      h.db.Ping(ctx) == nil,
		MaxOpen:        s.MaxOpenConnections,
		Open:           s.OpenConnections,
		InUse:          s.InUse,
		Idle:           s.Idle,
		Waits:          s.WaitCount,
		WaitTime:       s.WaitDuration.String(),
		ClosedIdle:     s.MaxIdleClosed + s.MaxIdleTimeClosed,
		ClosedLifetime: s.MaxLifetimeClosed,
	}
}

func (h *Handler) redisSnapshot(ctx context.Context) *RedisSnapshot {
	snap := &RedisSnapshot{Reachable: h.redis.Ping(ctx) == nil}

	if s := h.redis.PoolStats(); s != nil {
		snap.Hits = s.Hits
		snap.Misses = s.Misses
		snap.Timeouts = s.Timeouts
		snap.Total = s.TotalConns
		snap.Idle = s.IdleConns
		snap.Stale = s.StaleConns
	}

	return snap
}

func (h *Handler) runtimeSnapshot() RuntimeSnapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeSnapshot{
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		CPUs:          runtime.NumCPU(),
		HeapBytes:     mem.HeapAlloc,
		SysBytes:      mem.Sys,
		GCRuns:        mem.NumGC,
		UptimeSeconds: int64(h.now().Sub(h.started).Seconds()),
	}
}

type Snapshot struct {
	Database PoolSnapshot    `json:"database"`
	Redis    *RedisSnapshot  `json:"redis,omitempty"`
	Runtime  RuntimeSnapshot `json:"runtime"`
}

type PoolSnapshot struct {
	Reachable      bool   `json:"reachable"`
	MaxOpen        int    `json:"max_open"`
	Open           int    `json:"open"`
	InUse          int    `json:"in_use"`
	Idle           int    `json:"idle"`
	Waits          int64  `json:"waits"`
	WaitTime       string `json:"wait_time"`
	ClosedIdle     int64  `json:"closed_idle"`
	ClosedLifetime int64  `json:"closed_lifetime"`
}

type RedisSnapshot struct {
	Reachable bool   `json:"reachable"`
	Hits      uint32 `json:"hits"`
	Misses    uint32 `json:"misses"`
	Timeouts  uint32 `json:"timeouts"`
	Total     uint32 `json:"total_conns"`
	Idle      uint32 `json:"idle_conns"`
	Stale     uint32 `json:"stale_conns"`
}

type RuntimeSnapshot struct {
	GoVersion     string `json:"go_version"`
	Goroutines    int    `json:"goroutines"`
	CPUs          int    `json:"cpus"`
	HeapBytes     uint64 `json:"heap_bytes"`
	SysBytes      uint64 `json:"sys_bytes"`
	GCRuns        uint32 `json:"gc_runs"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
