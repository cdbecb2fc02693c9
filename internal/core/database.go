// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/metrics"
)

// DBTX is the query surface the stores depend on. *sqlx.DB, *sqlx.Tx and
// *Pool all satisfy it.
type DBTX interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(
		ctx context.Context,
		dest any,
		query string,
		args ...any,
	) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type openFunc func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error)

// Pool owns the database handle. It connects lazily on first use, retries
// the initial connection, and rebuilds itself in the background after a
// broken-connection error.
type Pool struct {
	cfg    config.DatabaseConfig
	logger *slog.Logger
	tracer trace.Tracer

	open  openFunc
	sleep func(ctx context.Context, d time.Duration) error

	mu      sync.RWMutex
	db      *sqlx.DB
	onReady func(ready bool)

	initMu         sync.Mutex
	reinitializing atomic.Bool
}

func NewPool(cfg config.DatabaseConfig, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("github.com/carterperez-dev/storefront-api/internal/core"),
		open:   openDatabase,
		sleep:  sleepContext,
	}
}

// Initialize (re)establishes the pool, retrying ConnectRetries times with a
// fixed RetryDelay between attempts.
func (p *Pool) Initialize(ctx context.Context) error {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	db, err := p.connectWithRetry(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	old := p.db
	p.db = db
	p.mu.Unlock()

	if old != nil {
		//nolint:errcheck // old pool is being replaced
		_ = old.Close()
	}

	p.logger.Info("database connection established",
		"max_open_conns", p.cfg.MaxOpenConns,
	)

	return nil
}

func (p *Pool) connectWithRetry(ctx context.Context) (*sqlx.DB, error) {
	for attempt := 0; ; attempt++ {
		db, err := p.open(ctx, p.cfg)
		if err == nil {
			return db, nil
		}

		remaining := p.cfg.ConnectRetries - attempt
		if remaining <= 0 {
			return nil, fmt.Errorf(
				"connect to database after %d attempts: %w",
				attempt+1,
				err,
			)
		}

		p.logger.Warn("database connection failed, retrying",
			"error", err,
			"attempts_remaining", remaining,
			"delay", p.cfg.RetryDelay.String(),
		)

		if err := p.sleep(ctx, p.cfg.RetryDelay); err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
	}
}

func (p *Pool) handle(ctx context.Context) (*sqlx.DB, error) {
	p.mu.RLock()
	db := p.db
	p.mu.RUnlock()

	if db != nil {
		return db, nil
	}

	p.initMu.Lock()
	defer p.initMu.Unlock()

	p.mu.RLock()
	db = p.db
	p.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	db, err := p.connectWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.db = db
	p.mu.Unlock()

	return db, nil
}

// Connect checks a connection out of the pool, waiting at most
// ConnectTimeout for a free slot. The caller must Close it.
func (p *Pool) Connect(ctx context.Context) (*sqlx.Conn, error) {
	db, err := p.handle(ctx)
	if err != nil {
		return nil, err
	}

	acquireCtx := ctx
	if p.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, p.cfg.ConnectTimeout)
		defer cancel()
	}

	conn, err := db.Connx(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	return conn, nil
}

func (p *Pool) GetContext(
	ctx context.Context,
	dest any,
	query string,
	args ...any,
) error {
	return p.run(ctx, query, func(ctx context.Context, conn *sqlx.Conn) (int64, error) {
		if err := conn.GetContext(ctx, dest, query, args...); err != nil {
			return 0, err
		}
		return 1, nil
	})
}

func (p *Pool) SelectContext(
	ctx context.Context,
	dest any,
	query string,
	args ...any,
) error {
	return p.run(ctx, query, func(ctx context.Context, conn *sqlx.Conn) (int64, error) {
		if err := conn.SelectContext(ctx, dest, query, args...); err != nil {
			return 0, err
		}
		return sliceLen(dest), nil
	})
}

func (p *Pool) ExecContext(
	ctx context.Context,
	query string,
	args ...any,
) (sql.Result, error) {
	var result sql.Result
	err := p.run(ctx, query, func(ctx context.Context, conn *sqlx.Conn) (int64, error) {
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		result = res
		rows, _ := res.RowsAffected()
		return rows, nil
	})
	return result, err
}

func (p *Pool) run(
	ctx context.Context,
	query string,
	exec func(ctx context.Context, conn *sqlx.Conn) (int64, error),
) error {
	statement := compactQuery(query)

	ctx, span := p.tracer.Start(ctx, "db.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", statement),
		),
	)
	defer span.End()

	start := time.Now()

	conn, err := p.Connect(ctx)
	if err != nil {
		p.fail(span, statement, err)
		metrics.ObserveQuery(time.Since(start), err)
		return err
	}
	//nolint:errcheck // returning the connection to the pool
	defer conn.Close()

	rows, err := exec(ctx, conn)
	duration := time.Since(start)
	metrics.ObserveQuery(duration, err)

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			p.fail(span, statement, err)
		}
		return err
	}

	span.SetAttributes(attribute.Int64("db.rows", rows))

	if p.cfg.LogQueries {
		p.logger.InfoContext(ctx, "executed query",
			"query", statement,
			"duration_ms", duration.Milliseconds(),
			"rows", rows,
		)
	}

	return nil
}

func (p *Pool) fail(span trace.Span, statement string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "query failed")

	p.logger.Error("query error",
		"query", statement,
		"error", err,
	)

	if isConnectionError(err) {
		p.reinitializeAsync()
	}
}

// OnReadyChange registers fn to be told when a background rebuild starts
// (false) and when it succeeds (true).
func (p *Pool) OnReadyChange(fn func(ready bool)) {
	p.mu.Lock()
	p.onReady = fn
	p.mu.Unlock()
}

func (p *Pool) notifyReady(ready bool) {
	p.mu.RLock()
	fn := p.onReady
	p.mu.RUnlock()

	if fn != nil {
		fn(ready)
	}
}

func (p *Pool) reinitializeAsync() {
	if !p.reinitializing.CompareAndSwap(false, true) {
		return
	}

	p.notifyReady(false)

	go func() {
		defer p.reinitializing.Store(false)

		p.logger.Warn("database connection lost, reinitializing pool")
		if err := p.Initialize(context.Background()); err != nil {
			p.logger.Error("pool reinitialization failed", "error", err)
			return
		}
		p.notifyReady(true)
	}()
}

// InTx runs fn inside a transaction on the pool.
func (p *Pool) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	db, err := p.handle(ctx)
	if err != nil {
		return err
	}
	return InTx(ctx, db, nil, fn)
}

func (p *Pool) Ping(ctx context.Context) error {
	db, err := p.handle(ctx)
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Now returns the database server clock.
func (p *Pool) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := p.GetContext(ctx, &now, "SELECT NOW()"); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

func (p *Pool) Stats() sql.DBStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.db == nil {
		return sql.DBStats{}
	}
	return p.db.Stats()
}

func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	return err
}

func InTx(
	ctx context.Context,
	db *sqlx.DB,
	opts *sql.TxOptions,
	fn func(tx *sqlx.Tx) error,
) error {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback() //nolint:errcheck // best-effort rollback on panic
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(jitteredDuration(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() //nolint:errcheck // cleanup on connection failure
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func sliceLen(dest any) int64 {
	v := reflect.Indirect(reflect.ValueOf(dest))
	if v.Kind() == reflect.Slice {
		return int64(v.Len())
	}
	return 0
}

func compactQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func jitteredDuration(base time.Duration) time.Duration {
	if base/7 <= 0 {
		return base
	}
	//nolint:gosec // G404: non-security-sensitive jitter for connection pool
	jitter := time.Duration(rand.Int64N(int64(base / 7)))
	return base + jitter
}
