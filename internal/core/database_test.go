// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func newTestPool(cfg config.DatabaseConfig, open openFunc) (*Pool, *int32) {
	var sleeps int32
	p := NewPool(cfg, quietLogger())
	p.open = open
	p.sleep = func(context.Context, time.Duration) error {
		atomic.AddInt32(&sleeps, 1)
		return nil
	}
	return p, &sleeps
}

func TestPoolInitializeRetriesThenSucceeds(t *testing.T) {
	db, _ := newMockDB(t)

	var attempts int32
	open := func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return nil, errors.New("connection refused")
		}
		return db, nil
	}

	p, sleeps := newTestPool(config.DatabaseConfig{
		ConnectRetries: 5,
		RetryDelay:     5 * time.Second,
	}, open)

	require.NoError(t, p.Initialize(context.Background()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, int32(2), atomic.LoadInt32(sleeps))
}

func TestPoolInitializeGivesUpAfterRetries(t *testing.T) {
	var attempts int32
	open := func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, errors.New("connection refused")
	}

	p, sleeps := newTestPool(config.DatabaseConfig{ConnectRetries: 5}, open)

	err := p.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 6 attempts")
	assert.Equal(t, int32(6), atomic.LoadInt32(&attempts))
	assert.Equal(t, int32(5), atomic.LoadInt32(sleeps))
}

func TestPoolInitializeStopsOnContextCancel(t *testing.T) {
	open := func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		return nil, errors.New("connection refused")
	}

	p := NewPool(config.DatabaseConfig{
		ConnectRetries: 5,
		RetryDelay:     time.Hour,
	}, quietLogger())
	p.open = open

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Initialize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolLazilyInitializesOnFirstQuery(t *testing.T) {
	db, mock := newMockDB(t)

	var opened int32
	open := func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		atomic.AddInt32(&opened, 1)
		return db, nil
	}

	p, _ := newTestPool(config.DatabaseConfig{}, open)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT NOW\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(now))
	mock.ExpectQuery(`SELECT NOW\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(now))

	got, err := p.Now(context.Background())
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	_, err = p.Now(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&opened))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolQueryErrorPropagatesUnchanged(t *testing.T) {
	db, mock := newMockDB(t)
	p, _ := newTestPool(config.DatabaseConfig{}, func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		return db, nil
	})

	queryErr := errors.New("syntax error at or near")
	mock.ExpectExec(`DELETE FROM products`).WillReturnError(queryErr)

	_, err := p.ExecContext(context.Background(), "DELETE FROM products WHERE id = $1", 1)
	assert.ErrorIs(t, err, queryErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolSelectAndExec(t *testing.T) {
	db, mock := newMockDB(t)
	p, _ := newTestPool(config.DatabaseConfig{LogQueries: true}, func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		return db, nil
	})

	mock.ExpectQuery(`SELECT id FROM products`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectExec(`UPDATE products`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	var ids []int64
	require.NoError(t, p.SelectContext(context.Background(), &ids, "SELECT id FROM products"))
	assert.Equal(t, []int64{1, 2}, ids)

	res, err := p.ExecContext(context.Background(), "UPDATE products SET price = price")
	require.NoError(t, err)
	rows, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolReinitializesAfterConnectionError(t *testing.T) {
	first, firstMock := newMockDB(t)
	second, _ := newMockDB(t)

	var opened int32
	open := func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		if atomic.AddInt32(&opened, 1) == 1 {
			return first, nil
		}
		return second, nil
	}

	p, _ := newTestPool(config.DatabaseConfig{}, open)

	var states []bool
	var statesMu sync.Mutex
	p.OnReadyChange(func(ready bool) {
		statesMu.Lock()
		states = append(states, ready)
		statesMu.Unlock()
	})

	connErr := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}
	firstMock.ExpectExec(`SELECT 1`).WillReturnError(connErr)

	_, err := p.ExecContext(context.Background(), "SELECT 1")
	require.Error(t, err)

	require.Eventually(t, func() bool {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.db == second
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&opened))

	require.Eventually(t, func() bool {
		statesMu.Lock()
		defer statesMu.Unlock()
		return len(states) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []bool{false, true}, states)
}

func TestInTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO products`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	fnErr := errors.New("second insert failed")
	err := InTx(context.Background(), db, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(context.Background(), "INSERT INTO products DEFAULT VALUES"); err != nil {
			return err
		}
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxCommits(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO products`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := InTx(context.Background(), db, nil, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(context.Background(), "INSERT INTO products DEFAULT VALUES")
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompactQuery(t *testing.T) {
	assert.Equal(t,
		"SELECT id FROM users WHERE id = $1",
		compactQuery("\n\t\tSELECT id\n\t\tFROM users\n\t\tWHERE id = $1"),
	)
}
