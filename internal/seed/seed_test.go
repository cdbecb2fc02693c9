// AngelaMos | 2026
// seed_test.go

package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/product"
)

type prefixHasher struct{}

func (prefixHasher) Hash(password string) (string, error) { return "digest:" + password, nil }

type mockRunner struct {
	db *sqlx.DB
}

func (r mockRunner) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return core.InTx(ctx, r.db, nil, fn)
}

func newRunner(t *testing.T) (mockRunner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return mockRunner{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func idRow(id int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id)
}

func TestRunPopulatesInOneTransaction(t *testing.T) {
	runner, mock := newRunner(t)

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE TABLE order_products, orders, product_accessories, products, users RESTART IDENTITY CASCADE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	for i, u := range demoUsers {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(u.FirstName, u.LastName, u.Email, "digest:password123").
			WillReturnRows(idRow(i + 1))
	}

	accessories := 0
	for i, item := range catalog {
		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs(item.Name, sqlmock.AnyArg(), item.Category, item.Description,
				item.ImageName, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(idRow(i + 1))
		for range item.Includes {
			mock.ExpectExec(`INSERT INTO product_accessories`).
				WillReturnResult(sqlmock.NewResult(0, 1))
			accessories++
		}
	}

	mock.ExpectQuery(`INSERT INTO orders`).WithArgs(int64(1), "active").WillReturnRows(idRow(1))
	mock.ExpectExec(`INSERT INTO order_products`).
		WithArgs(int64(1), int64(1), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO orders`).WithArgs(int64(2), "complete").WillReturnRows(idRow(2))
	mock.ExpectExec(`INSERT INTO order_products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	summary, err := Run(context.Background(), runner, prefixHasher{}, "password123")
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Users:         len(demoUsers),
		Products:      len(catalog),
		Accessories:   accessories,
		Orders:        2,
		OrderProducts: 3,
	}, summary)
}

func TestRunRollsBackOnFailure(t *testing.T) {
	runner, mock := newRunner(t)

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO users`).WillReturnRows(idRow(1))
	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := Run(context.Background(), runner, prefixHasher{}, "password123")
	require.Error(t, err)
	assert.True(t, core.IsDatabaseError(err))
}

func TestCatalogIsValid(t *testing.T) {
	names := map[string]bool{}
	for _, item := range catalog {
		assert.False(t, names[item.Name], "duplicate %s", item.Name)
		names[item.Name] = true
		assert.True(t, item.Price.IsPositive(), item.Name)
		assert.NotEmpty(t, item.ImageName, item.Name)
		assert.True(t, product.IsCategory(item.Category), item.Name)
	}
}
