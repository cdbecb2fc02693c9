// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	Products(ctx context.Context, orderID int64) ([]OrderProduct, error)
	Create(ctx context.Context, userID int64) (*Order, error)
	AddProduct(ctx context.Context, orderID, productID int64, quantity int) (*OrderProduct, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status string) (*Order, error)
	Current(ctx context.Context, userID int64) (*Order, error)
	Completed(ctx context.Context, userID int64) ([]Order, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `SELECT id, user_id, status FROM orders ORDER BY id`)
	if err != nil {
		return nil, core.DBError("list orders", err)
	}

	return orders, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `SELECT id, user_id, status FROM orders WHERE id = $1`

	var order Order
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.DBError("get order", err)
	}

	return &order, nil
}

func (r *repository) Products(ctx context.Context, orderID int64) ([]OrderProduct, error) {
	query := `
		SELECT id, order_id, product_id, quantity
		FROM order_products
		WHERE order_id = $1
		ORDER BY id`

	products := []OrderProduct{}
	if err := r.db.SelectContext(ctx, &products, query, orderID); err != nil {
		return nil, core.DBError("list order products", err)
	}

	return products, nil
}

func (r *repository) Create(ctx context.Context, userID int64) (*Order, error) {
	query := `
		INSERT INTO orders (user_id, status)
		VALUES ($1, $2)
		RETURNING id, user_id, status`

	var order Order
	if err := r.db.GetContext(ctx, &order, query, userID, StatusActive); err != nil {
		if core.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("create order: %w", core.ErrNotFound)
		}
		return nil, core.DBError("create order", err)
	}

	return &order, nil
}

// AddProduct appends a line item. A product that does not exist surfaces
// as ErrNotFound through the foreign key.
func (r *repository) AddProduct(
	ctx context.Context,
	orderID, productID int64,
	quantity int,
) (*OrderProduct, error) {
	query := `
		INSERT INTO order_products (order_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, order_id, product_id, quantity`

	var line OrderProduct
	err := r.db.GetContext(ctx, &line, query, orderID, productID, quantity)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("add product: %w", core.NotFoundError("product"))
		}
		return nil, core.DBError("add product", err)
	}

	return &line, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return core.DBError("delete order", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.DBError("delete order", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete order: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) (*Order, error) {
	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2
		RETURNING id, user_id, status`

	var order Order
	err := r.db.GetContext(ctx, &order, query, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.DBError("update order status", err)
	}

	return &order, nil
}

// Current returns the user's most recent active order.
func (r *repository) Current(ctx context.Context, userID int64) (*Order, error) {
	query := `
		SELECT id, user_id, status
		FROM orders
		WHERE user_id = $1 AND status = $2
		ORDER BY id DESC
		LIMIT 1`

	var order Order
	err := r.db.GetContext(ctx, &order, query, userID, StatusActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("current order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.DBError("current order", err)
	}

	return &order, nil
}

func (r *repository) Completed(ctx context.Context, userID int64) ([]Order, error) {
	query := `
		SELECT id, user_id, status
		FROM orders
		WHERE user_id = $1 AND status = $2
		ORDER BY id DESC`

	orders := []Order{}
	if err := r.db.SelectContext(ctx, &orders, query, userID, StatusComplete); err != nil {
		return nil, core.DBError("completed orders", err)
	}

	return orders, nil
}
