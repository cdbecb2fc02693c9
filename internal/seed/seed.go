// AngelaMos | 2026
// seed.go

// Package seed replaces the database contents with a demo catalog, two
// users and one order each.
package seed

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/order"
)

type Hasher interface {
	Hash(password string) (string, error)
}

// TxRunner runs fn inside one transaction. *core.Pool satisfies it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type Summary struct {
	Users         int `json:"users"`
	Products      int `json:"products"`
	Accessories   int `json:"accessories"`
	Orders        int `json:"orders"`
	OrderProducts int `json:"order_products"`
}

// Run truncates every table and inserts the demo data atomically. Every
// demo user gets password.
func Run(ctx context.Context, db TxRunner, hasher Hasher, password string) (Summary, error) {
	digest, err := hasher.Hash(password)
	if err != nil {
		return Summary{}, fmt.Errorf("hash demo password: %w", err)
	}

	var summary Summary
	err = db.InTx(ctx, func(tx *sqlx.Tx) error {
		result, popErr := populate(ctx, tx, digest)
		summary = result
		return popErr
	})
	if err != nil {
		return Summary{}, err
	}

	return summary, nil
}

func populate(ctx context.Context, tx core.DBTX, digest string) (Summary, error) {
	var s Summary

	_, err := tx.ExecContext(ctx, `
		TRUNCATE TABLE order_products, orders, product_accessories, products, users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return s, core.DBError("truncate", err)
	}

	users := make(map[string]int64, len(demoUsers))
	for _, u := range demoUsers {
		var id int64
		err := tx.GetContext(ctx, &id, `
			INSERT INTO users (first_name, last_name, email, password_digest)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			u.FirstName, u.LastName, u.Email, digest)
		if err != nil {
			return s, core.DBError("seed user", err)
		}
		users[u.Email] = id
		s.Users++
	}

	products := make(map[string]int64, len(catalog))
	for _, item := range catalog {
		included := make([]string, 0, len(item.Includes))
		for _, a := range item.Includes {
			included = append(included, fmt.Sprintf("%dx %s", a.Quantity, a.Item))
		}

		var id int64
		err := tx.GetContext(ctx, &id, `
			INSERT INTO products (
				product_name, price, category, product_desc,
				image_name, product_features, product_accessories
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			item.Name, item.Price, item.Category, item.Description,
			item.ImageName, pq.StringArray(item.Features), pq.StringArray(included))
		if err != nil {
			return s, core.DBError("seed product", err)
		}
		products[item.Name] = id
		s.Products++

		for _, a := range item.Includes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO product_accessories (product_id, item_name, quantity)
				VALUES ($1, $2, $3)`,
				id, a.Item, a.Quantity)
			if err != nil {
				return s, core.DBError("seed accessory", err)
			}
			s.Accessories++
		}
	}

	orders := []struct {
		email  string
		status string
		lines  map[string]int
	}{
		{"john.doe@example.com", order.StatusActive, map[string]int{"XX99 Mark II Headphones": 2}},
		{"jane.smith@example.com", order.StatusComplete, map[string]int{"ZX9 Speaker": 1, "YX1 Wireless Earphones": 1}},
	}

	for _, o := range orders {
		var orderID int64
		err := tx.GetContext(ctx, &orderID, `
			INSERT INTO orders (user_id, status)
			VALUES ($1, $2)
			RETURNING id`,
			users[o.email], o.status)
		if err != nil {
			return s, core.DBError("seed order", err)
		}
		s.Orders++

		for _, name := range sortedKeys(o.lines) {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_products (order_id, product_id, quantity)
				VALUES ($1, $2, $3)`,
				orderID, products[name], o.lines[name])
			if err != nil {
				return s, core.DBError("seed order product", err)
			}
			s.OrderProducts++
		}
	}

	return s, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
