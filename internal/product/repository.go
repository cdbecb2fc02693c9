// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

const productColumns = `id, product_name, price, category, product_desc,
	image_name, product_features, product_accessories`

const popularLimit = 5

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, id int64, changes Changes) (*Product, error)
	Delete(ctx context.Context, id int64) error
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Popular(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, core.DBError("list products", err)
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product Product
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.DBError("get product", err)
	}

	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (
			product_name, price, category, product_desc,
			image_name, product_features, product_accessories
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.GetContext(ctx, &product.ID, query,
		product.Name,
		product.Price,
		product.Category,
		product.Description,
		product.ImageName,
		product.Features,
		product.Accessories,
	)
	if err != nil {
		return core.DBError("create product", err)
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	changes Changes,
) (*Product, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if changes.Name != nil {
		add("product_name", *changes.Name)
	}
	if changes.Price != nil {
		add("price", *changes.Price)
	}
	if changes.Category != nil {
		add("category", *changes.Category)
	}
	if changes.Description != nil {
		add("product_desc", *changes.Description)
	}
	if changes.ImageName != nil {
		add("image_name", *changes.ImageName)
	}
	if changes.Features != nil {
		add("product_features", stringArray(changes.Features))
	}
	if changes.Accessories != nil {
		add("product_accessories", stringArray(changes.Accessories))
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("update product: %w", core.Invalid("no valid updates provided"))
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d
		RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)

	var product Product
	err := r.db.GetContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.DBError("update product", err)
	}

	return &product, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return core.DBError("delete product", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.DBError("delete product", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

// ListByCategory returns an empty list for values outside the category
// enum without querying.
func (r *repository) ListByCategory(
	ctx context.Context,
	category string,
) ([]Product, error) {
	products := []Product{}
	if !IsCategory(category) {
		return products, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &products, query, category); err != nil {
		return nil, core.DBError("list products by category", err)
	}

	return products, nil
}

type popularRow struct {
	Product
	TotalSold int64 `db:"total_sold"`
}

// Popular ranks products by total ordered quantity. Products never ordered
// still qualify with a total of zero.
func (r *repository) Popular(ctx context.Context) ([]Product, error) {
	query := `
		SELECT
			p.id, p.product_name, p.price, p.category, p.product_desc,
			p.image_name, p.product_features, p.product_accessories,
			COALESCE(SUM(op.quantity), 0) AS total_sold
		FROM products p
		LEFT JOIN order_products op ON p.id = op.product_id
		GROUP BY p.id
		ORDER BY total_sold DESC, p.id
		LIMIT $1`

	var rows []popularRow
	if err := r.db.SelectContext(ctx, &rows, query, popularLimit); err != nil {
		return nil, core.DBError("popular products", err)
	}

	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Product)
	}

	return products, nil
}

// Search matches term as a case-insensitive substring of the name,
// description or category. Wildcards in term match literally.
func (r *repository) Search(ctx context.Context, term string) ([]Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_name ILIKE $1
			OR product_desc ILIKE $1
			OR category::text ILIKE $1
		ORDER BY id`

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, "%"+escapeLike(term)+"%"); err != nil {
		return nil, core.DBError("search products", err)
	}

	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
