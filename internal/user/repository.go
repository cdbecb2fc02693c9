// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, id int64, changes Changes) (*User, error)
	PasswordDigest(ctx context.Context, id int64) (string, error)
	UpdatePassword(ctx context.Context, id int64, digest string) error
	Delete(ctx context.Context, id int64) error
	RecentOrders(ctx context.Context, userID int64) ([]RecentOrder, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, first_name, last_name, email
		FROM users
		ORDER BY id`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, core.DBError("list users", err)
	}

	return users, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.DBError("get user", err)
	}

	return &user, nil
}

// GetByEmail is the only read that returns the password digest.
func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_digest
		FROM users
		WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.DBError("get user by email", err)
	}

	return &user, nil
}

// EmailTaken reports whether email belongs to a user other than excludeID.
// Pass 0 to check against every user.
func (r *repository) EmailTaken(
	ctx context.Context,
	email string,
	excludeID int64,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, email, excludeID); err != nil {
		return false, core.DBError("check email", err)
	}

	return taken, nil
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_digest)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.GetContext(ctx, &user.ID, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordDigest,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return core.DBError("create user", err)
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	changes Changes,
) (*User, error) {
	var sets []string
	var args []any

	add := func(column string, value *string) {
		if isBlank(value) {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("first_name", changes.FirstName)
	add("last_name", changes.LastName)
	add("email", changes.Email)

	if len(sets) == 0 {
		return nil, fmt.Errorf("update user: %w", core.Invalid("no valid updates provided"))
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING id, first_name, last_name, email`,
		strings.Join(sets, ", "), len(args))

	var user User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err) {
			return nil, fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return nil, core.DBError("update user", err)
	}

	return &user, nil
}

func (r *repository) PasswordDigest(ctx context.Context, id int64) (string, error) {
	query := `SELECT password_digest FROM users WHERE id = $1`

	var digest string
	err := r.db.GetContext(ctx, &digest, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get password digest: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", core.DBError("get password digest", err)
	}

	return digest, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	digest string,
) error {
	query := `UPDATE users SET password_digest = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, digest, id)
	if err != nil {
		return core.DBError("update password", err)
	}

	return requireAffected("update password", result)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return core.DBError("delete user", err)
	}

	return requireAffected("delete user", result)
}

func (r *repository) RecentOrders(
	ctx context.Context,
	userID int64,
) ([]RecentOrder, error) {
	query := `
		SELECT
			o.id,
			o.status,
			COALESCE(
				json_agg(
					json_build_object('product_id', op.product_id, 'quantity', op.quantity)
					ORDER BY op.product_id
				) FILTER (WHERE op.product_id IS NOT NULL),
				'[]'
			) AS products
		FROM orders o
		LEFT JOIN order_products op ON o.id = op.order_id
		WHERE o.user_id = $1
		GROUP BY o.id, o.status
		ORDER BY o.id DESC
		LIMIT 5`

	orders := []RecentOrder{}
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, core.DBError("recent orders", err)
	}

	return orders, nil
}

func requireAffected(op string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return core.DBError(op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
