// AngelaMos | 2026
// entity.go

package user

import (
	"encoding/json"
	"fmt"
)

type User struct {
	ID             int64  `db:"id"`
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	Email          string `db:"email"`
	PasswordDigest string `db:"password_digest"`
}

// Changes is a partial update. Nil and empty fields are left untouched.
type Changes struct {
	FirstName *string
	LastName  *string
	Email     *string
}

func (c Changes) IsEmpty() bool {
	return isBlank(c.FirstName) && isBlank(c.LastName) && isBlank(c.Email)
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

type RecentOrder struct {
	ID       int64      `db:"id"`
	Status   string     `db:"status"`
	Products OrderLines `db:"products"`
}

type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderLines scans the json_agg column of the recent orders query.
type OrderLines []OrderLine

func (l *OrderLines) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = OrderLines{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan order lines: unsupported type %T", src)
	}

	lines := OrderLines{}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return fmt.Errorf("scan order lines: %w", err)
	}
	*l = lines
	return nil
}
