// AngelaMos | 2026
// entity.go

package order

const (
	StatusActive   = "active"
	StatusComplete = "complete"
)

type Order struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Status string `db:"status"`
}

// OrderProduct is one line item. Adding the same product twice yields two
// rows.
type OrderProduct struct {
	ID        int64 `db:"id"`
	OrderID   int64 `db:"order_id"`
	ProductID int64 `db:"product_id"`
	Quantity  int   `db:"quantity"`
}
