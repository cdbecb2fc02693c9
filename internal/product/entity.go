// AngelaMos | 2026
// entity.go

package product

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	CategoryHeadphones = "headphones"
	CategorySpeakers   = "speakers"
	CategoryEarphones  = "earphones"
)

var categories = map[string]struct{}{
	CategoryHeadphones: {},
	CategorySpeakers:   {},
	CategoryEarphones:  {},
}

func IsCategory(s string) bool {
	_, ok := categories[s]
	return ok
}

type Product struct {
	ID          int64           `db:"id"`
	Name        string          `db:"product_name"`
	Price       decimal.Decimal `db:"price"`
	Category    string          `db:"category"`
	Description *string         `db:"product_desc"`
	ImageName   string          `db:"image_name"`
	Features    pq.StringArray  `db:"product_features"`
	Accessories pq.StringArray  `db:"product_accessories"`
}

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Description *string
	ImageName   *string
	Features    []string
	Accessories []string
}

func (c Changes) IsEmpty() bool {
	return c.Name == nil &&
		c.Price == nil &&
		c.Category == nil &&
		c.Description == nil &&
		c.ImageName == nil &&
		c.Features == nil &&
		c.Accessories == nil
}

// stringArray stores empty lists as NULL.
func stringArray(values []string) pq.StringArray {
	if len(values) == 0 {
		return nil
	}
	return pq.StringArray(values)
}
