// AngelaMos | 2026
// dto.go

package product

import (
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"product_name"                  validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"                         validate:"required,price"`
	Category    string          `json:"category"                      validate:"required,oneof=headphones speakers earphones"`
	Description *string         `json:"product_desc,omitempty"`
	ImageName   string          `json:"image_name"                    validate:"required,max=255"`
	Features    []string        `json:"product_features,omitempty"    validate:"omitempty,dive,max=255"`
	Accessories []string        `json:"product_accessories,omitempty" validate:"omitempty,dive,max=255"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"product_name,omitempty"        validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price,omitempty"               validate:"omitempty,price"`
	Category    *string          `json:"category,omitempty"            validate:"omitempty,oneof=headphones speakers earphones"`
	Description *string          `json:"product_desc,omitempty"`
	ImageName   *string          `json:"image_name,omitempty"          validate:"omitempty,min=1,max=255"`
	Features    []string         `json:"product_features,omitempty"    validate:"omitempty,dive,max=255"`
	Accessories []string         `json:"product_accessories,omitempty" validate:"omitempty,dive,max=255"`
}

type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description *string         `json:"product_desc"`
	ImageName   string          `json:"image_name"`
	Features    []string        `json:"product_features"`
	Accessories []string        `json:"product_accessories"`
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		ImageName:   p.ImageName,
		Features:    []string(p.Features),
		Accessories: []string(p.Accessories),
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}

func (r CreateProductRequest) toProduct() *Product {
	return &Product{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		ImageName:   r.ImageName,
		Features:    stringArray(r.Features),
		Accessories: stringArray(r.Accessories),
	}
}

func (r UpdateProductRequest) changes() Changes {
	return Changes{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		ImageName:   r.ImageName,
		Features:    r.Features,
		Accessories: r.Accessories,
	}
}
