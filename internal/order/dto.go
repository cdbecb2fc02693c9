// AngelaMos | 2026
// dto.go

package order

type AddProductRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"   validate:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active complete"`
}

type OrderResponse struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

type OrderProductResponse struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type OrderDetailResponse struct {
	OrderResponse
	Products []OrderProductResponse `json:"products"`
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:     o.ID,
		UserID: o.UserID,
		Status: o.Status,
	}
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}

func ToOrderProductResponse(op *OrderProduct) OrderProductResponse {
	return OrderProductResponse{
		ID:        op.ID,
		OrderID:   op.OrderID,
		ProductID: op.ProductID,
		Quantity:  op.Quantity,
	}
}

func ToOrderDetailResponse(o *Order, products []OrderProduct) OrderDetailResponse {
	lines := make([]OrderProductResponse, 0, len(products))
	for i := range products {
		lines = append(lines, ToOrderProductResponse(&products[i]))
	}
	return OrderDetailResponse{
		OrderResponse: ToOrderResponse(o),
		Products:      lines,
	}
}
