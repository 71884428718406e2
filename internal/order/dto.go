package order

// CreateOrderItem is one requested line.
// Qty and Price are pointers so a missing number is told apart from zero.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID string `json:"productId" example:"v1"`
	Qty       *int   `json:"qty"       example:"2"`
	Price     *int64 `json:"price"     example:"25"`
}

// CreateOrderRequest is the order-submission payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items       []CreateOrderItem `json:"items"`
	PickupPoint *string           `json:"pickupPoint,omitempty" example:"LINE point A"`
}

// NewItem builds a well-formed request item.
func NewItem(productID string, qty int, price int64) CreateOrderItem {
	return CreateOrderItem{ProductID: productID, Qty: &qty, Price: &price}
}
