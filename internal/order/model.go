package order

import "time"

// Order is immutable once stored. Token is assigned exactly once, at creation.
type Order struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	Items       []Item    `json:"items"`
	PickupPoint *string   `json:"pickupPoint,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Item is copied verbatim from the request; the price is not checked
// against the catalog.
type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
	Price     int64  `json:"price"`
}

// Total is the sum of price*qty over the items.
func (o *Order) Total() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.Price * int64(it.Qty)
	}
	return total
}
