package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// OrderItem is a by-value snapshot of a cart line taken at checkout time.
// Later catalog or cart mutations never alter a placed order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func (i OrderItem) Total() float64 {
	return float64(i.Quantity) * i.Price
}

// OrderDraft is built by the checkout coordinator once preconditions pass.
// Immutable after creation; ownership transfers to the order sink.
type OrderDraft struct {
	UserID    string
	Items     []OrderItem
	Total     float64
	CreatedAt time.Time
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (o Order) TotalAmount() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Total()
	}
	return total
}
