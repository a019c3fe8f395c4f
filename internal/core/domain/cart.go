package domain

// CartLine is one cart entry for a single product id. At most one line exists
// per product id at any time. Quantity 0 is transient: the line is either
// revived before the grace window elapses or removed when it fires.
type CartLine struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) TotalPrice() float64 {
	return float64(l.Quantity) * l.Product.Price
}
