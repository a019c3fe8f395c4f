package service

import (
	"sync"

	"github.com/MarcsHandy/AfriFresh/internal/clock"
	"github.com/MarcsHandy/AfriFresh/internal/port"
)

// CartManager hands out one cart per user session. Carts for different users
// share nothing mutable and run fully independently.
type CartManager struct {
	mu    sync.Mutex
	carts map[string]*Cart

	sink  port.OrderSink
	clock clock.Clock
	opts  []CartOption
}

func NewCartManager(sink port.OrderSink, clk clock.Clock, opts ...CartOption) *CartManager {
	return &CartManager{
		carts: make(map[string]*Cart),
		sink:  sink,
		clock: clk,
		opts:  opts,
	}
}

// Cart returns the user's cart, creating it on first use.
func (m *CartManager) Cart(userID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[userID]
	if !ok {
		cart = NewCart(m.sink, m.clock, m.opts...)
		m.carts[userID] = cart
	}
	return cart
}
