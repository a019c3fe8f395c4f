package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MarcsHandy/AfriFresh/internal/clock"
	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
	"github.com/MarcsHandy/AfriFresh/internal/port"
)

var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrZeroQuantityLine   = errors.New("cart has lines awaiting removal")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

const (
	defaultGracePeriod = 3 * time.Second
	defaultSettleDelay = 1 * time.Second
)

// Cart owns one user session's line items, the deferred-removal timers for
// zero-quantity lines and the checkout state machine. Every mutation,
// including timer expiry effects and checkout completion, serializes on mu.
type Cart struct {
	mu        sync.Mutex
	lines     []*domain.CartLine
	byProduct map[string]*domain.CartLine
	byLine    map[string]*domain.CartLine
	pending   map[string]*pendingRemoval
	status    domain.CheckoutStatus

	sink        port.OrderSink
	clock       clock.Clock
	gracePeriod time.Duration
	settleDelay time.Duration
}

type CartOption func(*Cart)

// WithGracePeriod overrides the window between a line reaching quantity 0 and
// its removal.
func WithGracePeriod(d time.Duration) CartOption {
	return func(c *Cart) {
		if d > 0 {
			c.gracePeriod = d
		}
	}
}

// WithSettleDelay overrides the simulated settlement delay during checkout.
func WithSettleDelay(d time.Duration) CartOption {
	return func(c *Cart) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

func NewCart(sink port.OrderSink, clk clock.Clock, opts ...CartOption) *Cart {
	c := &Cart{
		byProduct:   make(map[string]*domain.CartLine),
		byLine:      make(map[string]*domain.CartLine),
		pending:     make(map[string]*pendingRemoval),
		status:      domain.CheckoutStatus{State: domain.CheckoutIdle},
		sink:        sink,
		clock:       clk,
		gracePeriod: defaultGracePeriod,
		settleDelay: defaultSettleDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add increments the existing line for the product or creates a new one at
// quantity 1. Adding an item that is mid-grace-period revives it.
func (c *Cart) Add(product domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.byProduct[product.ID]; ok {
		line.Quantity++
		c.cancelRemoval(line.ID)
		return
	}

	line := &domain.CartLine{
		ID:       uuid.NewString(),
		Product:  product,
		Quantity: 1,
	}
	c.lines = append(c.lines, line)
	c.byProduct[product.ID] = line
	c.byLine[line.ID] = line
}

// Decrement lowers the product's quantity by one. Reaching 0 this way removes
// the line immediately, without a grace period: decrementing to nothing is an
// explicit removal, not an accidental one. No-op if the product has no line.
func (c *Cart) Decrement(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.byProduct[productID]
	if !ok {
		return
	}
	if line.Quantity > 1 {
		line.Quantity--
		return
	}
	c.removeLine(line)
}

// SetQuantity sets a line's quantity directly. Quantity 0 keeps the line and
// arms a deferred removal; any positive quantity cancels a pending removal.
// A lineID that no longer resolves is silently ignored: the line may have
// already expired and callers must tolerate stale identifiers.
func (c *Cart) SetQuantity(lineID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.byLine[lineID]
	if !ok {
		return nil
	}

	line.Quantity = quantity
	if quantity == 0 {
		c.armRemoval(lineID, c.gracePeriod)
	} else {
		c.cancelRemoval(lineID)
	}
	return nil
}

// RemoveLine deletes a line immediately, bypassing any grace period.
func (c *Cart) RemoveLine(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.byLine[lineID]; ok {
		c.removeLine(line)
	}
}

// RemoveAllOfProduct deletes the line for a product id if present.
func (c *Cart) RemoveAllOfProduct(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.byProduct[productID]; ok {
		c.removeLine(line)
	}
}

// Clear removes all lines, cancels every pending removal and resets the
// checkout status to idle.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLines()
	c.status = domain.CheckoutStatus{State: domain.CheckoutIdle}
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]domain.CartLine, len(c.lines))
	for i, line := range c.lines {
		lines[i] = *line
	}
	return lines
}

// TotalPrice sums quantity times unit price across all lines. Lines waiting
// out their grace period sit at quantity 0 and contribute nothing.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.lines {
		total += line.TotalPrice()
	}
	return total
}

// Status returns the current checkout status.
func (c *Cart) Status() domain.CheckoutStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// removeLine deletes a line and cancels its pending removal. Caller holds mu.
func (c *Cart) removeLine(line *domain.CartLine) {
	c.cancelRemoval(line.ID)
	delete(c.byProduct, line.Product.ID)
	delete(c.byLine, line.ID)
	for i, l := range c.lines {
		if l == line {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
}

// clearLines drops every line and pending timer, leaving status untouched.
// Caller holds mu.
func (c *Cart) clearLines() {
	c.cancelAllRemovals()
	c.lines = nil
	c.byProduct = make(map[string]*domain.CartLine)
	c.byLine = make(map[string]*domain.CartLine)
}
