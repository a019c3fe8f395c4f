package service

import (
	"context"
	"time"

	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
)

const checkoutSuccessMessage = "Order placed successfully!"

// CheckoutResult is delivered once the settlement step completes.
type CheckoutResult struct {
	OrderID string
	Status  domain.CheckoutStatus
}

// Checkout validates the cart, snapshots it into an order draft and starts
// the asynchronous settlement step. Precondition failures are returned
// synchronously and leave cart and status untouched. On acceptance the status
// moves to processing and the returned channel delivers the final result;
// there is no user cancellation once processing has begun.
//
// Checkout is single-flight per cart: a second call while a settlement is in
// flight is rejected with ErrCheckoutInProgress and produces no second
// submission.
func (c *Cart) Checkout(ctx context.Context, userID string) (<-chan CheckoutResult, error) {
	c.mu.Lock()

	if len(c.lines) == 0 {
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}
	for _, line := range c.lines {
		if line.Quantity == 0 {
			// A line waiting out its grace period must not end up in an
			// order; the user either revives it or lets it expire first.
			c.mu.Unlock()
			return nil, ErrZeroQuantityLine
		}
	}
	if c.status.State == domain.CheckoutProcessing {
		c.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}

	c.status = domain.CheckoutStatus{State: domain.CheckoutProcessing}
	draft := c.snapshotDraft(userID)
	c.mu.Unlock()

	done := make(chan CheckoutResult, 1)
	go c.settle(ctx, draft, done)
	return done, nil
}

// snapshotDraft copies every line by value at this instant. Caller holds mu.
func (c *Cart) snapshotDraft(userID string) domain.OrderDraft {
	items := make([]domain.OrderItem, len(c.lines))
	var total float64
	for i, line := range c.lines {
		items[i] = domain.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		}
		total += items[i].Total()
	}
	return domain.OrderDraft{
		UserID:    userID,
		Items:     items,
		Total:     total,
		CreatedAt: c.clock.Now(),
	}
}

// settle waits out the fixed settlement delay and hands the draft to the
// order sink. The delay itself never fails; only the sink can reject. On
// rejection the cart is left as it was so the user can retry without losing
// their selection.
func (c *Cart) settle(ctx context.Context, draft domain.OrderDraft, done chan<- CheckoutResult) {
	if c.settleDelay > 0 {
		timer := time.NewTimer(c.settleDelay)
		<-timer.C
	}

	orderID, err := c.sink.Submit(ctx, draft)

	c.mu.Lock()
	if err != nil {
		c.status = domain.CheckoutStatus{
			State:   domain.CheckoutFailed,
			Message: err.Error(),
		}
	} else {
		c.clearLines()
		c.status = domain.CheckoutStatus{
			State:   domain.CheckoutSucceeded,
			Message: checkoutSuccessMessage,
		}
	}
	status := c.status
	c.mu.Unlock()

	done <- CheckoutResult{OrderID: orderID, Status: status}
}
