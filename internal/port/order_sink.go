package port

import (
	"context"

	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
)

type OrderSink interface {
	// Submit appends a new order built from the draft and returns its id.
	// A returned error means the draft was rejected and nothing was recorded.
	Submit(ctx context.Context, draft domain.OrderDraft) (string, error)
}

type OrderHistory interface {
	// OrdersByUser lists a user's orders, most recent first.
	OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
