package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
	"github.com/MarcsHandy/AfriFresh/internal/port"
)

// MemoryOrderHistory keeps placed orders per user in memory. It doubles as a
// standalone order sink for tests and the stress client.
type MemoryOrderHistory struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Order
}

func NewMemoryOrderHistory() *MemoryOrderHistory {
	return &MemoryOrderHistory{byUser: make(map[string][]domain.Order)}
}

func (h *MemoryOrderHistory) Submit(ctx context.Context, draft domain.OrderDraft) (string, error) {
	order := orderFromDraft(uuid.NewString(), draft)
	h.Append(order)
	return order.ID, nil
}

func (h *MemoryOrderHistory) Append(order domain.Order) {
	h.mu.Lock()
	h.byUser[order.UserID] = append(h.byUser[order.UserID], order)
	h.mu.Unlock()
}

// OrdersByUser returns the user's orders, most recent first.
func (h *MemoryOrderHistory) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stored := h.byUser[userID]
	orders := make([]domain.Order, len(stored))
	for i, o := range stored {
		orders[len(stored)-1-i] = o
	}
	return orders, nil
}

// HistorySink decorates a durable sink and mirrors accepted orders into the
// in-memory history so the read surface stays cheap.
type HistorySink struct {
	next    port.OrderSink
	history *MemoryOrderHistory
}

func NewHistorySink(next port.OrderSink, history *MemoryOrderHistory) *HistorySink {
	return &HistorySink{next: next, history: history}
}

func (s *HistorySink) Submit(ctx context.Context, draft domain.OrderDraft) (string, error) {
	orderID, err := s.next.Submit(ctx, draft)
	if err != nil {
		return "", err
	}
	s.history.Append(orderFromDraft(orderID, draft))
	return orderID, nil
}

func orderFromDraft(orderID string, draft domain.OrderDraft) domain.Order {
	items := make([]domain.OrderItem, len(draft.Items))
	copy(items, draft.Items)
	return domain.Order{
		ID:        orderID,
		UserID:    draft.UserID,
		Items:     items,
		Status:    domain.OrderStatusPending,
		CreatedAt: draft.CreatedAt,
		UpdatedAt: draft.CreatedAt,
	}
}
