package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PaymentService simulates mobile money payments (MTN and Airtel). It is
// deliberately separate from checkout settlement, which never randomly
// fails: a simulated payment may.

type PaymentProvider string

const (
	ProviderMTN    PaymentProvider = "MTN Mobile Money"
	ProviderAirtel PaymentProvider = "Airtel Money"
)

var (
	ErrMissingPhoneNumber = errors.New("phone number is required")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrUnknownProvider    = errors.New("unknown payment provider")
)

const defaultPaymentDelay = 2500 * time.Millisecond

type PaymentResult struct {
	Success       bool            `json:"success"`
	Provider      PaymentProvider `json:"provider"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Message       string          `json:"message"`
}

type PaymentService struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay time.Duration
}

type PaymentOption func(*PaymentService)

// WithPaymentDelay overrides the simulated network delay.
func WithPaymentDelay(d time.Duration) PaymentOption {
	return func(s *PaymentService) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithPaymentRand overrides the outcome source (useful for tests).
func WithPaymentRand(rng *rand.Rand) PaymentOption {
	return func(s *PaymentService) {
		s.rng = rng
	}
}

func NewPaymentService(opts ...PaymentOption) *PaymentService {
	s := &PaymentService{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		delay: defaultPaymentDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pay simulates a mobile money charge: it validates the request, waits out a
// network-like delay and flips a coin for the outcome.
func (s *PaymentService) Pay(ctx context.Context, provider PaymentProvider, phoneNumber string, amount float64) (PaymentResult, error) {
	if strings.TrimSpace(phoneNumber) == "" {
		return PaymentResult{}, ErrMissingPhoneNumber
	}
	if amount <= 0 {
		return PaymentResult{}, ErrInvalidAmount
	}
	if provider != ProviderMTN && provider != ProviderAirtel {
		return PaymentResult{}, ErrUnknownProvider
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return PaymentResult{}, ctx.Err()
		}
	}

	s.mu.Lock()
	success := s.rng.Intn(2) == 0
	s.mu.Unlock()

	if !success {
		return PaymentResult{
			Success:  false,
			Provider: provider,
			Message:  "Payment failed. Please try again or use another method.",
		}, nil
	}

	txID := strings.ToUpper(uuid.NewString()[:8])
	return PaymentResult{
		Success:       true,
		Provider:      provider,
		TransactionID: txID,
		Message:       fmt.Sprintf("Payment successful via %s (Ref: %s)", provider, txID),
	}, nil
}
