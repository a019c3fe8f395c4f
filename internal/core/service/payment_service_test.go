package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"
)

func newTestPaymentService() *PaymentService {
	return NewPaymentService(
		WithPaymentDelay(0),
		WithPaymentRand(rand.New(rand.NewSource(42))),
	)
}

func TestPay_MissingPhoneNumber(t *testing.T) {
	svc := newTestPaymentService()

	_, err := svc.Pay(context.Background(), ProviderMTN, "  ", 1000)
	if !errors.Is(err, ErrMissingPhoneNumber) {
		t.Errorf("expected ErrMissingPhoneNumber, got: %v", err)
	}
}

func TestPay_InvalidAmount(t *testing.T) {
	svc := newTestPaymentService()

	_, err := svc.Pay(context.Background(), ProviderAirtel, "0772000001", 0)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got: %v", err)
	}
}

func TestPay_UnknownProvider(t *testing.T) {
	svc := newTestPaymentService()

	_, err := svc.Pay(context.Background(), PaymentProvider("Cash"), "0772000001", 1000)
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got: %v", err)
	}
}

func TestPay_OutcomesAreConsistent(t *testing.T) {
	svc := newTestPaymentService()

	sawSuccess, sawFailure := false, false
	for i := 0; i < 100; i++ {
		result, err := svc.Pay(context.Background(), ProviderMTN, "0772000001", 2500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Success {
			sawSuccess = true
			if result.TransactionID == "" {
				t.Error("successful payment missing transaction id")
			}
		} else {
			sawFailure = true
			if result.TransactionID != "" {
				t.Error("failed payment carries a transaction id")
			}
			if result.Message == "" {
				t.Error("failed payment missing message")
			}
		}
		if result.Provider != ProviderMTN {
			t.Errorf("expected provider echoed back, got %s", result.Provider)
		}
	}

	if !sawSuccess || !sawFailure {
		t.Errorf("expected both outcomes across 100 payments, success=%v failure=%v", sawSuccess, sawFailure)
	}
}

func TestPay_CanceledContext(t *testing.T) {
	svc := NewPaymentService(WithPaymentDelay(time.Hour), WithPaymentRand(rand.New(rand.NewSource(1))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Pay(ctx, ProviderMTN, "0772000001", 1000)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}
