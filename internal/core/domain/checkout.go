package domain

type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutSucceeded  CheckoutState = "succeeded"
	CheckoutFailed     CheckoutState = "failed"
)

// CheckoutStatus is the per-cart checkout state machine value. Exactly one
// attempt may be processing at a time; clear resets it to idle.
type CheckoutStatus struct {
	State   CheckoutState `json:"state"`
	Message string        `json:"message,omitempty"`
}
