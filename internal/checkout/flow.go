package checkout

import (
	"sync"
	"time"

	"github.com/levelup-gamer/checkout/internal/domain"
)

// Flow is one shopper's in-flight checkout attempt. It lives in the registry
// from entry until success or abandonment; its cart snapshot and totals are
// fixed at entry so the displayed total never drifts between steps.
//
// The registry hands out the same pointer to every request for the shopper,
// so all field access goes through mu. Service methods hold the lock for the
// whole operation; a concurrent second request for the same shopper blocks
// and then fails its step transition instead of double-processing.
type Flow struct {
	mu sync.Mutex

	UserID   string
	Step     domain.CheckoutStep
	Items    []domain.CartLineItem
	Loyalty  bool
	Totals   domain.OrderTotals
	Shipping *domain.ShippingDetails
	Payment  *domain.PaymentReference

	// Set while processing and in the terminal states.
	Order         *domain.Order
	TransactionID string
	ErrorMessage  string

	// FastPath marks flows entered through one-click checkout; only those
	// clear the checkout memory on success by default.
	FastPath  bool
	UpdatedAt time.Time
}

// advance moves the flow to the next step. Callers hold f.mu.
func (f *Flow) advance(next domain.CheckoutStep) error {
	if !f.Step.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	f.Step = next
	f.UpdatedAt = time.Now()
	return nil
}

// snapshot copies the flow for callers to read after the lock is released.
// Callers hold f.mu. Items, Shipping and Payment are set once and never
// mutated in place, so sharing them is safe; Order is mutated during
// processing and gets its own copy.
func (f *Flow) snapshot() *Flow {
	s := &Flow{
		UserID:        f.UserID,
		Step:          f.Step,
		Items:         f.Items,
		Loyalty:       f.Loyalty,
		Totals:        f.Totals,
		Shipping:      f.Shipping,
		Payment:       f.Payment,
		TransactionID: f.TransactionID,
		ErrorMessage:  f.ErrorMessage,
		FastPath:      f.FastPath,
		UpdatedAt:     f.UpdatedAt,
	}
	if f.Order != nil {
		order := *f.Order
		s.Order = &order
	}
	return s
}
