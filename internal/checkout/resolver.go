package checkout

import (
	"github.com/levelup-gamer/checkout/internal/domain"
)

// ResolveStep decides where a shopper resumes the checkout flow, first match
// wins: returning shoppers with complete stored shipping and payment get the
// one-click path; otherwise the first incomplete piece of data picks the step.
func ResolveStep(mem domain.CheckoutMemory, hasPriorOrders bool) domain.CheckoutStep {
	switch {
	case hasPriorOrders && mem.ShippingComplete() && mem.PaymentComplete():
		return domain.StepFastCheckout
	case !mem.ShippingComplete():
		return domain.StepShippingForm
	case !mem.PaymentComplete():
		return domain.StepSummary
	default:
		return domain.StepPayment
	}
}
