package domain

type CheckoutStep string

const (
	StepShippingForm CheckoutStep = "SHIPPING_FORM"
	StepSummary      CheckoutStep = "SUMMARY"
	StepPayment      CheckoutStep = "PAYMENT"
	StepFastCheckout CheckoutStep = "FAST_CHECKOUT"
	StepProcessing   CheckoutStep = "PROCESSING"
	StepSucceeded    CheckoutStep = "SUCCEEDED"
	StepFailed       CheckoutStep = "FAILED"
)

func (s CheckoutStep) IsTerminal() bool {
	return s == StepSucceeded
}

func (s CheckoutStep) String() string {
	return string(s)
}

var checkoutStepTransitions = map[CheckoutStep][]CheckoutStep{
	StepShippingForm: {StepSummary},
	StepSummary:      {StepPayment},
	StepPayment:      {StepProcessing},
	StepFastCheckout: {StepProcessing},
	StepProcessing:   {StepSucceeded, StepFailed},
	// Retry re-enters the payment step with the prior card data pre-filled.
	StepFailed: {StepPayment},
}

func (s CheckoutStep) CanTransitionTo(next CheckoutStep) bool {
	for _, allowed := range checkoutStepTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckoutMemory is the single persisted record of in-progress checkout data.
// It is overwritten wholesale on each save and treated as absent once SavedAt
// is more than 24 hours old.
type CheckoutMemory struct {
	Shipping *ShippingDetails  `json:"shipping,omitempty"`
	Payment  *PaymentReference `json:"payment,omitempty"`
	LastStep CheckoutStep      `json:"last_step,omitempty"`
	SavedAt  int64             `json:"saved_at"` // epoch millis
}

// Empty reports whether the record carries no shopper data at all.
func (m CheckoutMemory) Empty() bool {
	return m.Shipping == nil && m.Payment == nil && m.LastStep == ""
}

// ShippingComplete is nil-safe completeness for the stored shipping details.
func (m CheckoutMemory) ShippingComplete() bool {
	return m.Shipping != nil && m.Shipping.Complete()
}

// PaymentComplete is nil-safe completeness for the stored payment reference.
func (m CheckoutMemory) PaymentComplete() bool {
	return m.Payment != nil && m.Payment.Complete()
}
