package domain

const (
	loyaltyDiscountPercent = 20
	taxPercent             = 19
)

// OrderTotals holds the cart money breakdown in whole CLP units.
type OrderTotals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// ComputeOrderTotals prices a line-item list. The loyalty discount is 20% of the
// subtotal, rounded here so every later step sees the same figure. Tax is 19% of
// the discounted base. Negative prices are not validated here.
func ComputeOrderTotals(items []CartLineItem, applyLoyaltyDiscount bool) OrderTotals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	var discount int64
	if applyLoyaltyDiscount {
		discount = roundPercent(subtotal, loyaltyDiscountPercent)
	}
	tax := roundPercent(subtotal-discount, taxPercent)

	return OrderTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}
}

// roundPercent returns percent% of amount, rounded half-up.
func roundPercent(amount, percent int64) int64 {
	return (amount*percent + 50) / 100
}
