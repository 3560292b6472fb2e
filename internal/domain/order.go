package domain

import "time"

// PlaceholderImage is served for items whose product images went missing
// between adding to cart and checkout.
const PlaceholderImage = "/assets/img/placeholder.png"

// CartLineItem is the read-only snapshot of a cart line taken into an
// order at checkout time.
type CartLineItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	UnitPrice   int64  `json:"unit_price"`
	ImageURL    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
}

type Order struct {
	Code      string          `json:"code"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Shipping  ShippingDetails `json:"shipping"`
	Items     []CartLineItem  `json:"items"`
	Subtotal  int64           `json:"subtotal"`
	Discount  int64           `json:"discount"`
	Tax       int64           `json:"tax"`
	Total     int64           `json:"total"`
	Status    OrderStatus     `json:"status"`
}
