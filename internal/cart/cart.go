package cart

import (
	"time"

	"github.com/levelup-gamer/checkout/internal/domain"
)

type Cart struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Items     []Item    `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Item carries both a display name and the catalog title because older
// catalog entries only populated one of the two; the snapshot resolves
// whichever is present.
type Item struct {
	ProductID   string    `bson:"product_id" json:"product_id"`
	Name        string    `bson:"name" json:"name"`
	Title       string    `bson:"title,omitempty" json:"title,omitempty"`
	UnitPrice   int64     `bson:"unit_price" json:"unit_price"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	Thumbnail   string    `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	Category    string    `bson:"category" json:"category"`
	Subcategory string    `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
}

// Snapshot converts the live cart into the read-only line items an order is
// built from, resolving missing display data: name falls back to the catalog
// title and then a generic label, image falls back to the thumbnail and then
// the placeholder asset.
func (c *Cart) Snapshot() []domain.CartLineItem {
	items := make([]domain.CartLineItem, len(c.Items))
	for i, item := range c.Items {
		name := item.Name
		if name == "" {
			name = item.Title
		}
		if name == "" {
			name = "Product"
		}

		image := item.Image
		if image == "" {
			image = item.Thumbnail
		}
		if image == "" {
			image = domain.PlaceholderImage
		}

		items[i] = domain.CartLineItem{
			ID:          item.ProductID,
			DisplayName: name,
			UnitPrice:   item.UnitPrice,
			ImageURL:    image,
			Quantity:    item.Quantity,
			Category:    item.Category,
			Subcategory: item.Subcategory,
		}
	}
	return items
}
