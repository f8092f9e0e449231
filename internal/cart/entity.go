// AngelaMos | 2026
// entity.go

package cart

import (
	"time"

	"github.com/angelamos/storefront/internal/item"
)

// CartItem is one line in a user's cart: a quantity of a single item.
type CartItem struct {
	ID        string    `db:"id" json:"id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	ItemID    string    `db:"item_id" json:"itemId"`
	UserID    string    `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Line is a cart line joined with its current item listing, as
// served to the cart endpoints and consumed by checkout.
type Line struct {
	CartItem
	Item item.Item `json:"item"`
}
