// AngelaMos | 2026
// entity.go

package item

import "time"

// Item is a storefront listing. Price is stored in minor
// currency units (cents) so totals never touch floats.
type Item struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Image       string    `db:"image" json:"image"`
	LargeImage  string    `db:"large_image" json:"largeImage"`
	Price       int64     `db:"price" json:"price"`
	UserID      string    `db:"user_id" json:"userId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
