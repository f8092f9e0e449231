// AngelaMos | 2026
// entity.go

package order

import "time"

// Order is a completed checkout. Total is the gateway's captured
// amount in minor currency units, not a recomputation of lines.
type Order struct {
	ID        string    `db:"id" json:"id"`
	Total     int64     `db:"total" json:"total"`
	ChargeID  string    `db:"charge_id" json:"chargeId"`
	UserID    string    `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Items []*OrderItem `db:"-" json:"items"`
}

// OrderItem is a point-in-time snapshot of a purchased listing. It
// carries no reference to the live item, so later edits or deletions
// of the catalog never rewrite purchase history.
type OrderItem struct {
	ID          string `db:"id" json:"id"`
	OrderID     string `db:"order_id" json:"-"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Image       string `db:"image" json:"image"`
	Price       int64  `db:"price" json:"price"`
	Quantity    int    `db:"quantity" json:"quantity"`
}
