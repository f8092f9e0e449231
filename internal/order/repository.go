// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/storefront/internal/core"
)

type Repository interface {
	// CreateWithCleanup persists the order, its item snapshots, and
	// the removal of the captured cart lines in a single transaction.
	// Only the lines whose ids were captured at checkout are deleted;
	// lines added mid-checkout survive for the next purchase.
	CreateWithCleanup(
		ctx context.Context,
		order *Order,
		cartItemIDs []string,
	) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithCleanup(
	ctx context.Context,
	order *Order,
	cartItemIDs []string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, total, charge_id, user_id)
			VALUES ($1, $2, $3, $4)`,
			order.ID, order.Total, order.ChargeID, order.UserID,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if len(order.Items) > 0 {
			_, err = tx.NamedExecContext(ctx, `
				INSERT INTO order_items (
					id, order_id, title, description, image, price, quantity
				) VALUES (
					:id, :order_id, :title, :description, :image,
					:price, :quantity
				)`,
				order.Items,
			)
			if err != nil {
				return fmt.Errorf("insert order items: %w", err)
			}
		}

		if len(cartItemIDs) > 0 {
			query, args, err := sqlx.In(
				`DELETE FROM cart_items WHERE id IN (?)`,
				cartItemIDs,
			)
			if err != nil {
				return fmt.Errorf("build cart cleanup query: %w", err)
			}

			query = tx.Rebind(query)
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("delete purchased cart lines: %w", err)
			}
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	var order Order
	err := r.db.GetContext(ctx, &order, `
		SELECT id, total, charge_id, user_id, created_at
		FROM orders
		WHERE id = $1`, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	order.Items = []*OrderItem{}
	err = r.db.SelectContext(ctx, &order.Items, `
		SELECT id, order_id, title, description, image, price, quantity
		FROM order_items
		WHERE order_id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	return &order, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]*Order, error) {
	orders := []*Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT id, total, charge_id, user_id, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]*Order, len(orders))
	for _, o := range orders {
		o.Items = []*OrderItem{}
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	query, args, err := sqlx.In(`
		SELECT id, order_id, title, description, image, price, quantity
		FROM order_items
		WHERE order_id IN (?)`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("build order items query: %w", err)
	}

	items := []*OrderItem{}
	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}

	return orders, nil
}
