// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/storefront/internal/core"
)

type Repository interface {
	// AddToCart increments the line for (userID, itemID) by one,
	// creating it if absent. The upsert is a single statement so
	// concurrent adds never race into duplicate lines.
	AddToCart(ctx context.Context, userID, itemID string) (*CartItem, error)
	GetByID(ctx context.Context, id string) (*CartItem, error)
	Delete(ctx context.Context, id string) error
	ListLines(ctx context.Context, userID string) ([]*Line, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddToCart(
	ctx context.Context,
	userID, itemID string,
) (*CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, item_id, quantity)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, item_id) DO UPDATE
			SET quantity = cart_items.quantity + 1,
			    updated_at = NOW()
		RETURNING id, quantity, item_id, user_id, created_at, updated_at`

	var line CartItem
	err := r.db.GetContext(
		ctx, &line, query,
		uuid.New().String(), userID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}

	return &line, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*CartItem, error) {
	query := `
		SELECT id, quantity, item_id, user_id, created_at, updated_at
		FROM cart_items
		WHERE id = $1`

	var line CartItem
	if err := r.db.GetContext(ctx, &line, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}

	return &line, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx, `DELETE FROM cart_items WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart line rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	return nil
}

func (r *repository) ListLines(
	ctx context.Context,
	userID string,
) ([]*Line, error) {
	query := `
		SELECT
			c.id, c.quantity, c.item_id, c.user_id,
			c.created_at, c.updated_at,
			i.id AS "item.id",
			i.title AS "item.title",
			i.description AS "item.description",
			i.image AS "item.image",
			i.large_image AS "item.large_image",
			i.price AS "item.price",
			i.user_id AS "item.user_id",
			i.created_at AS "item.created_at",
			i.updated_at AS "item.updated_at"
		FROM cart_items c
		JOIN items i ON i.id = c.item_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`

	lines := []*Line{}
	if err := r.db.SelectContext(ctx, &lines, query, userID); err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	return lines, nil
}
