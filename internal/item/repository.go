// AngelaMos | 2026
// repository.go

package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/storefront/internal/core"
)

const itemColumns = `
	id, title, description, image, large_image,
	price, user_id, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListItemsParams) ([]*Item, int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO items (
			id, title, description, image, large_image, price, user_id
		) VALUES (
			:id, :title, :description, :image, :large_image, :price, :user_id
		)
		RETURNING created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
			return fmt.Errorf("scan item timestamps: %w", err)
		}
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id = $1`, itemColumns)

	var item Item
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}

	return &item, nil
}

func (r *repository) Update(ctx context.Context, item *Item) error {
	query := `
		UPDATE items SET
			title = :title,
			description = :description,
			image = :image,
			large_image = :large_image,
			price = :price,
			updated_at = NOW()
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListItemsParams,
) ([]*Item, int, error) {
	where := ""
	args := []any{}

	if params.Search != "" {
		where = `WHERE title ILIKE $1 OR description ILIKE $1`
		args = append(args, "%"+escapeLike(params.Search)+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM items %s`, where)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM items %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		itemColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	items := []*Item{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	return items, total, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
