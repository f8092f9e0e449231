// AngelaMos | 2026
// service_test.go

package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/core"
	itempkg "github.com/angelamos/storefront/internal/item"
)

type mockRepository struct {
	addToCartFunc func(ctx context.Context, userID, itemID string) (*CartItem, error)
	getByIDFunc   func(ctx context.Context, id string) (*CartItem, error)
	deleteFunc    func(ctx context.Context, id string) error
	listLinesFunc func(ctx context.Context, userID string) ([]*Line, error)
}

func (m *mockRepository) AddToCart(ctx context.Context, userID, itemID string) (*CartItem, error) {
	return m.addToCartFunc(ctx, userID, itemID)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*CartItem, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockRepository) ListLines(ctx context.Context, userID string) ([]*Line, error) {
	return m.listLinesFunc(ctx, userID)
}

type mockItems struct {
	getByIDFunc func(ctx context.Context, id string) (*itempkg.Item, error)
}

func (m *mockItems) GetByID(ctx context.Context, id string) (*itempkg.Item, error) {
	return m.getByIDFunc(ctx, id)
}

func knownItems(ids ...string) *mockItems {
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return &mockItems{
		getByIDFunc: func(ctx context.Context, id string) (*itempkg.Item, error) {
			if set[id] {
				return &itempkg.Item{ID: id}, nil
			}
			return nil, core.ErrNotFound
		},
	}
}

func TestAddToCart(t *testing.T) {
	t.Run("delegates to upsert", func(t *testing.T) {
		repo := &mockRepository{
			addToCartFunc: func(ctx context.Context, userID, itemID string) (*CartItem, error) {
				return &CartItem{ID: "line-1", UserID: userID, ItemID: itemID, Quantity: 2}, nil
			},
		}

		svc := NewService(repo, knownItems("item-1"))

		line, err := svc.AddToCart(context.Background(), "user-1", "item-1")
		require.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := NewService(&mockRepository{}, knownItems())

		_, err := svc.AddToCart(context.Background(), "", "item-1")
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc := NewService(&mockRepository{}, knownItems())

		_, err := svc.AddToCart(context.Background(), "user-1", "missing")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestRemoveFromCart(t *testing.T) {
	stored := &CartItem{ID: "line-1", UserID: "owner", ItemID: "item-1", Quantity: 3}

	t.Run("owner removes and gets the line back", func(t *testing.T) {
		deleted := false
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*CartItem, error) {
				return stored, nil
			},
			deleteFunc: func(ctx context.Context, id string) error {
				assert.Equal(t, "line-1", id)
				deleted = true
				return nil
			},
		}

		svc := NewService(repo, knownItems())

		line, err := svc.RemoveFromCart(context.Background(), "owner", "line-1")
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, 3, line.Quantity)
	})

	t.Run("non-owner is rejected without deleting", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*CartItem, error) {
				return stored, nil
			},
			deleteFunc: func(ctx context.Context, id string) error {
				t.Fatal("delete must not be called")
				return nil
			},
		}

		svc := NewService(repo, knownItems())

		_, err := svc.RemoveFromCart(context.Background(), "intruder", "line-1")
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("missing line", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*CartItem, error) {
				return nil, core.ErrNotFound
			},
		}

		svc := NewService(repo, knownItems())

		_, err := svc.RemoveFromCart(context.Background(), "owner", "gone")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestList(t *testing.T) {
	repo := &mockRepository{
		listLinesFunc: func(ctx context.Context, userID string) ([]*Line, error) {
			assert.Equal(t, "user-1", userID)
			return []*Line{
				{CartItem: CartItem{ID: "line-1", Quantity: 1}},
			}, nil
		},
	}

	svc := NewService(repo, knownItems())

	lines, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	_, err = svc.List(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}
