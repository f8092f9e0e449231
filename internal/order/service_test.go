// AngelaMos | 2026
// service_test.go

package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/cart"
	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/item"
	"github.com/angelamos/storefront/internal/payment"
	"github.com/angelamos/storefront/internal/permission"
)

type mockRepository struct {
	createFunc     func(ctx context.Context, order *Order, cartItemIDs []string) error
	getByIDFunc    func(ctx context.Context, id string) (*Order, error)
	listByUserFunc func(ctx context.Context, userID string) ([]*Order, error)
}

func (m *mockRepository) CreateWithCleanup(ctx context.Context, order *Order, cartItemIDs []string) error {
	return m.createFunc(ctx, order, cartItemIDs)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return m.listByUserFunc(ctx, userID)
}

type mockCart struct {
	lines []*cart.Line
	err   error
}

func (m *mockCart) List(ctx context.Context, userID string) ([]*cart.Line, error) {
	return m.lines, m.err
}

type mockGateway struct {
	calls   int
	lastReq payment.ChargeRequest
	charge  *payment.Charge
	err     error
}

func (m *mockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.charge, nil
}

func testLines() []*cart.Line {
	return []*cart.Line{
		{
			CartItem: cart.CartItem{ID: "line-1", Quantity: 2, ItemID: "item-1", UserID: "buyer"},
			Item: item.Item{
				ID:          "item-1",
				Title:       "Dress Shoes",
				Description: "Pointy",
				Image:       "shoes.jpg",
				Price:       34995,
			},
		},
		{
			CartItem: cart.CartItem{ID: "line-2", Quantity: 1, ItemID: "item-2", UserID: "buyer"},
			Item: item.Item{
				ID:          "item-2",
				Title:       "Socks",
				Description: "Wool",
				Price:       1500,
			},
		},
	}
}

func newCheckoutService(repo Repository, carts CartReader, gateway payment.Gateway, attempts int) *Service {
	svc := NewService(repo, carts, gateway, "USD", 15*time.Second, attempts)
	svc.persistBackoff = 0
	return svc
}

func TestCheckout(t *testing.T) {
	t.Run("charges the cart total and snapshots lines", func(t *testing.T) {
		var persisted *Order
		var cleanupIDs []string

		repo := &mockRepository{
			createFunc: func(ctx context.Context, order *Order, cartItemIDs []string) error {
				persisted = order
				cleanupIDs = cartItemIDs
				return nil
			},
		}
		gateway := &mockGateway{
			charge: &payment.Charge{ID: "ch_123", AmountCents: 71490},
		}

		svc := newCheckoutService(repo, &mockCart{lines: testLines()}, gateway, 3)

		order, err := svc.Checkout(context.Background(), "buyer", "tok_visa")
		require.NoError(t, err)

		assert.Equal(t, 1, gateway.calls)
		assert.Equal(t, int64(2*34995+1500), gateway.lastReq.AmountCents)
		assert.Equal(t, "USD", gateway.lastReq.Currency)
		assert.Equal(t, "tok_visa", gateway.lastReq.SourceToken)
		assert.NotEmpty(t, gateway.lastReq.IdempotencyKey)

		require.NotNil(t, persisted)
		assert.Equal(t, "ch_123", order.ChargeID)
		assert.Equal(t, "buyer", order.UserID)
		assert.Equal(t, []string{"line-1", "line-2"}, cleanupIDs)

		require.Len(t, order.Items, 2)
		assert.Equal(t, "Dress Shoes", order.Items[0].Title)
		assert.Equal(t, int64(34995), order.Items[0].Price)
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
	})

	t.Run("gateway amount is authoritative for the total", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(ctx context.Context, order *Order, cartItemIDs []string) error {
				return nil
			},
		}
		gateway := &mockGateway{
			charge: &payment.Charge{ID: "ch_456", AmountCents: 99999},
		}

		svc := newCheckoutService(repo, &mockCart{lines: testLines()}, gateway, 3)

		order, err := svc.Checkout(context.Background(), "buyer", "tok_visa")
		require.NoError(t, err)
		assert.Equal(t, int64(99999), order.Total)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := newCheckoutService(&mockRepository{}, &mockCart{}, &mockGateway{}, 3)

		_, err := svc.Checkout(context.Background(), "", "tok_visa")
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("empty cart never reaches the gateway", func(t *testing.T) {
		gateway := &mockGateway{}
		svc := newCheckoutService(&mockRepository{}, &mockCart{}, gateway, 3)

		_, err := svc.Checkout(context.Background(), "buyer", "tok_visa")
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		assert.Zero(t, gateway.calls)
	})

	t.Run("declined charge writes nothing", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(ctx context.Context, order *Order, cartItemIDs []string) error {
				t.Fatal("persist must not run after a decline")
				return nil
			},
		}
		gateway := &mockGateway{err: core.ErrPaymentDeclined}

		svc := newCheckoutService(repo, &mockCart{lines: testLines()}, gateway, 3)

		_, err := svc.Checkout(context.Background(), "buyer", "tok_visa")
		assert.ErrorIs(t, err, core.ErrPaymentDeclined)
	})

	t.Run("persist failure retries but never re-charges", func(t *testing.T) {
		persistCalls := 0
		repo := &mockRepository{
			createFunc: func(ctx context.Context, order *Order, cartItemIDs []string) error {
				persistCalls++
				return assert.AnError
			},
		}
		gateway := &mockGateway{
			charge: &payment.Charge{ID: "ch_789", AmountCents: 71490},
		}

		svc := newCheckoutService(repo, &mockCart{lines: testLines()}, gateway, 3)

		_, err := svc.Checkout(context.Background(), "buyer", "tok_visa")
		require.ErrorIs(t, err, core.ErrReconciliation)
		assert.Contains(t, err.Error(), "ch_789", "charge id must surface for reconciliation")
		assert.Equal(t, 3, persistCalls)
		assert.Equal(t, 1, gateway.calls)
	})

	t.Run("persist recovers on a later attempt", func(t *testing.T) {
		persistCalls := 0
		repo := &mockRepository{
			createFunc: func(ctx context.Context, order *Order, cartItemIDs []string) error {
				persistCalls++
				if persistCalls < 2 {
					return assert.AnError
				}
				return nil
			},
		}
		gateway := &mockGateway{
			charge: &payment.Charge{ID: "ch_re", AmountCents: 71490},
		}

		svc := newCheckoutService(repo, &mockCart{lines: testLines()}, gateway, 3)

		order, err := svc.Checkout(context.Background(), "buyer", "tok_visa")
		require.NoError(t, err)
		assert.Equal(t, 2, persistCalls)
		assert.Equal(t, 1, gateway.calls)
		assert.Equal(t, "ch_re", order.ChargeID)
	})
}

func TestGet(t *testing.T) {
	stored := &Order{ID: "order-1", UserID: "buyer", Total: 1000}

	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id string) (*Order, error) {
			return stored, nil
		},
	}
	svc := newCheckoutService(repo, &mockCart{}, &mockGateway{}, 3)

	t.Run("owner", func(t *testing.T) {
		order, err := svc.Get(
			context.Background(),
			"buyer",
			permission.List{permission.User},
			"order-1",
		)
		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("admin who is not the owner", func(t *testing.T) {
		order, err := svc.Get(
			context.Background(),
			"support",
			permission.List{permission.Admin},
			"order-1",
		)
		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := svc.Get(
			context.Background(),
			"stranger",
			permission.List{permission.User},
			"order-1",
		)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "", nil, "order-1")
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("missing order", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*Order, error) {
				return nil, core.ErrNotFound
			},
		}
		svc := newCheckoutService(repo, &mockCart{}, &mockGateway{}, 3)

		_, err := svc.Get(
			context.Background(),
			"buyer",
			permission.List{permission.User},
			"gone",
		)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestList(t *testing.T) {
	repo := &mockRepository{
		listByUserFunc: func(ctx context.Context, userID string) ([]*Order, error) {
			assert.Equal(t, "buyer", userID)
			return []*Order{{ID: "order-1"}}, nil
		},
	}
	svc := newCheckoutService(repo, &mockCart{}, &mockGateway{}, 3)

	orders, err := svc.List(context.Background(), "buyer")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = svc.List(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}
