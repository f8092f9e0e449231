// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/storefront/internal/cart"
	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/payment"
	"github.com/angelamos/storefront/internal/permission"
)

// CartReader is the slice of the cart the checkout pipeline needs.
type CartReader interface {
	List(ctx context.Context, userID string) ([]*cart.Line, error)
}

type Service struct {
	repo     Repository
	carts    CartReader
	gateway  payment.Gateway
	currency string

	chargeTimeout   time.Duration
	persistAttempts int
	persistBackoff  time.Duration
}

func NewService(
	repo Repository,
	carts CartReader,
	gateway payment.Gateway,
	currency string,
	chargeTimeout time.Duration,
	persistAttempts int,
) *Service {
	if persistAttempts < 1 {
		persistAttempts = 1
	}

	return &Service{
		repo:            repo,
		carts:           carts,
		gateway:         gateway,
		currency:        currency,
		chargeTimeout:   chargeTimeout,
		persistAttempts: persistAttempts,
		persistBackoff:  200 * time.Millisecond,
	}
}

// Checkout charges the user's whole cart as a single payment and
// converts it into an order.
//
// The cart line ids are captured before charging, and only those
// lines are removed afterward; anything added to the cart while the
// charge was in flight stays put. The gateway is called exactly once
// per checkout: if persisting the order fails, the failure surfaces
// as a reconciliation error carrying the charge id, never a second
// charge.
func (s *Service) Checkout(
	ctx context.Context,
	userID string,
	sourceToken string,
) (*Order, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	lines, err := s.carts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", core.ErrInvalidInput)
	}

	capturedIDs := make([]string, 0, len(lines))
	var total int64
	for _, line := range lines {
		capturedIDs = append(capturedIDs, line.ID)
		total += line.Item.Price * int64(line.Quantity)
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()

	charge, err := s.gateway.Charge(chargeCtx, payment.ChargeRequest{
		AmountCents:    total,
		Currency:       s.currency,
		SourceToken:    sourceToken,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:       uuid.New().String(),
		Total:    charge.AmountCents,
		ChargeID: charge.ID,
		UserID:   userID,
		Items:    make([]*OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		order.Items = append(order.Items, &OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			Title:       line.Item.Title,
			Description: line.Item.Description,
			Image:       line.Item.Image,
			Price:       line.Item.Price,
			Quantity:    line.Quantity,
		})
	}

	// The money has moved. Persisting must not die with the request,
	// so it runs on a context detached from cancellation.
	persistCtx := context.WithoutCancel(ctx)

	var persistErr error
	for attempt := 1; attempt <= s.persistAttempts; attempt++ {
		persistErr = s.repo.CreateWithCleanup(persistCtx, order, capturedIDs)
		if persistErr == nil {
			return order, nil
		}

		slog.Error("order persist attempt failed",
			"attempt", attempt,
			"charge_id", charge.ID,
			"user_id", userID,
			"error", persistErr,
		)

		if attempt < s.persistAttempts {
			time.Sleep(s.persistBackoff)
		}
	}

	return nil, fmt.Errorf(
		"order for charge %s could not be persisted: %w",
		charge.ID,
		core.ErrReconciliation,
	)
}

// Get returns a single order. The owner may always read it; anyone
// else needs ADMIN.
func (s *Service) Get(
	ctx context.Context,
	userID string,
	perms permission.List,
	orderID string,
) (*Order, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID && !perms.Has(permission.Admin) {
		return nil, fmt.Errorf(
			"you cannot see this order: %w",
			core.ErrForbidden,
		)
	}

	return order, nil
}

// List returns the caller's own order history.
func (s *Service) List(ctx context.Context, userID string) ([]*Order, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	return s.repo.ListByUser(ctx, userID)
}
