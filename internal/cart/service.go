// AngelaMos | 2026
// service.go

package cart

import (
	"context"

	"github.com/angelamos/storefront/internal/core"
	itempkg "github.com/angelamos/storefront/internal/item"
)

// ItemGetter is the slice of the item catalog the cart needs.
type ItemGetter interface {
	GetByID(ctx context.Context, id string) (*itempkg.Item, error)
}

type Service struct {
	repo  Repository
	items ItemGetter
}

func NewService(repo Repository, items ItemGetter) *Service {
	return &Service{repo: repo, items: items}
}

// AddToCart adds one unit of an item to the user's cart, incrementing
// the existing line when the item is already there.
func (s *Service) AddToCart(
	ctx context.Context,
	userID, itemID string,
) (*CartItem, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	// Reject unknown items up front so the upsert never fabricates
	// a line pointing at nothing.
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	return s.repo.AddToCart(ctx, userID, itemID)
}

// RemoveFromCart deletes a cart line the user owns and returns the
// removed line.
func (s *Service) RemoveFromCart(
	ctx context.Context,
	userID, cartItemID string,
) (*CartItem, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	line, err := s.repo.GetByID(ctx, cartItemID)
	if err != nil {
		return nil, err
	}

	if line.UserID != userID {
		return nil, core.ErrForbidden
	}

	if err := s.repo.Delete(ctx, cartItemID); err != nil {
		return nil, err
	}

	return line, nil
}

// List returns the user's cart lines joined with their items.
func (s *Service) List(
	ctx context.Context,
	userID string,
) ([]*Line, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	return s.repo.ListLines(ctx, userID)
}
