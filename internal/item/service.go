// AngelaMos | 2026
// service.go

package item

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/permission"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateItemRequest,
) (*Item, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	item := &Item{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		Price:       req.Price,
		UserID:      userID,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListItemsParams,
) ([]*Item, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) Update(
	ctx context.Context,
	userID string,
	id string,
	req UpdateItemRequest,
) (*Item, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.LargeImage != nil {
		item.LargeImage = *req.LargeImage
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	return item, nil
}

// Delete removes a listing. The owner may always delete their
// own item; anyone else needs both ADMIN and ITEMDELETE.
func (s *Service) Delete(
	ctx context.Context,
	userID string,
	perms permission.List,
	id string,
) error {
	if userID == "" {
		return core.ErrUnauthorized
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if item.UserID != userID {
		if err := perms.Require(permission.Admin, permission.ItemDelete); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}
