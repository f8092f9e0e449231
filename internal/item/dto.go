// AngelaMos | 2026
// dto.go

package item

type CreateItemRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
	LargeImage  string `json:"largeImage" validate:"omitempty,url"`
	Price       int64  `json:"price" validate:"required,gt=0"`
}

// UpdateItemRequest carries a partial update. Nil fields
// keep the stored value.
type UpdateItemRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty"`
	Image       *string `json:"image" validate:"omitempty,url"`
	LargeImage  *string `json:"largeImage" validate:"omitempty,url"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
}

type ListItemsParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListItemsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p ListItemsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
