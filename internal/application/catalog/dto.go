package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/catalog"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	Code         string     `json:"code" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	CategoryID   *uuid.UUID `json:"category_id"`
	Unit         string     `json:"unit"`
	SellingPrice string     `json:"selling_price" binding:"required"`
	Tracking     string     `json:"tracking"`
	Remark       string     `json:"remark"`
}

// UpdateProductRequest is the request to update a product
type UpdateProductRequest struct {
	Name         string     `json:"name" binding:"required"`
	CategoryID   *uuid.UUID `json:"category_id"`
	Unit         string     `json:"unit"`
	SellingPrice string     `json:"selling_price" binding:"required"`
	Remark       string     `json:"remark"`
}

// ProductListFilter captures product list query parameters
type ProductListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   *string
	Tracking *string
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Unit         string     `json:"unit"`
	SellingPrice string     `json:"selling_price"`
	Tracking     string     `json:"tracking"`
	Status       string     `json:"status"`
	Remark       string     `json:"remark,omitempty"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice.StringFixed(2),
		Tracking:     string(p.Tracking),
		Status:       string(p.Status),
		Remark:       p.Remark,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}
