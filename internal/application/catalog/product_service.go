package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/catalog"
	"github.com/sfa/backend/internal/domain/shared"
)

// ProductService handles product business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	price, err := parsePrice(req.SellingPrice)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price is not a valid decimal")
	}

	tracking := catalog.TrackingNone
	if req.Tracking != "" {
		tracking = catalog.TrackingStrategy(req.Tracking)
		if !tracking.IsValid() {
			return nil, shared.NewDomainError("INVALID_TRACKING", "Unknown tracking strategy")
		}
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.Unit, price, tracking)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		product.SetCategory(*req.CategoryID)
	}
	if req.Remark != "" {
		product.SetRemark(req.Remark)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update updates a product's mutable fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := parsePrice(req.SellingPrice)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price is not a valid decimal")
	}
	if err := product.Update(req.Name, req.Unit, price); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		product.SetCategory(*req.CategoryID)
	}
	product.SetRemark(req.Remark)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.Tracking != nil {
		domainFilter.Filters["tracking"] = *filter.Tracking
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// Activate enables a product for sale
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := product.Activate(); err != nil {
		return err
	}
	return s.productRepo.Save(ctx, product)
}

// Deactivate removes a product from sale
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// Discontinue permanently retires a product
func (s *ProductService) Discontinue(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Discontinue()
	return s.productRepo.Save(ctx, product)
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
