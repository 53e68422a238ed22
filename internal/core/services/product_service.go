package services

import (
	"context"
	"errors"
	"log"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/adapters/persistence/repositories"
	"stockroom/internal/core/domain"
	"stockroom/internal/pkg/pagination"

	"gorm.io/gorm"
)

// ProductService handles product business logic
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents create product input
type CreateProductInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Price       int    `json:"price" validate:"gte=0"`
}

// UpdateProductInput carries optional fields; only present fields are applied
type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Price       *int    `json:"price" validate:"omitempty,gte=0"`
}

// ListProductsOutput represents list products output
type ListProductsOutput struct {
	Products []*models.ProductResponse `json:"products"`
	Meta     *pagination.Meta          `json:"meta"`
}

// Create creates a product owned by the caller. Name must be unique among
// non-deleted products.
func (s *ProductService) Create(ctx context.Context, owner *models.User, input *CreateProductInput) (*models.ProductResponse, error) {
	exists, err := s.productRepo.ExistsByName(ctx, input.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrProductAlreadyExists
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		OwnerID:     owner.ID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	log.Printf("✅ Product created: %s (owner=%d)", product.Name, owner.ID)
	return product.ToResponse(), nil
}

// List returns products visible to the caller: admins see everything,
// everyone else sees only what they own.
func (s *ProductService) List(ctx context.Context, caller *models.User, page, limit int) (*ListProductsOutput, error) {
	params := pagination.Normalize(page, limit)

	var (
		products []*models.Product
		total    int64
		err      error
	)
	if caller.IsAdmin {
		products, total, err = s.productRepo.List(ctx, params.Offset, params.Limit)
	} else {
		products, total, err = s.productRepo.ListByOwner(ctx, caller.ID, params.Offset, params.Limit)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ProductResponse, len(products))
	for i, product := range products {
		responses[i] = product.ToResponse()
	}

	return &ListProductsOutput{
		Products: responses,
		Meta:     pagination.GetMeta(params, total),
	}, nil
}

// Get returns a single product. Existence is checked before ownership.
func (s *ProductService) Get(ctx context.Context, caller *models.User, productID uint) (*models.ProductResponse, error) {
	product, err := s.getExisting(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := RequireOwnerOrAdmin(caller, product.OwnerID); err != nil {
		return nil, err
	}

	return product.ToResponse(), nil
}

// Update applies the present fields of input to a product the caller may edit
func (s *ProductService) Update(ctx context.Context, caller *models.User, productID uint, input *UpdateProductInput) (*models.ProductResponse, error) {
	product, err := s.getExisting(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := RequireOwnerOrAdmin(caller, product.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != product.Name {
		exists, err := s.productRepo.ExistsByName(ctx, *input.Name, product.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrProductAlreadyExists
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}

	callerID := caller.ID
	product.UpdatedBy = &callerID

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product.ToResponse(), nil
}

// Delete soft-deletes a product the caller may edit, stamping deleted_by
func (s *ProductService) Delete(ctx context.Context, caller *models.User, productID uint) error {
	product, err := s.getExisting(ctx, productID)
	if err != nil {
		return err
	}

	if err := RequireOwnerOrAdmin(caller, product.OwnerID); err != nil {
		return err
	}

	if err := s.productRepo.SoftDelete(ctx, product.ID, caller.ID); err != nil {
		return err
	}

	log.Printf("✅ Product deleted: %s (by=%d)", product.Name, caller.ID)
	return nil
}

func (s *ProductService) getExisting(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
