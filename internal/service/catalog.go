package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/scatch/internal/catalog"
	"github.com/Skotchmaster/scatch/internal/models"
	"github.com/Skotchmaster/scatch/internal/repo"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

// Shop runs the storefront catalog query for the given filter.
func (s *CatalogService) Shop(ctx context.Context, f catalog.Filter) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, f)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Name == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if product.Price < 0 {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if product.Discount < 0 {
		return fmt.Errorf("discount cannot be negative: %w", ErrValidation)
	}
	return s.Repo.CreateProduct(ctx, product)
}

type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req ProductPatch) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.Discount != nil && *req.Discount < 0 {
		return nil, fmt.Errorf("discount cannot be negative: %w", ErrValidation)
	}

	return s.Repo.PatchProduct(ctx, id, func(p *models.Product) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Discount != nil {
			p.Discount = *req.Discount
		}
	})
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return s.Repo.DeleteProduct(ctx, id)
}
