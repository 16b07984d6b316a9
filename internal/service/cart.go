package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/scatch/internal/models"
	"github.com/Skotchmaster/scatch/internal/repo"
)

type CartOutcome string

const (
	OutcomeAdded     CartOutcome = "added"
	OutcomeIncreased CartOutcome = "increased"
	OutcomeDecreased CartOutcome = "decreased"
	OutcomeRemoved   CartOutcome = "removed"
	// OutcomeUnchanged means the line the operation targeted does not exist.
	// Increment and decrement on an absent line are defined as silent no-ops,
	// not errors.
	OutcomeUnchanged CartOutcome = "unchanged"
)

type CartReport struct {
	Outcome CartOutcome `json:"outcome"`
	Changed bool        `json:"changed"`
}

// CartLine is a cart item with its product resolved for rendering.
type CartLine struct {
	models.CartItem
	Product *models.Product `json:"product,omitempty"`
}

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]CartLine, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		// product may be nil if it was deleted after being carted; the line
		// is still rendered so the user can remove it.
		lines = append(lines, CartLine{CartItem: item, Product: byID[item.ProductID]})
	}
	return lines, nil
}

func (s *CartService) Add(ctx context.Context, userID, productID uint) (CartReport, error) {
	if productID == 0 {
		return CartReport{}, fmt.Errorf("product id is required: %w", ErrValidation)
	}

	created, err := s.Repo.AddToCart(ctx, userID, productID)
	if err != nil {
		return CartReport{}, err
	}
	if created {
		return CartReport{Outcome: OutcomeAdded, Changed: true}, nil
	}
	return CartReport{Outcome: OutcomeIncreased, Changed: true}, nil
}

func (s *CartService) Increment(ctx context.Context, userID, productID uint) (CartReport, error) {
	if productID == 0 {
		return CartReport{}, fmt.Errorf("product id is required: %w", ErrValidation)
	}

	found, err := s.Repo.IncrementCartItem(ctx, userID, productID)
	if err != nil {
		return CartReport{}, err
	}
	if !found {
		return CartReport{Outcome: OutcomeUnchanged}, nil
	}
	return CartReport{Outcome: OutcomeIncreased, Changed: true}, nil
}

func (s *CartService) Decrement(ctx context.Context, userID, productID uint) (CartReport, error) {
	if productID == 0 {
		return CartReport{}, fmt.Errorf("product id is required: %w", ErrValidation)
	}

	decremented, removed, err := s.Repo.DecrementCartItem(ctx, userID, productID)
	if err != nil {
		return CartReport{}, err
	}
	switch {
	case decremented:
		return CartReport{Outcome: OutcomeDecreased, Changed: true}, nil
	case removed:
		return CartReport{Outcome: OutcomeRemoved, Changed: true}, nil
	default:
		return CartReport{Outcome: OutcomeUnchanged}, nil
	}
}

// Remove always reports "removed", whether or not a line matched.
func (s *CartService) Remove(ctx context.Context, userID, productID uint) (CartReport, error) {
	if productID == 0 {
		return CartReport{}, fmt.Errorf("product id is required: %w", ErrValidation)
	}

	found, err := s.Repo.RemoveCartItem(ctx, userID, productID)
	if err != nil {
		return CartReport{}, err
	}
	return CartReport{Outcome: OutcomeRemoved, Changed: found}, nil
}
