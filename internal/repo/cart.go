package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/scatch/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart bumps the quantity of an existing line or inserts a fresh one
// with quantity 1. The increment happens in the store, not in memory, so two
// concurrent adds for the same line both land. Reports whether a new line
// was created.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uint) (created bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		created = true
		return tx.Create(&models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
		}).Error
	})
	return created, err
}

// IncrementCartItem bumps an existing line. A missing line changes nothing
// and returns found=false without an error.
func (r *GormRepo) IncrementCartItem(ctx context.Context, userID, productID uint) (found bool, err error) {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", gorm.Expr("quantity + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementCartItem lowers the quantity of a line, deleting it when the
// quantity would reach zero. The quantity > 1 guard makes the decrement and
// the delete mutually exclusive store-side. A missing line is a no-op.
func (r *GormRepo) DecrementCartItem(ctx context.Context, userID, productID uint) (decremented, removed bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ? AND quantity > 1", userID, productID).
			Update("quantity", gorm.Expr("quantity - ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			decremented = true
			return nil
		}

		del := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.CartItem{})
		if del.Error != nil {
			return del.Error
		}
		removed = del.RowsAffected > 0
		return nil
	})
	return decremented, removed, err
}

// RemoveCartItem deletes the line for the product regardless of quantity.
func (r *GormRepo) RemoveCartItem(ctx context.Context, userID, productID uint) (found bool, err error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
