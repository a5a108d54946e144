package repository

import (
	"context"

	"gorm.io/gorm"

	"planner/models"
)

// GormCatalogRepository 类别、标签与支付方式
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	var cats []models.ExpenseCategory
	if err := r.db.WithContext(ctx).Order("sort ASC, id ASC").Find(&cats).Error; err != nil {
		return nil, translate(err)
	}
	return cats, nil
}

func (r *GormCatalogRepository) GetExpenseCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	var c models.ExpenseCategory
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormCatalogRepository) CreateExpenseCategory(ctx context.Context, c *models.ExpenseCategory) error {
	c.IsCustom = true
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// DeleteExpenseCategory 有支出引用时拒绝删除
func (r *GormCatalogRepository) DeleteExpenseCategory(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&models.Expense{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return ErrInUse
		}
		res := tx.Delete(&models.ExpenseCategory{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func (r *GormCatalogRepository) TaskCategories(ctx context.Context) ([]models.TaskCategory, error) {
	var cats []models.TaskCategory
	if err := r.db.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, translate(err)
	}
	return cats, nil
}

func (r *GormCatalogRepository) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := r.db.WithContext(ctx).Order("id").Find(&methods).Error; err != nil {
		return nil, translate(err)
	}
	return methods, nil
}
