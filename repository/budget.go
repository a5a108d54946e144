package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner/models"
)

// GormBudgetRepository 基于 gorm 的预算仓储
type GormBudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

func (r *GormBudgetRepository) List(ctx context.Context) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("category_id, period, start_date DESC").
		Find(&budgets).Error
	if err != nil {
		return nil, translate(err)
	}
	return budgets, nil
}

// Upsert 唯一键冲突时只更新金额，随后按唯一键读回完整记录
func (r *GormBudgetRepository) Upsert(ctx context.Context, b *models.Budget) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "period"}, {Name: "start_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).Create(b).Error
		if err != nil {
			return err
		}
		return tx.Where("category_id = ? AND period = ? AND start_date = ?", b.CategoryID, b.Period, b.StartDate).
			First(b).Error
	}))
}
