package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner/models"
	"planner/tracker"
)

// GormRecurringRepository 基于 gorm 的周期性支出仓储
type GormRecurringRepository struct {
	db *gorm.DB
}

func NewRecurringRepository(db *gorm.DB) *GormRecurringRepository {
	return &GormRecurringRepository{db: db}
}

func (r *GormRecurringRepository) List(ctx context.Context) ([]models.RecurringExpense, error) {
	var items []models.RecurringExpense
	err := r.db.WithContext(ctx).Preload("Category").Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *GormRecurringRepository) Active(ctx context.Context) ([]models.RecurringExpense, error) {
	var items []models.RecurringExpense
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *GormRecurringRepository) Get(ctx context.Context, id uint) (*models.RecurringExpense, error) {
	var item models.RecurringExpense
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRecurringRepository) Create(ctx context.Context, item *models.RecurringExpense) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

func (r *GormRecurringRepository) Update(ctx context.Context, item *models.RecurringExpense) error {
	res := r.db.WithContext(ctx).Model(&models.RecurringExpense{ID: item.ID}).
		Select("amount", "category_id", "description", "frequency", "start_date", "end_date",
			"payment_method_id", "tags", "is_active").
		Updates(item)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRecurringRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 已生成的支出保留，只解除关联
		if err := tx.Model(&models.Expense{}).Where("recurring_id = ?", id).Update("recurring_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.RecurringExpense{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

// Materialize 按模板生成支出并推进 last_generated
func (r *GormRecurringRepository) Materialize(ctx context.Context, item *models.RecurringExpense, dates []tracker.Date) ([]models.Expense, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	expenses := make([]models.Expense, len(dates))
	for i, d := range dates {
		id := item.ID
		expenses[i] = models.Expense{
			Amount:          item.Amount,
			CategoryID:      item.CategoryID,
			Date:            d,
			Description:     item.Description,
			PaymentMethodID: item.PaymentMethodID,
			Tags:            item.Tags,
			RecurringID:     &id,
		}
	}
	last := dates[len(dates)-1]

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&expenses).Error; err != nil {
			return err
		}
		return tx.Model(&models.RecurringExpense{ID: item.ID}).Update("last_generated", last).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	item.LastGenerated = &last
	return expenses, nil
}
