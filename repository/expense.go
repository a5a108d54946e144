package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner/models"
	"planner/tracker"
)

// GormExpenseRepository 基于 gorm 的支出仓储
type GormExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) filtered(ctx context.Context, f ExpenseFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Expense{})
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}
	return q
}

// List 按日期倒序分页查询，同时返回总数
func (r *GormExpenseRepository) List(ctx context.Context, f ExpenseFilter) ([]models.Expense, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	q := r.filtered(ctx, f).
		Preload("Category").
		Preload("PaymentMethod").
		Order("date DESC, time DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var expenses []models.Expense
	if err := q.Find(&expenses).Error; err != nil {
		return nil, 0, translate(err)
	}
	return expenses, total, nil
}

func (r *GormExpenseRepository) Get(ctx context.Context, id uint) (*models.Expense, error) {
	var e models.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("PaymentMethod").
		First(&e, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *GormExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error)
}

func (r *GormExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	res := r.db.WithContext(ctx).Model(&models.Expense{ID: e.ID}).
		Select("amount", "category_id", "date", "time", "description",
			"payment_method_id", "attachment_url", "tags").
		Updates(e)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormExpenseRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Expense{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TotalsByCategory 窗口内按类别汇总金额与笔数，金额降序
func (r *GormExpenseRepository) TotalsByCategory(ctx context.Context, w tracker.Window) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("category_id, SUM(amount) AS total, COUNT(*) AS count").
		Where("date BETWEEN ? AND ?", w.Start, w.End).
		Group("category_id").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// DailyTotals 窗口内按日汇总，只返回有支出的日期
func (r *GormExpenseRepository) DailyTotals(ctx context.Context, w tracker.Window) ([]DailyTotal, error) {
	var rows []DailyTotal
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("date, SUM(amount) AS total").
		Where("date BETWEEN ? AND ?", w.Start, w.End).
		Group("date").
		Order("date").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
