package models

import (
	"time"

	"github.com/shopspring/decimal"

	"planner/tracker"
)

// Budget 类别预算，(category_id, period, start_date) 唯一，重复写入时更新金额
type Budget struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CategoryID uint            `json:"category_id" gorm:"not null;uniqueIndex:idx_budget_category_period_start"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Period     string          `json:"period" gorm:"size:20;not null;uniqueIndex:idx_budget_category_period_start"` // weekly / monthly
	StartDate  tracker.Date    `json:"start_date" gorm:"not null;uniqueIndex:idx_budget_category_period_start"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Category *ExpenseCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (Budget) TableName() string {
	return "budgets"
}

// RecurringExpense 周期性支出模板
type RecurringExpense struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	CategoryID      uint            `json:"category_id" gorm:"not null;index"`
	Description     string          `json:"description" gorm:"size:255"`
	Frequency       string          `json:"frequency" gorm:"size:20;not null"` // daily / weekly / monthly / yearly
	StartDate       tracker.Date    `json:"start_date" gorm:"not null"`
	EndDate         *tracker.Date   `json:"end_date"`
	PaymentMethodID *uint           `json:"payment_method_id"`
	Tags            []string        `json:"tags" gorm:"type:json;serializer:json"`
	IsActive        bool            `json:"is_active" gorm:"not null;default:true;index"`
	LastGenerated   *tracker.Date   `json:"last_generated"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Category *ExpenseCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (RecurringExpense) TableName() string {
	return "recurring_expenses"
}

// Schedule 转换为生成计划
func (r RecurringExpense) Schedule() tracker.Schedule {
	return tracker.Schedule{
		Frequency:     tracker.Frequency(r.Frequency),
		Start:         r.StartDate,
		End:           r.EndDate,
		LastGenerated: r.LastGenerated,
	}
}
