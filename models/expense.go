package models

import (
	"time"

	"github.com/shopspring/decimal"

	"planner/tracker"
)

// Expense 支出记录
type Expense struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	CategoryID      uint            `json:"category_id" gorm:"not null;index"`
	Date            tracker.Date    `json:"date" gorm:"not null;index"`
	Time            string          `json:"time" gorm:"size:10"` // HH:MM
	Description     string          `json:"description" gorm:"size:255"`
	PaymentMethodID *uint           `json:"payment_method_id" gorm:"index"`
	AttachmentURL   string          `json:"attachment_url" gorm:"size:500"`
	Tags            []string        `json:"tags" gorm:"type:json;serializer:json"`
	RecurringID     *uint           `json:"recurring_id" gorm:"index"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Category      *ExpenseCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	PaymentMethod *PaymentMethod   `json:"payment_method,omitempty" gorm:"foreignKey:PaymentMethodID;constraint:OnDelete:SET NULL"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}
