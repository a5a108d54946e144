package models

import (
	"time"
)

// ExpenseCategory 支出类别
type ExpenseCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Icon      string    `json:"icon" gorm:"size:50"`
	Color     string    `json:"color" gorm:"size:20;default:#64748b"` // 颜色代码，如 #ef4444
	Sort      int       `json:"sort" gorm:"default:0;index"`
	IsCustom  bool      `json:"is_custom" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// PaymentMethod 支付方式
type PaymentMethod struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Icon string `json:"icon" gorm:"size:50"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// DefaultExpenseCategories 初始化时写入的支出类别
func DefaultExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		{Name: "买菜", Icon: "shopping_cart", Color: "#10b981", Sort: 10},
		{Name: "餐饮", Icon: "restaurant", Color: "#f59e0b", Sort: 20},
		{Name: "交通", Icon: "directions_bus", Color: "#3b82f6", Sort: 30},
		{Name: "娱乐", Icon: "movie", Color: "#8b5cf6", Sort: 40},
		{Name: "购物", Icon: "shopping_bag", Color: "#ec4899", Sort: 50},
		{Name: "医疗", Icon: "local_hospital", Color: "#ef4444", Sort: 60},
		{Name: "水电", Icon: "bolt", Color: "#f97316", Sort: 70},
		{Name: "其他", Icon: "more_horiz", Color: "#64748b", Sort: 80},
	}
}

// DefaultTaskCategories 初始化时写入的任务标签
func DefaultTaskCategories() []TaskCategory {
	return []TaskCategory{
		{Name: "工作", Color: "#3b82f6"},
		{Name: "个人", Color: "#10b981"},
		{Name: "健康", Color: "#f59e0b"},
		{Name: "学习", Color: "#8b5cf6"},
	}
}

// DefaultPaymentMethods 初始化时写入的支付方式
func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{Name: "现金", Icon: "payments"},
		{Name: "信用卡", Icon: "credit_card"},
		{Name: "借记卡", Icon: "credit_card"},
		{Name: "电子钱包", Icon: "account_balance_wallet"},
	}
}
