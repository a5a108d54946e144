package models

import "github.com/shopspring/decimal"

func init() {
	// 金额在 JSON 中输出为数字，与前端约定一致
	decimal.MarshalJSONWithoutQuotes = true
}

// All 需要迁移的全部模型，顺序满足外键依赖
func All() []interface{} {
	return []interface{}{
		&ExpenseCategory{},
		&PaymentMethod{},
		&TaskCategory{},
		&Habit{},
		&HabitCompletion{},
		&Goal{},
		&Task{},
		&SubTask{},
		&Expense{},
		&Budget{},
		&RecurringExpense{},
	}
}
