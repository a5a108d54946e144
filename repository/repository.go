package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"planner/models"
	"planner/tracker"
)

// HabitRepository 习惯与打卡记录
type HabitRepository interface {
	List(ctx context.Context) ([]models.Habit, error)
	Get(ctx context.Context, id uint) (*models.Habit, error)
	Create(ctx context.Context, h *models.Habit) error
	Update(ctx context.Context, h *models.Habit) error
	Delete(ctx context.Context, id uint) error

	// Ledger 读取单个习惯的全部打卡日期
	Ledger(ctx context.Context, habitID uint) (tracker.Ledger, error)
	// Ledgers 批量读取，未打过卡的习惯对应空集合
	Ledgers(ctx context.Context, habitIDs []uint) (map[uint]tracker.Ledger, error)
	// ToggleCompletion 在一个事务内翻转某日的打卡状态
	ToggleCompletion(ctx context.Context, habitID uint, date tracker.Date) (tracker.ToggleAction, error)
}

// GoalRepository 目标
type GoalRepository interface {
	List(ctx context.Context) ([]models.Goal, error)
	Get(ctx context.Context, id uint) (*models.Goal, error)
	Create(ctx context.Context, g *models.Goal) error
	Update(ctx context.Context, g *models.Goal) error
	ToggleCompleted(ctx context.Context, id uint) (*models.Goal, error)
	// Delete 删除目标，关联任务的 goal_id 置空
	Delete(ctx context.Context, id uint) error
	// TaskStates 目标关联任务的完成状态
	TaskStates(ctx context.Context, goalID uint) (map[uint]bool, error)
}

// TaskFilter 任务查询条件
type TaskFilter struct {
	GoalID *uint
	From   *tracker.Date // start_date >= From
	To     *tracker.Date // end_date <= To
}

// TaskRepository 任务与子任务
type TaskRepository interface {
	List(ctx context.Context, f TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, id uint) (*models.Task, error)
	// Create 任务与子任务在同一事务内写入
	Create(ctx context.Context, t *models.Task) error
	// Update 更新任务，replaceSubTasks 为 true 时用 t.SubTasks 替换原有子任务
	Update(ctx context.Context, t *models.Task, replaceSubTasks bool) error
	SetCompleted(ctx context.Context, id uint, completed, completeSubTasks bool) (*models.Task, error)
	Delete(ctx context.Context, id uint) error

	AddSubTask(ctx context.Context, s *models.SubTask) error
	UpdateSubTask(ctx context.Context, id uint, text *string, completed *bool) (*models.SubTask, error)
	DeleteSubTask(ctx context.Context, id uint) error
}

// ExpenseFilter 支出查询条件
type ExpenseFilter struct {
	From       *tracker.Date
	To         *tracker.Date
	CategoryID *uint
	// CreatedFrom/CreatedTo 按录入时刻筛选，闭区间
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// CategoryTotal 按类别汇总
type CategoryTotal struct {
	CategoryID uint            `json:"category_id"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
}

// DailyTotal 按日汇总
type DailyTotal struct {
	Date  tracker.Date    `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseRepository 支出
type ExpenseRepository interface {
	List(ctx context.Context, f ExpenseFilter) ([]models.Expense, int64, error)
	Get(ctx context.Context, id uint) (*models.Expense, error)
	Create(ctx context.Context, e *models.Expense) error
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id uint) error
	TotalsByCategory(ctx context.Context, w tracker.Window) ([]CategoryTotal, error)
	DailyTotals(ctx context.Context, w tracker.Window) ([]DailyTotal, error)
}

// BudgetRepository 预算
type BudgetRepository interface {
	List(ctx context.Context) ([]models.Budget, error)
	// Upsert 按 (category_id, period, start_date) 插入或更新金额
	Upsert(ctx context.Context, b *models.Budget) error
}

// RecurringRepository 周期性支出
type RecurringRepository interface {
	List(ctx context.Context) ([]models.RecurringExpense, error)
	Active(ctx context.Context) ([]models.RecurringExpense, error)
	Get(ctx context.Context, id uint) (*models.RecurringExpense, error)
	Create(ctx context.Context, r *models.RecurringExpense) error
	Update(ctx context.Context, r *models.RecurringExpense) error
	Delete(ctx context.Context, id uint) error
	// Materialize 写入到期的支出并推进 last_generated，同一事务
	Materialize(ctx context.Context, r *models.RecurringExpense, dates []tracker.Date) ([]models.Expense, error)
}

// CatalogRepository 类别、标签与支付方式
type CatalogRepository interface {
	ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error)
	GetExpenseCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error)
	CreateExpenseCategory(ctx context.Context, c *models.ExpenseCategory) error
	// DeleteExpenseCategory 仍有支出引用时返回 ErrInUse
	DeleteExpenseCategory(ctx context.Context, id uint) error
	TaskCategories(ctx context.Context) ([]models.TaskCategory, error)
	PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
}

// Store 汇总全部仓储，便于注入
type Store struct {
	Habits    HabitRepository
	Goals     GoalRepository
	Tasks     TaskRepository
	Expenses  ExpenseRepository
	Budgets   BudgetRepository
	Recurring RecurringRepository
	Catalog   CatalogRepository
}

// NewStore 基于 gorm 的实现
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Habits:    NewHabitRepository(db),
		Goals:     NewGoalRepository(db),
		Tasks:     NewTaskRepository(db),
		Expenses:  NewExpenseRepository(db),
		Budgets:   NewBudgetRepository(db),
		Recurring: NewRecurringRepository(db),
		Catalog:   NewCatalogRepository(db),
	}
}
