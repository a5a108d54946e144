package service

import (
	"planner/metrics"
	"planner/repository"
	"planner/tracker"
)

// Options 业务规则与可选依赖
type Options struct {
	StreakPolicy tracker.StreakPolicy
	Cascade      tracker.CascadePolicy
	Notifier     AlertNotifier
	Metrics      *metrics.Metrics
}

// Services 全部业务服务，由 serve / recurring 命令和测试共同装配
type Services struct {
	Clock     tracker.Clock
	Habits    *HabitService
	Goals     *GoalService
	Tasks     *TaskService
	Expenses  *ExpenseService
	Catalog   *CatalogService
	Budgets   *BudgetService
	Recurring *RecurringService
	Insights  *InsightsService
}

// New 基于同一个存储装配所有服务
func New(store *repository.Store, clock tracker.Clock, opts Options) *Services {
	if opts.StreakPolicy == "" {
		opts.StreakPolicy = tracker.StreakGrace
	}
	if opts.Cascade == "" {
		opts.Cascade = tracker.CascadeIndependent
	}

	budgets := NewBudgetService(store.Budgets, store.Expenses, clock, opts.Notifier, opts.Metrics)
	return &Services{
		Clock:     clock,
		Habits:    NewHabitService(store.Habits, clock, opts.StreakPolicy, opts.Metrics),
		Goals:     NewGoalService(store.Goals),
		Tasks:     NewTaskService(store.Tasks, opts.Cascade),
		Expenses:  NewExpenseService(store.Expenses, budgets, clock),
		Catalog:   NewCatalogService(store.Catalog),
		Budgets:   budgets,
		Recurring: NewRecurringService(store.Recurring, clock, opts.Metrics),
		Insights:  NewInsightsService(store.Expenses, store.Catalog, budgets, clock),
	}
}
