package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"planner/logger"
	"planner/metrics"
	"planner/models"
	"planner/repository"
	"planner/tracker"
)

// BudgetInput 设置预算的参数；同一类别、周期、起始日期重复提交时更新金额
type BudgetInput struct {
	CategoryID uint            `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period" binding:"required"`
	StartDate  *tracker.Date   `json:"start_date"`
}

// BudgetStatus 预算在参考日期所在周期内的执行情况
type BudgetStatus struct {
	Budget         models.Budget   `json:"budget"`
	Window         tracker.Window  `json:"window"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	UsedPercentage int             `json:"used_percentage"`
	Over           bool            `json:"over"`
}

// CategoryName 类别名称，未加载类别时返回编号
func (st BudgetStatus) CategoryName() string {
	if st.Budget.Category != nil && st.Budget.Category.Name != "" {
		return st.Budget.Category.Name
	}
	return fmt.Sprintf("类别 #%d", st.Budget.CategoryID)
}

// AlertNotifier 预算超支通知
type AlertNotifier interface {
	Enabled() bool
	SendBudgetAlert(st BudgetStatus) error
}

// BudgetService 预算业务
type BudgetService struct {
	budgets  repository.BudgetRepository
	expenses repository.ExpenseRepository
	clock    tracker.Clock
	notifier AlertNotifier
	metrics  *metrics.Metrics
}

// NewBudgetService notifier 与 m 均可为 nil
func NewBudgetService(budgets repository.BudgetRepository, expenses repository.ExpenseRepository, clock tracker.Clock, notifier AlertNotifier, m *metrics.Metrics) *BudgetService {
	return &BudgetService{budgets: budgets, expenses: expenses, clock: clock, notifier: notifier, metrics: m}
}

func (s *BudgetService) List(ctx context.Context) ([]models.Budget, error) {
	return s.budgets.List(ctx)
}

// Upsert 未指定起始日期时取今天所在周期的第一天
func (s *BudgetService) Upsert(ctx context.Context, in BudgetInput) (*models.Budget, error) {
	if in.CategoryID == 0 {
		return nil, repository.Validation("请选择类别")
	}
	if !in.Amount.IsPositive() {
		return nil, repository.Validation("预算金额必须大于 0")
	}
	period, err := tracker.ParsePeriod(in.Period)
	if err != nil {
		return nil, repository.Validation("%s", err.Error())
	}
	start := in.StartDate
	if start == nil {
		w, _ := tracker.PeriodWindow(period, tracker.Today(s.clock))
		start = &w.Start
	}

	b := models.Budget{
		CategoryID: in.CategoryID,
		Amount:     in.Amount.Round(2),
		Period:     string(period),
		StartDate:  *start,
	}
	if err := s.budgets.Upsert(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type budgetKey struct {
	categoryID uint
	period     string
}

// effective 每个 (类别, 周期) 取起始日期不晚于 ref 的最新一条
func effective(budgets []models.Budget, ref tracker.Date) []models.Budget {
	latest := make(map[budgetKey]int)
	var order []budgetKey
	for i, b := range budgets {
		if b.StartDate.After(ref) {
			continue
		}
		k := budgetKey{b.CategoryID, b.Period}
		j, ok := latest[k]
		if !ok {
			order = append(order, k)
			latest[k] = i
			continue
		}
		if b.StartDate.After(budgets[j].StartDate) {
			latest[k] = i
		}
	}
	out := make([]models.Budget, len(order))
	for i, k := range order {
		out[i] = budgets[latest[k]]
	}
	return out
}

func usedPercentage(spent, amount decimal.Decimal) int {
	if !amount.IsPositive() {
		return 0
	}
	return int(spent.Mul(decimal.NewFromInt(100)).Div(amount).Round(0).IntPart())
}

func newBudgetStatus(b models.Budget, w tracker.Window, spent decimal.Decimal) BudgetStatus {
	remaining := b.Amount.Sub(spent)
	return BudgetStatus{
		Budget:         b,
		Window:         w,
		Spent:          spent,
		Remaining:      remaining,
		UsedPercentage: usedPercentage(spent, b.Amount),
		Over:           remaining.IsNegative(),
	}
}

// Status 参考日期生效的各项预算及其支出情况
func (s *BudgetService) Status(ctx context.Context, ref tracker.Date) ([]BudgetStatus, error) {
	if ref.IsZero() {
		ref = tracker.Today(s.clock)
	}
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return nil, err
	}

	spentByWindow := make(map[tracker.Window]map[uint]decimal.Decimal)
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range effective(budgets, ref) {
		w, err := tracker.PeriodWindow(tracker.Period(b.Period), ref)
		if err != nil {
			continue
		}
		spent, ok := spentByWindow[w]
		if !ok {
			totals, err := s.expenses.TotalsByCategory(ctx, w)
			if err != nil {
				return nil, err
			}
			spent = make(map[uint]decimal.Decimal, len(totals))
			for _, t := range totals {
				spent[t.CategoryID] = t.Total
			}
			spentByWindow[w] = spent
		}
		statuses = append(statuses, newBudgetStatus(b, w, spent[b.CategoryID]))
	}
	return statuses, nil
}

// CheckAlert 新增支出使所属类别预算由未超支变为超支时发送提醒，返回触发提醒的预算
func (s *BudgetService) CheckAlert(ctx context.Context, e models.Expense) ([]BudgetStatus, error) {
	if s.notifier == nil || !s.notifier.Enabled() {
		return nil, nil
	}
	statuses, err := s.Status(ctx, e.Date)
	if err != nil {
		return nil, err
	}

	var alerted []BudgetStatus
	for _, st := range statuses {
		if st.Budget.CategoryID != e.CategoryID || !st.Over {
			continue
		}
		if st.Spent.Sub(e.Amount).GreaterThan(st.Budget.Amount) {
			// 之前已超支，已经提醒过
			continue
		}
		if err := s.notifier.SendBudgetAlert(st); err != nil {
			return alerted, err
		}
		s.metrics.BudgetAlert()
		logger.Info("已发送预算超支提醒", "category_id", e.CategoryID, "period", st.Budget.Period, "spent", st.Spent.String())
		alerted = append(alerted, st)
	}
	return alerted, nil
}
