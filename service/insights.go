package service

import (
	"context"

	"github.com/shopspring/decimal"

	"planner/repository"
	"planner/tracker"
)

// CategoryShare 类别在周期内的支出占比
type CategoryShare struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	Percentage int             `json:"percentage"`
}

// Summary 周期支出概览
type Summary struct {
	Period       tracker.Period  `json:"period"`
	Window       tracker.Window  `json:"window"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
	Categories   []CategoryShare `json:"categories"`
	TopCategory  *CategoryShare  `json:"top_category"`
	DailyAverage decimal.Decimal `json:"daily_average"`
	// BudgetHealth 未超支预算所占百分比，没有预算时为 100
	BudgetHealth int `json:"budget_health"`
}

// TrendMaxDays 趋势最多查询的天数
const TrendMaxDays = 366

// InsightsService 支出统计
type InsightsService struct {
	expenses repository.ExpenseRepository
	catalog  repository.CatalogRepository
	budgets  *BudgetService
	clock    tracker.Clock
}

func NewInsightsService(expenses repository.ExpenseRepository, catalog repository.CatalogRepository, budgets *BudgetService, clock tracker.Clock) *InsightsService {
	return &InsightsService{expenses: expenses, catalog: catalog, budgets: budgets, clock: clock}
}

// Summary ref 为零值时取今天
func (s *InsightsService) Summary(ctx context.Context, period tracker.Period, ref tracker.Date) (*Summary, error) {
	today := tracker.Today(s.clock)
	if ref.IsZero() {
		ref = today
	}
	w, err := tracker.PeriodWindow(period, ref)
	if err != nil {
		return nil, repository.Validation("%s", err.Error())
	}

	totals, err := s.expenses.TotalsByCategory(ctx, w)
	if err != nil {
		return nil, err
	}
	cats, err := s.catalog.ExpenseCategories(ctx)
	if err != nil {
		return nil, err
	}
	type catInfo struct{ name, color string }
	info := make(map[uint]catInfo, len(cats))
	for _, c := range cats {
		info[c.ID] = catInfo{c.Name, c.Color}
	}

	sum := &Summary{Period: period, Window: w, Total: decimal.Zero, Categories: make([]CategoryShare, 0, len(totals))}
	for _, t := range totals {
		sum.Total = sum.Total.Add(t.Total)
		sum.Count += t.Count
	}
	for _, t := range totals {
		share := CategoryShare{
			CategoryID: t.CategoryID,
			Name:       info[t.CategoryID].name,
			Color:      info[t.CategoryID].color,
			Total:      t.Total,
			Count:      t.Count,
		}
		if sum.Total.IsPositive() {
			share.Percentage = int(t.Total.Mul(decimal.NewFromInt(100)).Div(sum.Total).Round(0).IntPart())
		}
		sum.Categories = append(sum.Categories, share)
	}
	for i := range sum.Categories {
		if sum.TopCategory == nil || sum.Categories[i].Total.GreaterThan(sum.TopCategory.Total) {
			sum.TopCategory = &sum.Categories[i]
		}
	}

	// 进行中的周期按已过去的天数平均
	days := w.Days()
	if w.Contains(today) {
		days = today.DaysSince(w.Start) + 1
	}
	sum.DailyAverage = sum.Total.Div(decimal.NewFromInt(int64(days))).Round(2)

	sum.BudgetHealth = 100
	if s.budgets != nil {
		statuses, err := s.budgets.Status(ctx, ref)
		if err != nil {
			return nil, err
		}
		if len(statuses) > 0 {
			ok := 0
			for _, st := range statuses {
				if !st.Over {
					ok++
				}
			}
			sum.BudgetHealth = tracker.Percentage(ok, len(statuses))
		}
	}
	return sum, nil
}

// Trend 最近 days 天（含今天）的每日支出，没有支出的日期补 0
func (s *InsightsService) Trend(ctx context.Context, days int) ([]repository.DailyTotal, error) {
	if days <= 0 {
		days = 30
	}
	if days > TrendMaxDays {
		return nil, repository.Validation("最多查询 %d 天", TrendMaxDays)
	}
	today := tracker.Today(s.clock)
	w := tracker.Window{Start: today.AddDays(-(days - 1)), End: today}

	rows, err := s.expenses.DailyTotals(ctx, w)
	if err != nil {
		return nil, err
	}
	byDate := make(map[tracker.Date]decimal.Decimal, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r.Total
	}

	out := make([]repository.DailyTotal, days)
	for i := range out {
		d := w.Start.AddDays(i)
		total, ok := byDate[d]
		if !ok {
			total = decimal.Zero
		}
		out[i] = repository.DailyTotal{Date: d, Total: total}
	}
	return out, nil
}
