package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/repository"
	"planner/tracker"
)

func TestInsightsService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)
	insights := NewInsightsService(f.store.Expenses, f.store.Catalog, f.budgets, testClock())

	_, err := f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("100"), Period: "monthly"})
	require.NoError(t, err)
	_, err = f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.traffic, Amount: money("1000"), Period: "monthly"})
	require.NoError(t, err)

	for _, in := range []ExpenseInput{
		{Amount: money("90"), CategoryID: f.food, Date: datePtr("2025-03-01")},
		{Amount: money("30"), CategoryID: f.food, Date: datePtr("2025-03-05")},
		{Amount: money("120"), CategoryID: f.traffic, Date: datePtr("2025-03-12")},
		{Amount: money("500"), CategoryID: f.traffic, Date: datePtr("2025-02-12")},
	} {
		_, err := f.expenses.Create(ctx, in)
		require.NoError(t, err)
	}

	sum, err := insights.Summary(ctx, tracker.PeriodMonthly, tracker.Date{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", sum.Window.Start.String())
	assert.Equal(t, "240.00", sum.Total.StringFixed(2))
	assert.Equal(t, int64(3), sum.Count)
	require.Len(t, sum.Categories, 2)
	assert.Equal(t, 50, sum.Categories[0].Percentage)
	assert.Equal(t, 50, sum.Categories[1].Percentage)
	require.NotNil(t, sum.TopCategory)
	assert.Equal(t, "120.00", sum.TopCategory.Total.StringFixed(2))
	// 本月已过去 12 天
	assert.Equal(t, "20.00", sum.DailyAverage.StringFixed(2))
	// 餐饮超支，交通未超支
	assert.Equal(t, 50, sum.BudgetHealth)

	feb, err := insights.Summary(ctx, tracker.PeriodMonthly, tracker.MustParseDate("2025-02-10"))
	require.NoError(t, err)
	assert.Equal(t, "500.00", feb.Total.StringFixed(2))
	assert.Equal(t, "17.86", feb.DailyAverage.StringFixed(2))
	require.NotNil(t, feb.TopCategory)
	assert.Equal(t, "交通", feb.TopCategory.Name)
	// 2 月没有生效的预算
	assert.Equal(t, 100, feb.BudgetHealth)
}

func TestInsightsService_SummaryEmpty(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)
	insights := NewInsightsService(f.store.Expenses, f.store.Catalog, nil, testClock())

	sum, err := insights.Summary(ctx, tracker.PeriodWeekly, tracker.Date{})
	require.NoError(t, err)
	assert.True(t, sum.Total.IsZero())
	assert.Empty(t, sum.Categories)
	assert.Nil(t, sum.TopCategory)
	assert.True(t, sum.DailyAverage.IsZero())
	assert.Equal(t, 100, sum.BudgetHealth)

	_, err = insights.Summary(ctx, tracker.Period("hourly"), tracker.Date{})
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestInsightsService_TrendFillsGaps(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)
	insights := NewInsightsService(f.store.Expenses, f.store.Catalog, nil, testClock())

	for _, in := range []ExpenseInput{
		{Amount: money("10"), CategoryID: f.food, Date: datePtr("2025-03-10")},
		{Amount: money("5"), CategoryID: f.traffic, Date: datePtr("2025-03-10")},
		{Amount: money("7"), CategoryID: f.food, Date: datePtr("2025-03-12")},
		{Amount: money("99"), CategoryID: f.food, Date: datePtr("2025-03-01")},
	} {
		_, err := f.expenses.Create(ctx, in)
		require.NoError(t, err)
	}

	trend, err := insights.Trend(ctx, 3)
	require.NoError(t, err)
	require.Len(t, trend, 3)
	assert.Equal(t, "2025-03-10", trend[0].Date.String())
	assert.Equal(t, "15.00", trend[0].Total.StringFixed(2))
	assert.True(t, trend[1].Total.IsZero())
	assert.Equal(t, "7.00", trend[2].Total.StringFixed(2))

	def, err := insights.Trend(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, def, 30)

	_, err = insights.Trend(ctx, TrendMaxDays+1)
	assert.ErrorIs(t, err, repository.ErrValidation)
}
