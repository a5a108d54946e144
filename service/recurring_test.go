package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/metrics"
	"planner/repository"
	"planner/repository/memory"
	"planner/tracker"
)

func TestRecurringService_Generate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := metrics.New()
	svc := NewRecurringService(store.Recurring, testClock(), m)
	cats, err := store.Catalog.ExpenseCategories(ctx)
	require.NoError(t, err)

	rent, err := svc.Create(ctx, RecurringInput{
		Amount:      money("3000"),
		CategoryID:  cats[6].ID,
		Description: "房租",
		Frequency:   "monthly",
		StartDate:   tracker.MustParseDate("2025-01-31"),
	})
	require.NoError(t, err)
	require.NotNil(t, rent.NextDate)
	assert.Equal(t, "2025-03-31", rent.NextDate.String())

	paused := false
	_, err = svc.Create(ctx, RecurringInput{
		Amount:     money("15"),
		CategoryID: cats[0].ID,
		Frequency:  "daily",
		StartDate:  tracker.MustParseDate("2025-03-01"),
		IsActive:   &paused,
	})
	require.NoError(t, err)

	res, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Templates)
	assert.Equal(t, 2, res.Generated)
	require.Len(t, res.Expenses, 2)
	assert.Equal(t, "2025-01-31", res.Expenses[0].Date.String())
	assert.Equal(t, "2025-02-28", res.Expenses[1].Date.String())
	require.NotNil(t, res.Expenses[0].RecurringID)
	assert.Equal(t, rent.ID, *res.Expenses[0].RecurringID)

	// 再次运行不会重复生成
	again, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Generated)

	got, err := svc.Get(ctx, rent.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", got.LastGenerated.String())

	expenses, total, err := store.Expenses.List(ctx, repository.ExpenseFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "房租", expenses[0].Description)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RecurringGenerated))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RecurringRunErrors))
}

func TestRecurringService_EndDateStopsGeneration(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRecurringService(store.Recurring, testClock(), nil)
	cats, err := store.Catalog.ExpenseCategories(ctx)
	require.NoError(t, err)

	r, err := svc.Create(ctx, RecurringInput{
		Amount:     money("20"),
		CategoryID: cats[2].ID,
		Frequency:  "weekly",
		StartDate:  tracker.MustParseDate("2025-02-24"),
		EndDate:    datePtr("2025-03-05"),
	})
	require.NoError(t, err)
	assert.Nil(t, r.NextDate)

	res, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Generated)
}

func TestRecurringService_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRecurringService(store.Recurring, testClock(), nil)

	cases := []RecurringInput{
		{Amount: money("0"), CategoryID: 1, Frequency: "daily", StartDate: tracker.MustParseDate("2025-03-01")},
		{Amount: money("1"), Frequency: "daily", StartDate: tracker.MustParseDate("2025-03-01")},
		{Amount: money("1"), CategoryID: 1, Frequency: "hourly", StartDate: tracker.MustParseDate("2025-03-01")},
		{Amount: money("1"), CategoryID: 1, Frequency: "daily"},
		{Amount: money("1"), CategoryID: 1, Frequency: "daily", StartDate: tracker.MustParseDate("2025-03-01"), EndDate: datePtr("2025-02-01")},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, repository.ErrValidation)
	}
}

func TestRecurringService_DeleteKeepsExpenses(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRecurringService(store.Recurring, testClock(), nil)
	cats, err := store.Catalog.ExpenseCategories(ctx)
	require.NoError(t, err)

	r, err := svc.Create(ctx, RecurringInput{
		Amount:     money("9.9"),
		CategoryID: cats[3].ID,
		Frequency:  "yearly",
		StartDate:  tracker.MustParseDate("2024-03-12"),
	})
	require.NoError(t, err)
	res, err := svc.Generate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Generated)

	require.NoError(t, svc.Delete(ctx, r.ID))
	expenses, _, err := store.Expenses.List(ctx, repository.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	for _, e := range expenses {
		assert.Nil(t, e.RecurringID)
	}
}
