package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/models"
	"planner/repository"
	"planner/repository/memory"
	"planner/tracker"
)

type fakeNotifier struct {
	enabled bool
	err     error
	sent    []BudgetStatus
}

func (n *fakeNotifier) Enabled() bool { return n.enabled }

func (n *fakeNotifier) SendBudgetAlert(st BudgetStatus) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, st)
	return nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type budgetFixture struct {
	store    *repository.Store
	notifier *fakeNotifier
	budgets  *BudgetService
	expenses *ExpenseService
	food     uint
	traffic  uint
}

func newBudgetFixture(t *testing.T) *budgetFixture {
	t.Helper()
	store := memory.New()
	cats, err := store.Catalog.ExpenseCategories(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(cats), 3)

	n := &fakeNotifier{enabled: true}
	budgets := NewBudgetService(store.Budgets, store.Expenses, testClock(), n, nil)
	return &budgetFixture{
		store:    store,
		notifier: n,
		budgets:  budgets,
		expenses: NewExpenseService(store.Expenses, budgets, testClock()),
		food:     cats[1].ID,
		traffic:  cats[2].ID,
	}
}

func TestBudgetService_UpsertUpdatesAmount(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)

	first, err := f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("500"), Period: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", first.StartDate.String())

	second, err := f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("800.456"), Period: "MONTHLY"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "800.46", second.Amount.StringFixed(2))

	list, err := f.budgets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("0"), Period: "monthly"})
	assert.ErrorIs(t, err, repository.ErrValidation)
	_, err = f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("1"), Period: "hourly"})
	assert.ErrorIs(t, err, repository.ErrValidation)
	_, err = f.budgets.Upsert(ctx, BudgetInput{CategoryID: 999, Amount: money("1"), Period: "weekly"})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}

func TestBudgetService_StatusUsesLatestEffectiveBudget(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)

	_, err := f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("300"), Period: "monthly", StartDate: datePtr("2025-01-01")})
	require.NoError(t, err)
	_, err = f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("400"), Period: "monthly", StartDate: datePtr("2025-03-01")})
	require.NoError(t, err)
	// 尚未生效
	_, err = f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("900"), Period: "monthly", StartDate: datePtr("2025-04-01")})
	require.NoError(t, err)
	_, err = f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.traffic, Amount: money("50"), Period: "weekly", StartDate: datePtr("2025-03-03")})
	require.NoError(t, err)

	for _, in := range []ExpenseInput{
		{Amount: money("120"), CategoryID: f.food, Date: datePtr("2025-03-02")},
		{Amount: money("80.5"), CategoryID: f.food, Date: datePtr("2025-03-11")},
		{Amount: money("99"), CategoryID: f.food, Date: datePtr("2025-02-27")},
		{Amount: money("60"), CategoryID: f.traffic, Date: datePtr("2025-03-10")},
		{Amount: money("30"), CategoryID: f.traffic, Date: datePtr("2025-03-09")},
	} {
		_, err := f.expenses.Create(ctx, in)
		require.NoError(t, err)
	}

	statuses, err := f.budgets.Status(ctx, tracker.Date{})
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byCat := map[uint]BudgetStatus{}
	for _, st := range statuses {
		byCat[st.Budget.CategoryID] = st
	}

	food := byCat[f.food]
	assert.Equal(t, "400.00", food.Budget.Amount.StringFixed(2))
	assert.Equal(t, "200.50", food.Spent.StringFixed(2))
	assert.Equal(t, "199.50", food.Remaining.StringFixed(2))
	assert.Equal(t, 50, food.UsedPercentage)
	assert.False(t, food.Over)
	assert.Equal(t, "2025-03-31", food.Window.End.String())

	traffic := byCat[f.traffic]
	assert.Equal(t, "2025-03-10", traffic.Window.Start.String())
	assert.Equal(t, "60.00", traffic.Spent.StringFixed(2))
	assert.True(t, traffic.Over)
	assert.Equal(t, 120, traffic.UsedPercentage)

	// 周预算的上一周不计入
	prev, err := f.budgets.Status(ctx, tracker.MustParseDate("2025-03-09"))
	require.NoError(t, err)
	found := false
	for _, st := range prev {
		if st.Budget.CategoryID == f.traffic {
			found = true
			assert.Equal(t, "2025-03-03", st.Window.Start.String())
			assert.Equal(t, "30.00", st.Spent.StringFixed(2))
			assert.False(t, st.Over)
		}
	}
	assert.True(t, found)
}

func TestBudgetService_AlertOnlyWhenCrossing(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)
	_, err := f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("100"), Period: "monthly"})
	require.NoError(t, err)

	_, err = f.expenses.Create(ctx, ExpenseInput{Amount: money("60"), CategoryID: f.food})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent)

	_, err = f.expenses.Create(ctx, ExpenseInput{Amount: money("50"), CategoryID: f.food})
	require.NoError(t, err)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "110.00", f.notifier.sent[0].Spent.StringFixed(2))

	// 已超支后不重复提醒
	_, err = f.expenses.Create(ctx, ExpenseInput{Amount: money("5"), CategoryID: f.food})
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 1)

	// 其他类别不触发
	_, err = f.expenses.Create(ctx, ExpenseInput{Amount: money("500"), CategoryID: f.traffic})
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 1)
}

func TestBudgetService_AlertDisabledOrFailing(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)
	_, err := f.budgets.Upsert(ctx, BudgetInput{CategoryID: f.food, Amount: money("10"), Period: "daily"})
	require.NoError(t, err)

	f.notifier.enabled = false
	alerted, err := f.budgets.CheckAlert(ctx, models.Expense{CategoryID: f.food, Amount: money("20"), Date: tracker.DateOf(testNow)})
	require.NoError(t, err)
	assert.Nil(t, alerted)

	f.notifier.enabled = true
	f.notifier.err = errors.New("smtp down")
	// 提醒失败不影响支出写入
	e, err := f.expenses.Create(ctx, ExpenseInput{Amount: money("20"), CategoryID: f.food})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
}

func TestExpenseService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)

	_, err := f.expenses.Create(ctx, ExpenseInput{Amount: money("-1"), CategoryID: f.food})
	assert.ErrorIs(t, err, repository.ErrValidation)
	_, err = f.expenses.Create(ctx, ExpenseInput{Amount: money("1")})
	assert.ErrorIs(t, err, repository.ErrValidation)
	_, err = f.expenses.Create(ctx, ExpenseInput{Amount: money("1"), CategoryID: 999})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)

	e, err := f.expenses.Create(ctx, ExpenseInput{Amount: money("12.345"), CategoryID: f.food, Tags: []string{" 午饭 ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", e.Date.String())
	assert.Equal(t, "12.35", e.Amount.StringFixed(2))
	assert.Equal(t, []string{"午饭"}, e.Tags)

	_, _, err = f.expenses.List(ctx, repository.ExpenseFilter{From: datePtr("2025-03-12"), To: datePtr("2025-03-01")})
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestCatalogService_DeleteCategoryInUse(t *testing.T) {
	ctx := context.Background()
	f := newBudgetFixture(t)
	catalog := NewCatalogService(f.store.Catalog)

	c, err := catalog.CreateExpenseCategory(ctx, CategoryInput{Name: "宠物"})
	require.NoError(t, err)
	assert.True(t, c.IsCustom)

	_, err = catalog.CreateExpenseCategory(ctx, CategoryInput{Name: "宠物"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = f.expenses.Create(ctx, ExpenseInput{Amount: money("30"), CategoryID: c.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, catalog.DeleteExpenseCategory(ctx, c.ID), repository.ErrInUse)
	assert.ErrorIs(t, catalog.DeleteExpenseCategory(ctx, 999), repository.ErrNotFound)
}
