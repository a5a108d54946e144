package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabitProgress(t *testing.T) {
	today := MustParseDate("2025-03-12") // 周三
	l := NewLedger(dates("2025-03-09", "2025-03-10", "2025-03-11", "2025-03-12")...)

	weekly := HabitProgress(l, HabitWeekly, 4, today)
	assert.Equal(t, "2025-03-10", weekly.Window.Start.String())
	assert.Equal(t, 3, weekly.Completed)
	assert.Equal(t, 75, weekly.Percentage)

	daily := HabitProgress(l, HabitDaily, 1, today)
	assert.Equal(t, 1, daily.Completed)
	assert.Equal(t, 100, daily.Percentage)

	// 超过目标时封顶 100
	over := HabitProgress(l, HabitWeekly, 2, today)
	assert.Equal(t, 100, over.Percentage)

	// 目标为 0 时不除零
	assert.Equal(t, 0, HabitProgress(l, HabitDaily, 0, today).Percentage)
}

func TestCompletionRate(t *testing.T) {
	w, err := PeriodWindow(PeriodMonthly, MustParseDate("2025-03-10"))
	require.NoError(t, err)
	l := NewLedger(dates("2025-03-01", "2025-03-02", "2025-03-05")...)

	// 截至 3 月 10 日共 10 天，完成 3 天
	assert.Equal(t, 30, CompletionRate(l, w, MustParseDate("2025-03-10")))
	// 月份已结束时按整月计算
	assert.Equal(t, 10, CompletionRate(l, w, MustParseDate("2025-04-15")))
	// 窗口尚未开始
	assert.Equal(t, 0, CompletionRate(l, w, MustParseDate("2025-02-01")))
}

func TestParseHabitFrequency(t *testing.T) {
	f, err := ParseHabitFrequency("")
	require.NoError(t, err)
	assert.Equal(t, HabitDaily, f)

	f, err = ParseHabitFrequency("WEEKLY")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeekly, f.Period())

	_, err = ParseHabitFrequency("monthly")
	assert.Error(t, err)
}

func TestCascadePolicy(t *testing.T) {
	p, err := ParseCascadePolicy("")
	require.NoError(t, err)
	assert.Equal(t, CascadeIndependent, p)
	assert.False(t, p.CompletesSubtasks(true))

	p, err = ParseCascadePolicy("complete_all")
	require.NoError(t, err)
	assert.True(t, p.CompletesSubtasks(true))
	assert.False(t, p.CompletesSubtasks(false))

	_, err = ParseCascadePolicy("cascade")
	assert.Error(t, err)
}
