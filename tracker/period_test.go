package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		period Period
		ref    string
		start  string
		end    string
	}{
		{PeriodDaily, "2025-03-12", "2025-03-12", "2025-03-12"},
		// 2025-03-12 是周三
		{PeriodWeekly, "2025-03-12", "2025-03-10", "2025-03-16"},
		// 周一、周日都落在同一周
		{PeriodWeekly, "2025-03-10", "2025-03-10", "2025-03-16"},
		{PeriodWeekly, "2025-03-16", "2025-03-10", "2025-03-16"},
		// 跨年的一周
		{PeriodWeekly, "2025-01-01", "2024-12-30", "2025-01-05"},
		{PeriodMonthly, "2025-02-15", "2025-02-01", "2025-02-28"},
		{PeriodMonthly, "2024-02-15", "2024-02-01", "2024-02-29"},
		{PeriodMonthly, "2025-12-31", "2025-12-01", "2025-12-31"},
		{PeriodYearly, "2025-07-04", "2025-01-01", "2025-12-31"},
	}
	for _, tt := range tests {
		t.Run(string(tt.period)+"_"+tt.ref, func(t *testing.T) {
			w, err := PeriodWindow(tt.period, MustParseDate(tt.ref))
			require.NoError(t, err)
			assert.Equal(t, tt.start, w.Start.String())
			assert.Equal(t, tt.end, w.End.String())
			assert.True(t, w.Contains(MustParseDate(tt.ref)))
		})
	}
}

func TestPeriodWindow_WeekStartsMonday(t *testing.T) {
	w, err := PeriodWindow(PeriodWeekly, MustParseDate("2025-03-12"))
	require.NoError(t, err)
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, time.Sunday, w.End.Weekday())
	assert.Equal(t, 7, w.Days())
}

func TestPeriodWindow_Invalid(t *testing.T) {
	_, err := PeriodWindow(Period("hourly"), MustParseDate("2025-03-12"))
	assert.Error(t, err)

	_, err = ParsePeriod("hourly")
	assert.Error(t, err)

	p, err := ParsePeriod(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, p)
}

func TestWindow_Contains(t *testing.T) {
	w := Window{Start: MustParseDate("2025-03-01"), End: MustParseDate("2025-03-31")}
	assert.True(t, w.Contains(MustParseDate("2025-03-01")))
	assert.True(t, w.Contains(MustParseDate("2025-03-31")))
	assert.False(t, w.Contains(MustParseDate("2025-02-28")))
	assert.False(t, w.Contains(MustParseDate("2025-04-01")))
	assert.Equal(t, 31, w.Days())
}

func TestWindow_TimeRange(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	w := Window{Start: MustParseDate("2025-03-01"), End: MustParseDate("2025-03-02")}

	start, end := w.TimeRange(loc)
	assert.True(t, start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2025, 3, 2, 23, 59, 59, 999999999, loc)))
}
