package tracker

import (
	"fmt"
	"strings"
	"time"
)

// Period 统计周期
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod 解析周期名（大小写不敏感）
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p, nil
	}
	return "", fmt.Errorf("不支持的周期: %q，可选值: daily、weekly、monthly、yearly", s)
}

// Window 闭区间日期范围 [Start, End]
type Window struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// PeriodWindow 计算参考日期所在周期的起止日期
// 周从周一开始；月末取下月第 0 天
func PeriodWindow(p Period, ref Date) (Window, error) {
	switch p {
	case PeriodDaily:
		return Window{Start: ref, End: ref}, nil
	case PeriodWeekly:
		offset := (int(ref.Weekday()) + 6) % 7
		start := ref.AddDays(-offset)
		return Window{Start: start, End: start.AddDays(6)}, nil
	case PeriodMonthly:
		return Window{
			Start: NewDate(ref.Year(), ref.Month(), 1),
			End:   NewDate(ref.Year(), ref.Month()+1, 0),
		}, nil
	case PeriodYearly:
		return Window{
			Start: NewDate(ref.Year(), time.January, 1),
			End:   NewDate(ref.Year(), time.December, 31),
		}, nil
	}
	return Window{}, fmt.Errorf("不支持的周期: %q", p)
}

// Contains 按日判断，两端都包含
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days 窗口包含的天数
func (w Window) Days() int {
	return w.End.DaysSince(w.Start) + 1
}

// TimeRange 转换为 loc 时区下的起止时刻，用于按时间列筛选
func (w Window) TimeRange(loc *time.Location) (time.Time, time.Time) {
	start := w.Start.In(loc)
	end := w.End.AddDays(1).In(loc).Add(-time.Nanosecond)
	return start, end
}
