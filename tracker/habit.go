package tracker

import (
	"fmt"
	"strings"
)

// HabitFrequency 习惯声明的频率；连续天数计算始终按天，不受此影响
type HabitFrequency string

const (
	HabitDaily  HabitFrequency = "daily"
	HabitWeekly HabitFrequency = "weekly"
)

// ParseHabitFrequency 空串默认 daily
func ParseHabitFrequency(s string) (HabitFrequency, error) {
	f := HabitFrequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return HabitDaily, nil
	case HabitDaily, HabitWeekly:
		return f, nil
	}
	return "", fmt.Errorf("不支持的习惯频率: %q，可选值: daily、weekly", s)
}

// Period 对应的统计周期
func (f HabitFrequency) Period() Period {
	if f == HabitWeekly {
		return PeriodWeekly
	}
	return PeriodDaily
}

// PeriodProgress 当前周期内的完成情况，仅用于展示进度条
type PeriodProgress struct {
	Window     Window `json:"window"`
	Completed  int    `json:"completed"`
	Goal       int    `json:"goal"`
	Percentage int    `json:"percentage"`
}

// HabitProgress 统计 today 所在周期（按习惯频率）内的完成次数，百分比封顶 100
func HabitProgress(l Ledger, freq HabitFrequency, goal int, today Date) PeriodProgress {
	w, _ := PeriodWindow(freq.Period(), today)
	done := l.CountIn(w)
	pct := Percentage(done, goal)
	if pct > 100 {
		pct = 100
	}
	return PeriodProgress{Window: w, Completed: done, Goal: goal, Percentage: pct}
}

// CompletionRate 窗口内截至 today 已过去的天数中完成的比例（整数百分比）
func CompletionRate(l Ledger, w Window, today Date) int {
	if today.Before(w.Start) {
		return 0
	}
	end := w.End
	if today.Before(end) {
		end = today
	}
	elapsed := Window{Start: w.Start, End: end}
	return Percentage(l.CountIn(elapsed), elapsed.Days())
}
