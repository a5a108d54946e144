package tracker

import (
	"fmt"
	"sort"
)

// StreakPolicy 当前连续天数的中断判定规则
type StreakPolicy string

const (
	// StreakGrace 最近一次完成为今天或昨天都视为未中断（默认）
	StreakGrace StreakPolicy = "grace"
	// StreakStrict 最近一次完成必须是今天，否则当前连续天数为 0
	StreakStrict StreakPolicy = "strict"
)

// ParseStreakPolicy 空串视为 grace
func ParseStreakPolicy(s string) (StreakPolicy, error) {
	switch StreakPolicy(s) {
	case "", StreakGrace:
		return StreakGrace, nil
	case StreakStrict:
		return StreakStrict, nil
	}
	return "", fmt.Errorf("不支持的连续天数规则: %q，可选值: grace、strict", s)
}

// Compute 按该规则计算连续天数
func (p StreakPolicy) Compute(l Ledger, today Date) Streaks {
	current := CurrentStreak(l, today)
	if p == StreakStrict && !l.Has(today) {
		current = 0
	}
	return Streaks{Current: current, Best: BestStreak(l)}
}

// Streaks 连续打卡统计
type Streaks struct {
	Current int `json:"current_streak"`
	Best    int `json:"best_streak"`
}

// ComputeStreaks 按 grace 规则计算当前连续天数与历史最长连续天数
func ComputeStreaks(l Ledger, today Date) Streaks {
	return StreakGrace.Compute(l, today)
}

// CurrentStreak 以最近一次完成日期为终点向前数连续天数
// 最近一次既不是今天也不是昨天时视为已中断，返回 0
func CurrentStreak(l Ledger, today Date) int {
	latest, ok := l.Latest()
	if !ok {
		return 0
	}
	if !latest.Equal(today) && !latest.Equal(today.AddDays(-1)) {
		return 0
	}
	n := 0
	for d := latest; l.Has(d); d = d.AddDays(-1) {
		n++
	}
	return n
}

// BestStreak 历史最长连续天数
func BestStreak(l Ledger) int {
	return LongestRun(l.Dates())
}

// LongestRun 对任意日期切片求最长连续天数
// 相邻两天差值恰为 1 才算连续，差 0（重复）或大于 1 都会重置为 1
func LongestRun(dates []Date) int {
	if len(dates) == 0 {
		return 0
	}
	sorted := make([]Date, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	best, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].DaysSince(sorted[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
