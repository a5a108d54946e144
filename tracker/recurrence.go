package tracker

import (
	"fmt"
	"strings"
	"time"
)

// Frequency 周期性支出频率
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// MaxOccurrencesPerRun 单次生成的上限，防止很久未运行后一次写入过多
const MaxOccurrencesPerRun = 1000

// ParseFrequency 解析频率名
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if f.valid() {
		return f, nil
	}
	return "", fmt.Errorf("不支持的频率: %q，可选值: daily、weekly、monthly、yearly", s)
}

// Schedule 周期计划
type Schedule struct {
	Frequency     Frequency
	Start         Date
	End           *Date
	LastGenerated *Date
}

// Occurrence 返回从 start 起第 n 次（n 从 0 开始）发生的日期
// 按月/按年时锚定 start 的日，遇到短月取当月最后一天（1-31 → 2-28 → 3-31）
func Occurrence(f Frequency, start Date, n int) Date {
	switch f {
	case FrequencyDaily:
		return start.AddDays(n)
	case FrequencyWeekly:
		return start.AddDays(7 * n)
	case FrequencyMonthly:
		return addMonthsClamped(start, n)
	case FrequencyYearly:
		return addMonthsClamped(start, 12*n)
	}
	return start
}

func addMonthsClamped(d Date, months int) Date {
	first := NewDate(d.Year(), d.Month()+time.Month(months), 1)
	last := NewDate(first.Year(), first.Month()+1, 0).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

// DueOccurrences 返回截至 today（且不晚于结束日期）尚未生成的发生日期，升序
func DueOccurrences(s Schedule, today Date) []Date {
	if s.Start.IsZero() || !s.Frequency.valid() {
		return nil
	}
	limit := today
	if s.End != nil && !s.End.IsZero() && s.End.Before(limit) {
		limit = *s.End
	}

	var due []Date
	for n := 0; ; n++ {
		d := Occurrence(s.Frequency, s.Start, n)
		if d.After(limit) {
			break
		}
		if s.LastGenerated != nil && !d.After(*s.LastGenerated) {
			continue
		}
		due = append(due, d)
		if len(due) >= MaxOccurrencesPerRun {
			break
		}
	}
	return due
}

// NextOccurrence 返回 after 之后的下一次发生日期，计划已结束时返回 false
func NextOccurrence(s Schedule, after Date) (Date, bool) {
	if s.Start.IsZero() || !s.Frequency.valid() {
		return Date{}, false
	}
	n := 0
	if !after.Before(s.Start) {
		switch s.Frequency {
		case FrequencyDaily:
			n = after.DaysSince(s.Start)
		case FrequencyWeekly:
			n = after.DaysSince(s.Start) / 7
		}
	}
	for ; ; n++ {
		d := Occurrence(s.Frequency, s.Start, n)
		if !d.After(after) {
			continue
		}
		if s.End != nil && !s.End.IsZero() && d.After(*s.End) {
			return Date{}, false
		}
		return d, true
	}
}

func (f Frequency) valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}
