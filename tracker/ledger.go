package tracker

import "sort"

// ToggleAction 打卡切换结果
type ToggleAction string

const (
	ActionAdded   ToggleAction = "added"
	ActionRemoved ToggleAction = "removed"
)

// Ledger 完成记录：某习惯被标记完成的日期集合
type Ledger map[Date]struct{}

// NewLedger 由日期列表构造，重复日期自动去重
func NewLedger(dates ...Date) Ledger {
	l := make(Ledger, len(dates))
	for _, d := range dates {
		l[d] = struct{}{}
	}
	return l
}

// ParseLedger 由 YYYY-MM-DD 字符串构造，遇到非法日期立即返回错误
func ParseLedger(values []string) (Ledger, error) {
	l := make(Ledger, len(values))
	for _, v := range values {
		d, err := ParseDate(v)
		if err != nil {
			return nil, err
		}
		l[d] = struct{}{}
	}
	return l, nil
}

func (l Ledger) Has(d Date) bool {
	_, ok := l[d]
	return ok
}

func (l Ledger) Len() int { return len(l) }

// Dates 升序返回所有日期
func (l Ledger) Dates() []Date {
	out := make([]Date, 0, len(l))
	for d := range l {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Strings 升序返回 YYYY-MM-DD 列表
func (l Ledger) Strings() []string {
	dates := l.Dates()
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

// Latest 最近一次完成日期
func (l Ledger) Latest() (Date, bool) {
	var latest Date
	found := false
	for d := range l {
		if !found || d.After(latest) {
			latest = d
			found = true
		}
	}
	return latest, found
}

func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	for d := range l {
		c[d] = struct{}{}
	}
	return c
}

// CountIn 统计落在窗口内的完成天数
func (l Ledger) CountIn(w Window) int {
	n := 0
	for d := range l {
		if w.Contains(d) {
			n++
		}
	}
	return n
}

// Toggle 翻转某日的完成状态：存在则移除，不存在则加入
// 不修改入参，返回新的记录集合以及发生的动作
func Toggle(l Ledger, d Date) (Ledger, ToggleAction) {
	next := l.Clone()
	if next.Has(d) {
		delete(next, d)
		return next, ActionRemoved
	}
	next[d] = struct{}{}
	return next, ActionAdded
}
