package tracker

import "fmt"

// CascadePolicy 任务完成时子任务的联动策略
type CascadePolicy string

const (
	// CascadeIndependent 子任务独立完成（默认）
	CascadeIndependent CascadePolicy = "independent"
	// CascadeCompleteAll 任务标记完成时同时完成全部子任务
	CascadeCompleteAll CascadePolicy = "complete_all"
)

// ParseCascadePolicy 空串视为 independent
func ParseCascadePolicy(s string) (CascadePolicy, error) {
	switch CascadePolicy(s) {
	case "", CascadeIndependent:
		return CascadeIndependent, nil
	case CascadeCompleteAll:
		return CascadeCompleteAll, nil
	}
	return "", fmt.Errorf("不支持的子任务联动策略: %q，可选值: independent、complete_all", s)
}

// CompletesSubtasks 任务完成状态变为 completed 时是否需要联动完成子任务
func (p CascadePolicy) CompletesSubtasks(completed bool) bool {
	return p == CascadeCompleteAll && completed
}
