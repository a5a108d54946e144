package tracker

// Progress 目标进度
type Progress struct {
	TotalTasks         int `json:"total_tasks"`
	CompletedTasks     int `json:"completed_tasks"`
	ProgressPercentage int `json:"progress_percentage"`
}

// GoalProgress 完成数 / 总数 * 100，四舍五入到整数；总数为 0 时进度为 0
func GoalProgress(total, completed int) Progress {
	return Progress{
		TotalTasks:         total,
		CompletedTasks:     completed,
		ProgressPercentage: Percentage(completed, total),
	}
}

// AggregateProgress 根据目标关联的任务 ID 与当前任务完成状态计算进度
// 已不存在于 completedByID 中的任务不计入
func AggregateProgress(linked []uint, completedByID map[uint]bool) Progress {
	total, completed := 0, 0
	seen := make(map[uint]struct{}, len(linked))
	for _, id := range linked {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		done, ok := completedByID[id]
		if !ok {
			continue
		}
		total++
		if done {
			completed++
		}
	}
	return GoalProgress(total, completed)
}

// Percentage 整数百分比，四舍五入（0.5 进位），分母非正时返回 0
func Percentage(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return (part*200 + whole) / (whole * 2)
}
