package service

import (
	"context"
	"strings"

	"planner/models"
	"planner/repository"
	"planner/tracker"
)

// SubTaskInput 子任务参数
type SubTaskInput struct {
	Text      string `json:"text" binding:"required"`
	Completed bool   `json:"completed"`
}

// TaskInput 创建/更新任务的参数
// 更新时 SubTasks 为 nil 表示保留原有子任务，非 nil（包括空数组）表示整体替换
type TaskInput struct {
	Text            string         `json:"text" binding:"required"`
	Time            string         `json:"time"`
	StartDate       *tracker.Date  `json:"start_date"`
	EndDate         *tracker.Date  `json:"end_date"`
	Tag             string         `json:"tag"`
	TagColor        string         `json:"tag_color"`
	IsCompleted     bool           `json:"is_completed"`
	Description     string         `json:"description"`
	GoalID          *uint          `json:"goal_id"`
	HabitID         *uint          `json:"habit_id"`
	IsRepetitive    bool           `json:"is_repetitive"`
	RepeatFrequency string         `json:"repeat_frequency"`
	SubTasks        []SubTaskInput `json:"sub_tasks"`
}

// SubTaskPatch 子任务局部更新
type SubTaskPatch struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// TaskService 任务业务
type TaskService struct {
	tasks   repository.TaskRepository
	cascade tracker.CascadePolicy
}

func NewTaskService(tasks repository.TaskRepository, cascade tracker.CascadePolicy) *TaskService {
	if cascade == "" {
		cascade = tracker.CascadeIndependent
	}
	return &TaskService{tasks: tasks, cascade: cascade}
}

func (s *TaskService) taskFromInput(in TaskInput) (models.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return models.Task{}, repository.Validation("任务内容不能为空")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return models.Task{}, repository.Validation("结束日期不能早于开始日期")
	}
	freq := ""
	if in.IsRepetitive {
		f, err := tracker.ParseFrequency(in.RepeatFrequency)
		if err != nil {
			return models.Task{}, repository.Validation("%s", err.Error())
		}
		freq = string(f)
	}

	t := models.Task{
		Text:            text,
		Time:            in.Time,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Tag:             in.Tag,
		TagColor:        in.TagColor,
		IsCompleted:     in.IsCompleted,
		Description:     in.Description,
		GoalID:          in.GoalID,
		HabitID:         in.HabitID,
		IsRepetitive:    in.IsRepetitive,
		RepeatFrequency: freq,
	}
	if in.SubTasks != nil {
		completeAll := s.cascade.CompletesSubtasks(in.IsCompleted)
		t.SubTasks = make([]models.SubTask, 0, len(in.SubTasks))
		for _, st := range in.SubTasks {
			st.Text = strings.TrimSpace(st.Text)
			if st.Text == "" {
				return models.Task{}, repository.Validation("子任务内容不能为空")
			}
			t.SubTasks = append(t.SubTasks, models.SubTask{
				Text:      st.Text,
				Completed: st.Completed || completeAll,
			})
		}
	}
	return t, nil
}

// List 查询任务
func (s *TaskService) List(ctx context.Context, f repository.TaskFilter) ([]models.Task, error) {
	return s.tasks.List(ctx, f)
}

// ListByDateRange 开始日期不早于 from 且结束日期不晚于 to 的任务
func (s *TaskService) ListByDateRange(ctx context.Context, from, to tracker.Date) ([]models.Task, error) {
	if to.Before(from) {
		return nil, repository.Validation("结束日期不能早于开始日期")
	}
	return s.tasks.List(ctx, repository.TaskFilter{From: &from, To: &to})
}

func (s *TaskService) ListByGoal(ctx context.Context, goalID uint) ([]models.Task, error) {
	return s.tasks.List(ctx, repository.TaskFilter{GoalID: &goalID})
}

func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	return s.tasks.Get(ctx, id)
}

// Create 创建任务及子任务
func (s *TaskService) Create(ctx context.Context, in TaskInput) (*models.Task, error) {
	t, err := s.taskFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update 更新任务
func (s *TaskService) Update(ctx context.Context, id uint, in TaskInput) (*models.Task, error) {
	t, err := s.taskFromInput(in)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := s.tasks.Update(ctx, &t, in.SubTasks != nil); err != nil {
		return nil, err
	}
	if in.SubTasks == nil && s.cascade.CompletesSubtasks(in.IsCompleted) {
		return s.tasks.SetCompleted(ctx, id, true, true)
	}
	return s.tasks.Get(ctx, id)
}

// SetCompleted 设置任务完成状态，子任务是否联动由策略决定
func (s *TaskService) SetCompleted(ctx context.Context, id uint, completed bool) (*models.Task, error) {
	return s.tasks.SetCompleted(ctx, id, completed, s.cascade.CompletesSubtasks(completed))
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.tasks.Delete(ctx, id)
}

// AddSubTask 追加子任务
func (s *TaskService) AddSubTask(ctx context.Context, taskID uint, in SubTaskInput) (*models.SubTask, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, repository.Validation("子任务内容不能为空")
	}
	st := models.SubTask{TaskID: taskID, Text: text, Completed: in.Completed}
	if err := s.tasks.AddSubTask(ctx, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *TaskService) UpdateSubTask(ctx context.Context, id uint, p SubTaskPatch) (*models.SubTask, error) {
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return nil, repository.Validation("子任务内容不能为空")
		}
		p.Text = &text
	}
	return s.tasks.UpdateSubTask(ctx, id, p.Text, p.Completed)
}

func (s *TaskService) DeleteSubTask(ctx context.Context, id uint) error {
	return s.tasks.DeleteSubTask(ctx, id)
}
