package service

import (
	"context"
	"strings"

	"planner/models"
	"planner/repository"
	"planner/tracker"
)

// GoalView 目标及其任务进度
type GoalView struct {
	models.Goal
	tracker.Progress
}

// GoalInput 创建/更新目标的参数
type GoalInput struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	TargetDate  *tracker.Date `json:"target_date"`
	Completed   bool          `json:"completed"`
}

// GoalService 目标业务
type GoalService struct {
	goals repository.GoalRepository
}

func NewGoalService(goals repository.GoalRepository) *GoalService {
	return &GoalService{goals: goals}
}

func (s *GoalService) view(ctx context.Context, g models.Goal) (GoalView, error) {
	states, err := s.goals.TaskStates(ctx, g.ID)
	if err != nil {
		return GoalView{}, err
	}
	return GoalView{Goal: g, Progress: tracker.AggregateProgress(g.Tasks, states)}, nil
}

func (s *GoalService) List(ctx context.Context) ([]GoalView, error) {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		v, err := s.view(ctx, g)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *GoalService) Get(ctx context.Context, id uint) (*GoalView, error) {
	g, err := s.goals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, *g)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Progress 目标关联任务的完成进度
func (s *GoalService) Progress(ctx context.Context, id uint) (tracker.Progress, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return tracker.Progress{}, err
	}
	return v.Progress, nil
}

func goalFromInput(in GoalInput) (models.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Goal{}, repository.Validation("目标标题不能为空")
	}
	return models.Goal{
		Title:       title,
		Description: in.Description,
		TargetDate:  in.TargetDate,
		Completed:   in.Completed,
	}, nil
}

func (s *GoalService) Create(ctx context.Context, in GoalInput) (*GoalView, error) {
	g, err := goalFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.goals.Create(ctx, &g); err != nil {
		return nil, err
	}
	return &GoalView{Goal: g, Progress: tracker.GoalProgress(0, 0)}, nil
}

func (s *GoalService) Update(ctx context.Context, id uint, in GoalInput) (*GoalView, error) {
	g, err := goalFromInput(in)
	if err != nil {
		return nil, err
	}
	g.ID = id
	if err := s.goals.Update(ctx, &g); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ToggleCompleted 手动切换目标完成状态
func (s *GoalService) ToggleCompleted(ctx context.Context, id uint) (*GoalView, error) {
	g, err := s.goals.ToggleCompleted(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, *g)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete 删除目标，关联任务保留
func (s *GoalService) Delete(ctx context.Context, id uint) error {
	return s.goals.Delete(ctx, id)
}
