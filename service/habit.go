package service

import (
	"context"
	"strings"

	"planner/metrics"
	"planner/models"
	"planner/repository"
	"planner/tracker"
)

// HabitView 习惯详情，附带打卡日期、连续天数与本周期进度
type HabitView struct {
	models.Habit
	tracker.Streaks
	CompletedDates        []string               `json:"completed_dates"`
	CompletedToday        bool                   `json:"completed_today"`
	Progress              tracker.PeriodProgress `json:"progress"`
	MonthlyCompletionRate int                    `json:"monthly_completion_rate"`
}

// HabitInput 创建/更新习惯的参数
type HabitInput struct {
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	Frequency string `json:"frequency"`
	Goal      int    `json:"goal"`
}

// StreakState 某一时刻的打卡集合与连续天数
type StreakState struct {
	tracker.Streaks
	CompletedDates []string `json:"completed_dates"`
}

// ToggleResult 打卡切换结果
// Projected 在提交前由本地集合推算；Confirmed 仅在要求确认时由提交后的数据重新计算
type ToggleResult struct {
	HabitID   uint                 `json:"habit_id"`
	Date      tracker.Date         `json:"date"`
	Action    tracker.ToggleAction `json:"action"`
	Projected StreakState          `json:"projected"`
	Confirmed *StreakState         `json:"confirmed,omitempty"`
}

// HabitService 习惯业务
type HabitService struct {
	habits  repository.HabitRepository
	clock   tracker.Clock
	policy  tracker.StreakPolicy
	metrics *metrics.Metrics
}

// NewHabitService 创建习惯服务，m 可为 nil
func NewHabitService(habits repository.HabitRepository, clock tracker.Clock, policy tracker.StreakPolicy, m *metrics.Metrics) *HabitService {
	if policy == "" {
		policy = tracker.StreakGrace
	}
	return &HabitService{habits: habits, clock: clock, policy: policy, metrics: m}
}

func (s *HabitService) view(h models.Habit, l tracker.Ledger, today tracker.Date) HabitView {
	freq, err := tracker.ParseHabitFrequency(h.Frequency)
	if err != nil {
		freq = tracker.HabitDaily
	}
	month, _ := tracker.PeriodWindow(tracker.PeriodMonthly, today)
	return HabitView{
		Habit:                 h,
		Streaks:               s.policy.Compute(l, today),
		CompletedDates:        l.Strings(),
		CompletedToday:        l.Has(today),
		Progress:              tracker.HabitProgress(l, freq, h.Goal, today),
		MonthlyCompletionRate: tracker.CompletionRate(l, month, today),
	}
}

// List 全部习惯及其统计
func (s *HabitService) List(ctx context.Context) ([]HabitView, error) {
	habits, err := s.habits.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	ledgers, err := s.habits.Ledgers(ctx, ids)
	if err != nil {
		return nil, err
	}

	today := tracker.Today(s.clock)
	views := make([]HabitView, len(habits))
	for i, h := range habits {
		views[i] = s.view(h, ledgers[h.ID], today)
	}
	return views, nil
}

// Get 单个习惯
func (s *HabitService) Get(ctx context.Context, id uint) (*HabitView, error) {
	h, err := s.habits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	l, err := s.habits.Ledger(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*h, l, tracker.Today(s.clock))
	return &v, nil
}

// Streak 只计算连续天数
func (s *HabitService) Streak(ctx context.Context, id uint) (tracker.Streaks, error) {
	if _, err := s.habits.Get(ctx, id); err != nil {
		return tracker.Streaks{}, err
	}
	l, err := s.habits.Ledger(ctx, id)
	if err != nil {
		return tracker.Streaks{}, err
	}
	return s.policy.Compute(l, tracker.Today(s.clock)), nil
}

func normalizeHabit(in HabitInput) (models.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Habit{}, repository.Validation("习惯名称不能为空")
	}
	freq, err := tracker.ParseHabitFrequency(in.Frequency)
	if err != nil {
		return models.Habit{}, repository.Validation("%s", err.Error())
	}
	goal := in.Goal
	if goal == 0 {
		goal = 1
	}
	if goal < 1 {
		return models.Habit{}, repository.Validation("目标次数必须大于 0")
	}
	return models.Habit{Name: name, Icon: in.Icon, Frequency: string(freq), Goal: goal}, nil
}

// Create 创建习惯
func (s *HabitService) Create(ctx context.Context, in HabitInput) (*HabitView, error) {
	h, err := normalizeHabit(in)
	if err != nil {
		return nil, err
	}
	if err := s.habits.Create(ctx, &h); err != nil {
		return nil, err
	}
	v := s.view(h, tracker.NewLedger(), tracker.Today(s.clock))
	return &v, nil
}

// Update 更新习惯基本信息，不影响打卡记录
func (s *HabitService) Update(ctx context.Context, id uint, in HabitInput) (*HabitView, error) {
	h, err := normalizeHabit(in)
	if err != nil {
		return nil, err
	}
	h.ID = id
	if err := s.habits.Update(ctx, &h); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete 删除习惯及其打卡记录
func (s *HabitService) Delete(ctx context.Context, id uint) error {
	return s.habits.Delete(ctx, id)
}

// Toggle 切换某日打卡状态，date 为零值时取今天
func (s *HabitService) Toggle(ctx context.Context, id uint, date tracker.Date, confirm bool) (*ToggleResult, error) {
	today := tracker.Today(s.clock)
	if date.IsZero() {
		date = today
	}
	if date.After(today) {
		return nil, repository.Validation("不能为未来日期打卡: %s", date)
	}
	if _, err := s.habits.Get(ctx, id); err != nil {
		return nil, err
	}

	before, err := s.habits.Ledger(ctx, id)
	if err != nil {
		return nil, err
	}
	projected, expected := tracker.Toggle(before, date)

	action, err := s.habits.ToggleCompletion(ctx, id, date)
	if err != nil {
		return nil, err
	}
	if action != expected {
		// 读取与提交之间被并发修改，以存储返回的动作为准
		projected = before.Clone()
		if action == tracker.ActionAdded {
			projected[date] = struct{}{}
		} else {
			delete(projected, date)
		}
	}
	s.metrics.HabitToggled(string(action))

	res := &ToggleResult{
		HabitID: id,
		Date:    date,
		Action:  action,
		Projected: StreakState{
			Streaks:        s.policy.Compute(projected, today),
			CompletedDates: projected.Strings(),
		},
	}
	if confirm {
		after, err := s.habits.Ledger(ctx, id)
		if err != nil {
			return nil, err
		}
		res.Confirmed = &StreakState{
			Streaks:        s.policy.Compute(after, today),
			CompletedDates: after.Strings(),
		}
	}
	return res, nil
}
