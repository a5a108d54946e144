package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"planner/logger"
	"planner/metrics"
	"planner/models"
	"planner/repository"
	"planner/tracker"
)

// RecurringInput 周期性支出模板参数
type RecurringInput struct {
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      uint            `json:"category_id" binding:"required"`
	Description     string          `json:"description"`
	Frequency       string          `json:"frequency" binding:"required"`
	StartDate       tracker.Date    `json:"start_date"`
	EndDate         *tracker.Date   `json:"end_date"`
	PaymentMethodID *uint           `json:"payment_method_id"`
	Tags            []string        `json:"tags"`
	IsActive        *bool           `json:"is_active"`
}

// RecurringView 模板及下次发生日期
type RecurringView struct {
	models.RecurringExpense
	NextDate *tracker.Date `json:"next_date"`
}

// GenerateResult 一次生成的汇总
type GenerateResult struct {
	Date      tracker.Date     `json:"date"`
	Templates int              `json:"templates"`
	Generated int              `json:"generated"`
	Expenses  []models.Expense `json:"expenses"`
}

// RecurringService 周期性支出业务
type RecurringService struct {
	recurring repository.RecurringRepository
	clock     tracker.Clock
	metrics   *metrics.Metrics
}

func NewRecurringService(recurring repository.RecurringRepository, clock tracker.Clock, m *metrics.Metrics) *RecurringService {
	return &RecurringService{recurring: recurring, clock: clock, metrics: m}
}

func (s *RecurringService) view(r models.RecurringExpense) RecurringView {
	v := RecurringView{RecurringExpense: r}
	if !r.IsActive {
		return v
	}
	after := tracker.Today(s.clock)
	if r.LastGenerated != nil && r.LastGenerated.After(after) {
		after = *r.LastGenerated
	}
	if next, ok := tracker.NextOccurrence(r.Schedule(), after); ok {
		v.NextDate = &next
	}
	return v
}

func (s *RecurringService) List(ctx context.Context) ([]RecurringView, error) {
	items, err := s.recurring.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RecurringView, len(items))
	for i, r := range items {
		views[i] = s.view(r)
	}
	return views, nil
}

func (s *RecurringService) Get(ctx context.Context, id uint) (*RecurringView, error) {
	r, err := s.recurring.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*r)
	return &v, nil
}

func recurringFromInput(in RecurringInput) (models.RecurringExpense, error) {
	if !in.Amount.IsPositive() {
		return models.RecurringExpense{}, repository.Validation("金额必须大于 0")
	}
	if in.CategoryID == 0 {
		return models.RecurringExpense{}, repository.Validation("请选择类别")
	}
	freq, err := tracker.ParseFrequency(in.Frequency)
	if err != nil {
		return models.RecurringExpense{}, repository.Validation("%s", err.Error())
	}
	if in.StartDate.IsZero() {
		return models.RecurringExpense{}, repository.Validation("开始日期不能为空")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return models.RecurringExpense{}, repository.Validation("结束日期不能早于开始日期")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return models.RecurringExpense{
		Amount:          in.Amount.Round(2),
		CategoryID:      in.CategoryID,
		Description:     strings.TrimSpace(in.Description),
		Frequency:       string(freq),
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		PaymentMethodID: in.PaymentMethodID,
		Tags:            in.Tags,
		IsActive:        active,
	}, nil
}

func (s *RecurringService) Create(ctx context.Context, in RecurringInput) (*RecurringView, error) {
	r, err := recurringFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.recurring.Create(ctx, &r); err != nil {
		return nil, err
	}
	v := s.view(r)
	return &v, nil
}

// Update 更新模板，已生成的支出不受影响
func (s *RecurringService) Update(ctx context.Context, id uint, in RecurringInput) (*RecurringView, error) {
	r, err := recurringFromInput(in)
	if err != nil {
		return nil, err
	}
	r.ID = id
	if err := s.recurring.Update(ctx, &r); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *RecurringService) Delete(ctx context.Context, id uint) error {
	return s.recurring.Delete(ctx, id)
}

// Generate 为所有启用的模板补齐截至今天应发生的支出
// 单个模板失败不影响其他模板，错误合并返回
func (s *RecurringService) Generate(ctx context.Context) (*GenerateResult, error) {
	today := tracker.Today(s.clock)
	items, err := s.recurring.Active(ctx)
	if err != nil {
		s.metrics.RecurringRun(0, err)
		return nil, err
	}

	res := &GenerateResult{Date: today, Expenses: []models.Expense{}}
	var errs []error
	for i := range items {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		item := &items[i]
		due := tracker.DueOccurrences(item.Schedule(), today)
		if len(due) == 0 {
			continue
		}
		created, err := s.recurring.Materialize(ctx, item, due)
		if err != nil {
			logger.Error("生成周期性支出失败", "recurring_id", item.ID, "err", err)
			errs = append(errs, fmt.Errorf("周期性支出 #%d: %w", item.ID, err))
			continue
		}
		res.Templates++
		res.Generated += len(created)
		res.Expenses = append(res.Expenses, created...)
		logger.Debug("已生成周期性支出", "recurring_id", item.ID, "count", len(created), "last", due[len(due)-1])
	}

	err = errors.Join(errs...)
	s.metrics.RecurringRun(res.Generated, err)
	if res.Generated > 0 {
		logger.Info("周期性支出生成完成", "templates", res.Templates, "generated", res.Generated)
	}
	return res, err
}
