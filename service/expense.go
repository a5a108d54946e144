package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"planner/logger"
	"planner/models"
	"planner/repository"
	"planner/tracker"
)

// ExpenseInput 创建/更新支出的参数
type ExpenseInput struct {
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      uint            `json:"category_id" binding:"required"`
	Date            *tracker.Date   `json:"date"`
	Time            string          `json:"time"`
	Description     string          `json:"description"`
	PaymentMethodID *uint           `json:"payment_method_id"`
	AttachmentURL   string          `json:"attachment_url"`
	Tags            []string        `json:"tags"`
}

// ExpenseService 支出业务
type ExpenseService struct {
	expenses repository.ExpenseRepository
	budgets  *BudgetService
	clock    tracker.Clock
}

// NewExpenseService budgets 为 nil 时不做超支提醒
func NewExpenseService(expenses repository.ExpenseRepository, budgets *BudgetService, clock tracker.Clock) *ExpenseService {
	return &ExpenseService{expenses: expenses, budgets: budgets, clock: clock}
}

func (s *ExpenseService) expenseFromInput(in ExpenseInput) (models.Expense, error) {
	if !in.Amount.IsPositive() {
		return models.Expense{}, repository.Validation("金额必须大于 0")
	}
	if in.CategoryID == 0 {
		return models.Expense{}, repository.Validation("请选择类别")
	}
	date := tracker.Today(s.clock)
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return models.Expense{
		Amount:          in.Amount.Round(2),
		CategoryID:      in.CategoryID,
		Date:            date,
		Time:            in.Time,
		Description:     strings.TrimSpace(in.Description),
		PaymentMethodID: in.PaymentMethodID,
		AttachmentURL:   in.AttachmentURL,
		Tags:            tags,
	}, nil
}

// List 分页查询，返回总数
func (s *ExpenseService) List(ctx context.Context, f repository.ExpenseFilter) ([]models.Expense, int64, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, 0, repository.Validation("结束日期不能早于开始日期")
	}
	return s.expenses.List(ctx, f)
}

func (s *ExpenseService) Get(ctx context.Context, id uint) (*models.Expense, error) {
	return s.expenses.Get(ctx, id)
}

// Create 记录支出，写入成功后检查预算；提醒失败只记录日志
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	e, err := s.expenseFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.expenses.Create(ctx, &e); err != nil {
		return nil, err
	}
	if s.budgets != nil {
		if _, err := s.budgets.CheckAlert(ctx, e); err != nil {
			logger.Warn("预算提醒失败", "expense_id", e.ID, "err", err)
		}
	}
	return &e, nil
}

func (s *ExpenseService) Update(ctx context.Context, id uint, in ExpenseInput) (*models.Expense, error) {
	e, err := s.expenseFromInput(in)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.expenses.Update(ctx, &e); err != nil {
		return nil, err
	}
	return s.expenses.Get(ctx, id)
}

func (s *ExpenseService) Delete(ctx context.Context, id uint) error {
	return s.expenses.Delete(ctx, id)
}

// CategoryInput 自定义支出类别
type CategoryInput struct {
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CatalogService 类别、标签与支付方式
type CatalogService struct {
	catalog repository.CatalogRepository
}

func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	return s.catalog.ExpenseCategories(ctx)
}

func (s *CatalogService) CreateExpenseCategory(ctx context.Context, in CategoryInput) (*models.ExpenseCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, repository.Validation("类别名称不能为空")
	}
	c := models.ExpenseCategory{Name: name, Icon: in.Icon, Color: in.Color}
	if c.Color == "" {
		c.Color = "#64748b"
	}
	if err := s.catalog.CreateExpenseCategory(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteExpenseCategory 仍有支出使用时返回 repository.ErrInUse
func (s *CatalogService) DeleteExpenseCategory(ctx context.Context, id uint) error {
	return s.catalog.DeleteExpenseCategory(ctx, id)
}

func (s *CatalogService) TaskCategories(ctx context.Context) ([]models.TaskCategory, error) {
	return s.catalog.TaskCategories(ctx)
}

func (s *CatalogService) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return s.catalog.PaymentMethods(ctx)
}
