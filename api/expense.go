package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"planner/repository"
	"planner/service"
	"planner/tracker"
)

// ExpenseHandler 支出记录处理器
type ExpenseHandler struct {
	expenses *service.ExpenseService
	insights *service.InsightsService
	clock    tracker.Clock
}

// NewExpenseHandler 创建支出记录处理器
func NewExpenseHandler(expenses *service.ExpenseService, insights *service.InsightsService, clock tracker.Clock) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, insights: insights, clock: clock}
}

// ExpenseListRequest 支出记录列表请求
type ExpenseListRequest struct {
	Page       int    `form:"page" example:"1"`
	Limit      int    `form:"limit" example:"20"`
	CategoryID uint   `form:"category_id" example:"2"`
	StartDate  string `form:"start_date" example:"2025-03-01"`
	EndDate    string `form:"end_date" example:"2025-03-31"`
}

// List 获取支出记录列表
// @Summary 获取支出记录列表
// @Description 按日期倒序分页返回，支持类别与日期范围筛选
// @Tags 支出
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param category_id query int false "类别ID"
// @Param start_date query string false "开始日期 (2025-03-01)"
// @Param end_date query string false "结束日期 (2025-03-31)"
// @Param created_date query string false "录入日期，按服务时区筛选当天录入的记录 (2025-03-12)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	from, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	to, ok := queryDate(c, "end_date")
	if !ok {
		return
	}
	f := repository.ExpenseFilter{
		From:   from,
		To:     to,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
	}
	if req.CategoryID > 0 {
		f.CategoryID = &req.CategoryID
	}
	created, ok := queryDate(c, "created_date")
	if !ok {
		return
	}
	if created != nil {
		w, _ := tracker.PeriodWindow(tracker.PeriodDaily, *created)
		start, end := w.TimeRange(h.clock.Now().Location())
		f.CreatedFrom, f.CreatedTo = &start, &end
	}

	expenses, total, err := h.expenses.List(c.Request.Context(), f)
	if err != nil {
		Fail(c, err, "查询失败")
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.Limit,
		List:     expenses,
	})
}

// Get 获取单条支出记录
// @Summary 获取单条支出记录
// @Tags 支出
// @Produce json
// @Param id path int true "支出记录ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := h.expenses.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, "查询失败")
		return
	}
	Success(c, e)
}

// Create 记录支出
// @Summary 记录支出
// @Description 写入后若当前周期的预算被突破且配置了邮件，会发送超支提醒
// @Tags 支出
// @Accept json
// @Produce json
// @Param request body service.ExpenseInput true "支出信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req service.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	e, err := h.expenses.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err, "创建支出记录失败")
		return
	}
	SuccessWithMessage(c, "创建成功", e)
}

// Update 更新支出记录
// @Summary 更新支出记录
// @Tags 支出
// @Accept json
// @Produce json
// @Param id path int true "支出记录ID"
// @Param request body service.ExpenseInput true "支出信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	e, err := h.expenses.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err, "更新支出记录失败")
		return
	}
	SuccessWithMessage(c, "更新成功", e)
}

// Delete 删除支出记录
// @Summary 删除支出记录
// @Tags 支出
// @Produce json
// @Param id path int true "支出记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err, "删除支出记录失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Summary 周期支出汇总
// @Summary 周期支出汇总
// @Description 按类别汇总 date 所在周期的支出，并给出日均支出与预算健康度
// @Tags 支出
// @Produce json
// @Param period query string false "周期 daily/weekly/monthly/yearly" default(monthly)
// @Param date query string false "参考日期，默认今天"
// @Success 200 {object} Response{data=service.Summary} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	period, ok := queryPeriod(c)
	if !ok {
		return
	}
	ref, ok := queryDateOrToday(c, "date", h.clock)
	if !ok {
		return
	}
	sum, err := h.insights.Summary(c.Request.Context(), period, ref)
	if err != nil {
		Fail(c, err, "统计失败")
		return
	}
	Success(c, sum)
}

// Trend 每日支出趋势
// @Summary 每日支出趋势
// @Tags 支出
// @Produce json
// @Param days query int false "天数" default(30)
// @Success 200 {object} Response{data=[]repository.DailyTotal} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/expenses/trend [get]
func (h *ExpenseHandler) Trend(c *gin.Context) {
	days := 0
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			BadRequest(c, "days 必须为正整数")
			return
		}
		days = n
	}
	trend, err := h.insights.Trend(c.Request.Context(), days)
	if err != nil {
		Fail(c, err, "统计失败")
		return
	}
	Success(c, trend)
}
