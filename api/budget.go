package api

import (
	"github.com/gin-gonic/gin"

	"planner/service"
	"planner/tracker"
)

// BudgetHandler 预算处理器
type BudgetHandler struct {
	budgets *service.BudgetService
	clock   tracker.Clock
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler(budgets *service.BudgetService, clock tracker.Clock) *BudgetHandler {
	return &BudgetHandler{budgets: budgets, clock: clock}
}

// List 获取预算列表
// @Summary 获取预算列表
// @Tags 预算
// @Produce json
// @Success 200 {object} Response{data=[]models.Budget} "获取成功"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	list, err := h.budgets.List(c.Request.Context())
	if err != nil {
		Fail(c, err, "查询预算失败")
		return
	}
	Success(c, list)
}

// Upsert 设置预算
// @Summary 设置预算
// @Description 同一类别、周期、起始日期只保留一条，重复提交覆盖金额
// @Tags 预算
// @Accept json
// @Produce json
// @Param request body service.BudgetInput true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "保存成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Upsert(c *gin.Context) {
	var req service.BudgetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	b, err := h.budgets.Upsert(c.Request.Context(), req)
	if err != nil {
		Fail(c, err, "保存预算失败")
		return
	}
	SuccessWithMessage(c, "保存成功", b)
}

// Status 预算执行情况
// @Summary 预算执行情况
// @Description 返回 date 当天生效的每个预算在其周期内的已用金额与使用比例
// @Tags 预算
// @Produce json
// @Param date query string false "参考日期，默认今天"
// @Success 200 {object} Response{data=[]service.BudgetStatus} "获取成功"
// @Router /api/v1/budgets/status [get]
func (h *BudgetHandler) Status(c *gin.Context) {
	ref, ok := queryDateOrToday(c, "date", h.clock)
	if !ok {
		return
	}
	st, err := h.budgets.Status(c.Request.Context(), ref)
	if err != nil {
		Fail(c, err, "统计预算失败")
		return
	}
	Success(c, st)
}
