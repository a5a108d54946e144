package api

import (
	"github.com/gin-gonic/gin"

	"planner/service"
)

// RecurringHandler 周期性支出处理器
type RecurringHandler struct {
	recurring *service.RecurringService
}

// NewRecurringHandler 创建周期性支出处理器
func NewRecurringHandler(recurring *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurring: recurring}
}

// List 获取周期性支出模板
// @Summary 获取周期性支出模板
// @Tags 周期性支出
// @Produce json
// @Success 200 {object} Response{data=[]service.RecurringView} "获取成功"
// @Router /api/v1/recurring-expenses [get]
func (h *RecurringHandler) List(c *gin.Context) {
	list, err := h.recurring.List(c.Request.Context())
	if err != nil {
		Fail(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// Create 创建周期性支出模板
// @Summary 创建周期性支出模板
// @Tags 周期性支出
// @Accept json
// @Produce json
// @Param request body service.RecurringInput true "模板信息"
// @Success 200 {object} Response{data=service.RecurringView} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/recurring-expenses [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	var req service.RecurringInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	view, err := h.recurring.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err, "创建失败")
		return
	}
	SuccessWithMessage(c, "创建成功", view)
}

// Update 更新周期性支出模板
// @Summary 更新周期性支出模板
// @Tags 周期性支出
// @Accept json
// @Produce json
// @Param id path int true "模板ID"
// @Param request body service.RecurringInput true "模板信息"
// @Success 200 {object} Response{data=service.RecurringView} "更新成功"
// @Failure 404 {object} Response "模板不存在"
// @Router /api/v1/recurring-expenses/{id} [put]
func (h *RecurringHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.RecurringInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	view, err := h.recurring.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err, "更新失败")
		return
	}
	SuccessWithMessage(c, "更新成功", view)
}

// Delete 删除模板，已生成的支出保留
// @Summary 删除周期性支出模板
// @Tags 周期性支出
// @Produce json
// @Param id path int true "模板ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "模板不存在"
// @Router /api/v1/recurring-expenses/{id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recurring.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err, "删除失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Generate 立即生成到期的支出
// @Summary 生成到期的周期性支出
// @Description 与定时任务执行相同的逻辑，可重复调用，不会重复生成
// @Tags 周期性支出
// @Produce json
// @Success 200 {object} Response{data=service.GenerateResult} "生成完成"
// @Failure 500 {object} Response "部分模板生成失败"
// @Router /api/v1/recurring-expenses/generate [post]
func (h *RecurringHandler) Generate(c *gin.Context) {
	res, err := h.recurring.Generate(c.Request.Context())
	if err != nil {
		Fail(c, err, "生成周期性支出失败")
		return
	}
	SuccessWithMessage(c, "生成完成", res)
}
