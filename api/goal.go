package api

import (
	"github.com/gin-gonic/gin"

	"planner/service"
)

// GoalHandler 目标处理器
type GoalHandler struct {
	goals *service.GoalService
}

// NewGoalHandler 创建目标处理器
func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// List 获取目标列表
// @Summary 获取目标列表
// @Description 返回全部目标及其关联任务的完成进度
// @Tags 目标
// @Produce json
// @Success 200 {object} Response{data=[]service.GoalView} "获取成功"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goals.List(c.Request.Context())
	if err != nil {
		Fail(c, err, "查询目标失败")
		return
	}
	Success(c, goals)
}

// Get 获取单个目标
// @Summary 获取单个目标
// @Tags 目标
// @Produce json
// @Param id path int true "目标ID"
// @Success 200 {object} Response{data=service.GoalView} "获取成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	goal, err := h.goals.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, "查询目标失败")
		return
	}
	Success(c, goal)
}

// Progress 获取目标进度
// @Summary 获取目标进度
// @Tags 目标
// @Produce json
// @Param id path int true "目标ID"
// @Success 200 {object} Response{data=tracker.Progress} "获取成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id}/progress [get]
func (h *GoalHandler) Progress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.goals.Progress(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, "计算进度失败")
		return
	}
	Success(c, p)
}

// Create 创建目标
// @Summary 创建目标
// @Tags 目标
// @Accept json
// @Produce json
// @Param request body service.GoalInput true "目标信息"
// @Success 200 {object} Response{data=service.GoalView} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req service.GoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	goal, err := h.goals.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err, "创建目标失败")
		return
	}
	SuccessWithMessage(c, "创建成功", goal)
}

// Update 更新目标
// @Summary 更新目标
// @Tags 目标
// @Accept json
// @Produce json
// @Param id path int true "目标ID"
// @Param request body service.GoalInput true "目标信息"
// @Success 200 {object} Response{data=service.GoalView} "更新成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.GoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	goal, err := h.goals.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err, "更新目标失败")
		return
	}
	SuccessWithMessage(c, "更新成功", goal)
}

// Toggle 切换目标完成状态
// @Summary 切换目标完成状态
// @Tags 目标
// @Produce json
// @Param id path int true "目标ID"
// @Success 200 {object} Response{data=service.GoalView} "操作成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id}/toggle [post]
func (h *GoalHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	goal, err := h.goals.ToggleCompleted(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, "操作失败")
		return
	}
	Success(c, goal)
}

// Delete 删除目标，关联任务解除关联后保留
// @Summary 删除目标
// @Tags 目标
// @Produce json
// @Param id path int true "目标ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.goals.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err, "删除目标失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
