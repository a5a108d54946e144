package api

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"planner/service"
	"planner/tracker"
)

// HabitHandler 习惯处理器
type HabitHandler struct {
	habits *service.HabitService
}

// NewHabitHandler 创建习惯处理器
func NewHabitHandler(habits *service.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

// ToggleRequest 打卡请求，date 为空表示今天
type ToggleRequest struct {
	Date tracker.Date `json:"date" swaggertype:"string" example:"2025-03-12"`
}

// List 获取习惯列表
// @Summary 获取习惯列表
// @Description 返回全部习惯及其连续天数、本周期进度和本月完成率
// @Tags 习惯
// @Produce json
// @Success 200 {object} Response{data=[]service.HabitView} "获取成功"
// @Router /api/v1/habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	views, err := h.habits.List(c.Request.Context())
	if err != nil {
		Fail(c, err, "查询习惯失败")
		return
	}
	Success(c, views)
}

// Get 获取单个习惯
// @Summary 获取单个习惯
// @Tags 习惯
// @Produce json
// @Param id path int true "习惯ID"
// @Success 200 {object} Response{data=service.HabitView} "获取成功"
// @Failure 404 {object} Response "习惯不存在"
// @Router /api/v1/habits/{id} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.habits.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, "查询习惯失败")
		return
	}
	Success(c, view)
}

// Streak 获取连续天数
// @Summary 获取连续天数
// @Tags 习惯
// @Produce json
// @Param id path int true "习惯ID"
// @Success 200 {object} Response{data=tracker.Streaks} "获取成功"
// @Failure 404 {object} Response "习惯不存在"
// @Router /api/v1/habits/{id}/streak [get]
func (h *HabitHandler) Streak(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	streaks, err := h.habits.Streak(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, "计算连续天数失败")
		return
	}
	Success(c, streaks)
}

// Create 创建习惯
// @Summary 创建习惯
// @Tags 习惯
// @Accept json
// @Produce json
// @Param request body service.HabitInput true "习惯信息"
// @Success 200 {object} Response{data=service.HabitView} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	var req service.HabitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	view, err := h.habits.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err, "创建习惯失败")
		return
	}
	SuccessWithMessage(c, "创建成功", view)
}

// Update 更新习惯
// @Summary 更新习惯
// @Tags 习惯
// @Accept json
// @Produce json
// @Param id path int true "习惯ID"
// @Param request body service.HabitInput true "习惯信息"
// @Success 200 {object} Response{data=service.HabitView} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "习惯不存在"
// @Router /api/v1/habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.HabitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	view, err := h.habits.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err, "更新习惯失败")
		return
	}
	SuccessWithMessage(c, "更新成功", view)
}

// Delete 删除习惯，打卡记录一并删除
// @Summary 删除习惯
// @Tags 习惯
// @Produce json
// @Param id path int true "习惯ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "习惯不存在"
// @Router /api/v1/habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.habits.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err, "删除习惯失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Complete 切换某日打卡状态
// @Summary 打卡 / 取消打卡
// @Description 已打卡则取消，未打卡则记录。projected 为按本次操作推算的结果，confirm=true 时额外返回存储中的最新结果
// @Tags 习惯
// @Accept json
// @Produce json
// @Param id path int true "习惯ID"
// @Param confirm query bool false "是否回读确认"
// @Param request body ToggleRequest false "打卡日期"
// @Success 200 {object} Response{data=service.ToggleResult} "操作成功"
// @Failure 400 {object} Response "日期无效"
// @Failure 404 {object} Response "习惯不存在"
// @Router /api/v1/habits/{id}/complete [post]
func (h *HabitHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	confirm := c.Query("confirm") == "true" || c.Query("confirm") == "1"

	res, err := h.habits.Toggle(c.Request.Context(), id, req.Date, confirm)
	if err != nil {
		Fail(c, err, "打卡失败")
		return
	}
	Success(c, res)
}
