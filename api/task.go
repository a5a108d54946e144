package api

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"planner/repository"
	"planner/service"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	tasks   *service.TaskService
	catalog *service.CatalogService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(tasks *service.TaskService, catalog *service.CatalogService) *TaskHandler {
	return &TaskHandler{tasks: tasks, catalog: catalog}
}

// CompleteTaskRequest 设置任务完成状态，completed 为空时取反
type CompleteTaskRequest struct {
	Completed *bool `json:"completed" example:"true"`
}

// List 获取任务列表
// @Summary 获取任务列表
// @Tags 任务
// @Produce json
// @Success 200 {object} Response{data=[]models.Task} "获取成功"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context(), repository.TaskFilter{})
	if err != nil {
		Fail(c, err, "查询任务失败")
		return
	}
	Success(c, tasks)
}

// ListByDateRange 按日期范围获取任务
// @Summary 按日期范围获取任务
// @Description 返回开始日期不早于 start_date 且结束日期不晚于 end_date 的任务
// @Tags 任务
// @Produce json
// @Param start_date query string true "开始日期 (2025-03-01)"
// @Param end_date query string true "结束日期 (2025-03-31)"
// @Success 200 {object} Response{data=[]models.Task} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/tasks/by-date-range [get]
func (h *TaskHandler) ListByDateRange(c *gin.Context) {
	from, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	to, ok := queryDate(c, "end_date")
	if !ok {
		return
	}
	if from == nil || to == nil {
		BadRequest(c, "请提供开始日期和结束日期")
		return
	}
	tasks, err := h.tasks.ListByDateRange(c.Request.Context(), *from, *to)
	if err != nil {
		Fail(c, err, "查询任务失败")
		return
	}
	Success(c, tasks)
}

// ListByGoal 获取目标下的任务
// @Summary 获取目标下的任务
// @Tags 任务
// @Produce json
// @Param goalId path int true "目标ID"
// @Success 200 {object} Response{data=[]models.Task} "获取成功"
// @Router /api/v1/tasks/goal/{goalId} [get]
func (h *TaskHandler) ListByGoal(c *gin.Context) {
	goalID, ok := parseID(c, "goalId")
	if !ok {
		return
	}
	tasks, err := h.tasks.ListByGoal(c.Request.Context(), goalID)
	if err != nil {
		Fail(c, err, "查询任务失败")
		return
	}
	Success(c, tasks)
}

// Get 获取单个任务
// @Summary 获取单个任务
// @Tags 任务
// @Produce json
// @Param id path int true "任务ID"
// @Success 200 {object} Response{data=models.Task} "获取成功"
// @Failure 404 {object} Response "任务不存在"
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, "查询任务失败")
		return
	}
	Success(c, task)
}

// Create 创建任务
// @Summary 创建任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param request body service.TaskInput true "任务信息"
// @Success 200 {object} Response{data=models.Task} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err, "创建任务失败")
		return
	}
	SuccessWithMessage(c, "创建成功", task)
}

// Update 更新任务
// @Summary 更新任务
// @Description sub_tasks 不传时保留原有子任务，传入时整体替换
// @Tags 任务
// @Accept json
// @Produce json
// @Param id path int true "任务ID"
// @Param request body service.TaskInput true "任务信息"
// @Success 200 {object} Response{data=models.Task} "更新成功"
// @Failure 404 {object} Response "任务不存在"
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err, "更新任务失败")
		return
	}
	SuccessWithMessage(c, "更新成功", task)
}

// Complete 设置任务完成状态
// @Summary 设置任务完成状态
// @Description completed 不传时切换当前状态；子任务是否联动完成取决于配置 tracker.subtask_cascade
// @Tags 任务
// @Accept json
// @Produce json
// @Param id path int true "任务ID"
// @Param request body CompleteTaskRequest false "完成状态"
// @Success 200 {object} Response{data=models.Task} "操作成功"
// @Failure 404 {object} Response "任务不存在"
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	} else {
		current, err := h.tasks.Get(c.Request.Context(), id)
		if err != nil {
			Fail(c, err, "查询任务失败")
			return
		}
		completed = !current.IsCompleted
	}

	task, err := h.tasks.SetCompleted(c.Request.Context(), id, completed)
	if err != nil {
		Fail(c, err, "操作失败")
		return
	}
	Success(c, task)
}

// Delete 删除任务及其子任务
// @Summary 删除任务
// @Tags 任务
// @Produce json
// @Param id path int true "任务ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "任务不存在"
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err, "删除任务失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// AddSubTask 添加子任务
// @Summary 添加子任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param id path int true "任务ID"
// @Param request body service.SubTaskInput true "子任务"
// @Success 200 {object} Response{data=models.SubTask} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/tasks/{id}/subtasks [post]
func (h *TaskHandler) AddSubTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.SubTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	st, err := h.tasks.AddSubTask(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err, "添加子任务失败")
		return
	}
	SuccessWithMessage(c, "创建成功", st)
}

// UpdateSubTask 更新子任务
// @Summary 更新子任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param subtaskId path int true "子任务ID"
// @Param request body service.SubTaskPatch true "需要修改的字段"
// @Success 200 {object} Response{data=models.SubTask} "更新成功"
// @Failure 404 {object} Response "子任务不存在"
// @Router /api/v1/tasks/subtasks/{subtaskId} [put]
func (h *TaskHandler) UpdateSubTask(c *gin.Context) {
	id, ok := parseID(c, "subtaskId")
	if !ok {
		return
	}
	var req service.SubTaskPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	st, err := h.tasks.UpdateSubTask(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err, "更新子任务失败")
		return
	}
	SuccessWithMessage(c, "更新成功", st)
}

// DeleteSubTask 删除子任务
// @Summary 删除子任务
// @Tags 任务
// @Produce json
// @Param subtaskId path int true "子任务ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "子任务不存在"
// @Router /api/v1/tasks/subtasks/{subtaskId} [delete]
func (h *TaskHandler) DeleteSubTask(c *gin.Context) {
	id, ok := parseID(c, "subtaskId")
	if !ok {
		return
	}
	if err := h.tasks.DeleteSubTask(c.Request.Context(), id); err != nil {
		Fail(c, err, "删除子任务失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Categories 获取任务标签
// @Summary 获取任务标签
// @Tags 任务
// @Produce json
// @Success 200 {object} Response{data=[]models.TaskCategory} "获取成功"
// @Router /api/v1/task-categories [get]
func (h *TaskHandler) Categories(c *gin.Context) {
	cats, err := h.catalog.TaskCategories(c.Request.Context())
	if err != nil {
		Fail(c, err, "查询任务标签失败")
		return
	}
	Success(c, cats)
}
