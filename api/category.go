package api

import (
	"github.com/gin-gonic/gin"

	"planner/service"
)

// CategoryHandler 支出类别与支付方式
type CategoryHandler struct {
	catalog *service.CatalogService
}

func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// List 列出所有支出类别，按 sort 升序
// @Summary 获取支出类别列表
// @Tags 支出类别
// @Produce json
// @Success 200 {object} Response{data=[]models.ExpenseCategory} "获取成功"
// @Router /api/v1/expense-categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.catalog.ExpenseCategories(c.Request.Context())
	if err != nil {
		Fail(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// Create 创建自定义类别
// @Summary 创建支出类别
// @Description 名称唯一，color 为空时使用 #64748b
// @Tags 支出类别
// @Accept json
// @Produce json
// @Param request body service.CategoryInput true "类别信息"
// @Success 200 {object} Response{data=models.ExpenseCategory} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 409 {object} Response "类别名称已存在"
// @Router /api/v1/expense-categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	cat, err := h.catalog.CreateExpenseCategory(c.Request.Context(), req)
	if err != nil {
		Fail(c, err, "创建类别失败")
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// Delete 删除类别
// @Summary 删除支出类别
// @Tags 支出类别
// @Produce json
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Failure 409 {object} Response "仍有支出使用该类别"
// @Router /api/v1/expense-categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteExpenseCategory(c.Request.Context(), id); err != nil {
		Fail(c, err, "删除类别失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// PaymentMethods 支付方式列表
// @Summary 获取支付方式列表
// @Tags 支出类别
// @Produce json
// @Success 200 {object} Response{data=[]models.PaymentMethod} "获取成功"
// @Router /api/v1/payment-methods [get]
func (h *CategoryHandler) PaymentMethods(c *gin.Context) {
	list, err := h.catalog.PaymentMethods(c.Request.Context())
	if err != nil {
		Fail(c, err, "查询失败")
		return
	}
	Success(c, list)
}
