package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/logger"
	"planner/repository"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Conflict 409 错误响应
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}


// Fail 按仓储层错误类型选择状态码
// 校验、引用类错误的内容面向用户，直接返回；其余错误经 SafeErrorMessage 处理
func Fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrInUse):
		Conflict(c, err.Error())
	case errors.Is(err, repository.ErrValidation), errors.Is(err, repository.ErrInvalidReference):
		BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		logger.Error(fallback, "error", err, "path", c.Request.URL.Path)
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
