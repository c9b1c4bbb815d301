package utils

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"game-portal-cms/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"` // 详细错误信息（可选）
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Size    int         `json:"size"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    errors.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// PageSuccess 分页成功响应
func PageSuccess(c *gin.Context, data interface{}, total int64, page, size int) {
	c.JSON(200, PageResponse{
		Code:    errors.CodeSuccess,
		Message: "success",
		Data:    data,
		Total:   total,
		Page:    page,
		Size:    size,
	})
}

// Error 错误响应
func Error(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		// 统一返回HTTP 200，业务错误码在response.code中
		_ = c.Error(err)
		c.JSON(200, Response{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	// 未知错误也返回HTTP 200
	_ = c.Error(err)
	c.JSON(200, Response{
		Code:    errors.CodeInternalError,
		Message: err.Error(),
	})
}

// ErrorWithCode 自定义错误响应
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(200, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetail 带详细信息的错误响应
func ErrorWithDetail(c *gin.Context, code int, message, detail string) {
	c.JSON(200, Response{
		Code:    code,
		Message: message,
		Detail:  detail,
	})
}
