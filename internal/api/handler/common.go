package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-portal-cms/pkg/utils"
)

// badRequest 参数绑定失败统一返回 400 业务码
func badRequest(c *gin.Context, err error) {
	utils.ErrorWithDetail(c, http.StatusBadRequest, "请求参数错误", utils.FormatValidationError(err))
}
