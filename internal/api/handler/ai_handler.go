package handler

import (
	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/utils"
)

type AIHandler struct {
	aiService service.AIService
}

func NewAIHandler(aiService service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// Generate 生成文案
// @Summary AI 生成游戏文案
// @Description 按任务类型组装提示词，优先使用项目自身的 AI 配置
// @Tags AI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateRequest true "生成请求"
// @Success 200 {object} utils.Response{data=dto.GenerateResponse}
// @Router /api/v1/ai/generate [post]
func (h *AIHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.aiService.Generate(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, resp)
}
