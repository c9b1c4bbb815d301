package handler

import (
	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/utils"
)

type ProjectGameHandler struct {
	projectGameService service.ProjectGameService
}

func NewProjectGameHandler(projectGameService service.ProjectGameService) *ProjectGameHandler {
	return &ProjectGameHandler{projectGameService: projectGameService}
}

// List 项目游戏列表
// @Summary 获取项目游戏列表
// @Tags ProjectGame
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param locale query string false "语言"
// @Param published query bool false "是否已发布"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "标题关键字"
// @Success 200 {object} utils.PageResponse{data=[]dto.ProjectGameResponse}
// @Router /api/v1/projects/{id}/games [get]
func (h *ProjectGameHandler) List(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var query dto.ProjectGameListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	rows, total, err := h.projectGameService.List(c.Request.Context(), uri.ID, &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.PageSuccess(c, rows, total, query.GetPage(), query.GetPageSize())
}

// Attach 批量加入游戏
// @Summary 批量加入游戏到项目
// @Description 每个 (游戏, 语言) 生成一条项目游戏，整批校验通过后一次写入
// @Tags ProjectGame
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param request body dto.AttachGamesRequest true "加入请求"
// @Success 200 {object} utils.Response{data=[]dto.ProjectGameResponse}
// @Router /api/v1/projects/{id}/games [post]
func (h *ProjectGameHandler) Attach(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.AttachGamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rows, err := h.projectGameService.AttachBatch(c.Request.Context(), uri.ID, req.Items)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, rows)
}

// SetPublished 发布/下线
// @Summary 设置项目游戏发布状态
// @Tags ProjectGame
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param gameId path string true "游戏ID"
// @Param request body dto.SetPublishedRequest true "发布请求"
// @Success 200 {object} utils.Response{data=[]dto.ProjectGameResponse}
// @Router /api/v1/projects/{id}/games/{gameId}/publish [put]
func (h *ProjectGameHandler) SetPublished(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.SetPublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rows, err := h.projectGameService.SetPublished(c.Request.Context(), uri.ID, c.Param("gameId"), *req.Published, req.Locale)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, rows)
}

// SyncCategories 同步项目游戏分类
// @Summary 同步项目游戏分类
// @Description 项目分类必须属于该项目且处于启用状态
// @Tags ProjectGame
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param gameId path string true "游戏ID"
// @Param request body dto.SyncGameCategoriesRequest true "期望的项目分类集合"
// @Success 200 {object} utils.Response{data=[]dto.ProjectGameResponse}
// @Router /api/v1/projects/{id}/games/{gameId}/categories [put]
func (h *ProjectGameHandler) SyncCategories(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.SyncGameCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rows, err := h.projectGameService.SyncGameCategories(c.Request.Context(), uri.ID, c.Param("gameId"), req.ProjectCategoryIDs, req.Locale)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, rows)
}

// GetByID 项目游戏详情
// @Summary 获取项目游戏详情
// @Tags ProjectGame
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目游戏ID"
// @Success 200 {object} utils.Response{data=dto.ProjectGameResponse}
// @Router /api/v1/project-games/{id} [get]
func (h *ProjectGameHandler) GetByID(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	row, err := h.projectGameService.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, row)
}

// Update 更新项目游戏文案
// @Summary 更新项目游戏
// @Tags ProjectGame
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目游戏ID"
// @Param request body dto.UpdateProjectGameRequest true "更新请求"
// @Success 200 {object} utils.Response{data=dto.ProjectGameResponse}
// @Router /api/v1/project-games/{id} [put]
func (h *ProjectGameHandler) Update(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.UpdateProjectGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	row, err := h.projectGameService.Update(c.Request.Context(), uri.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, row)
}

// Detach 从项目移除游戏(单个语言)
// @Summary 删除项目游戏
// @Tags ProjectGame
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目游戏ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/project-games/{id} [delete]
func (h *ProjectGameHandler) Detach(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.projectGameService.Detach(c.Request.Context(), uri.ID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}
