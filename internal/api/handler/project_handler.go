package handler

import (
	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/utils"
)

type ProjectHandler struct {
	projectService         service.ProjectService
	projectCategoryService service.ProjectCategoryService
	gameService            service.GameService
}

func NewProjectHandler(
	projectService service.ProjectService,
	projectCategoryService service.ProjectCategoryService,
	gameService service.GameService,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:         projectService,
		projectCategoryService: projectCategoryService,
		gameService:            gameService,
	}
}

// List 项目列表
// @Summary 获取全部项目
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=[]dto.ProjectResponse}
// @Router /api/v1/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, projects)
}

// GetByID 项目详情
// @Summary 获取项目详情
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Success 200 {object} utils.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, project)
}

// Create 创建项目
// @Summary 创建项目
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateProjectRequest true "创建项目请求"
// @Success 200 {object} utils.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, project)
}

// Update 更新项目
// @Summary 更新项目
// @Description 移除仍有项目游戏的语言会被拒绝
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param request body dto.UpdateProjectRequest true "更新项目请求"
// @Success 200 {object} utils.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), uri.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, project)
}

// Delete 删除项目
// @Summary 删除项目
// @Description 级联删除项目分类、项目游戏及其分类与评论
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), uri.ID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}

// ListCategories 项目分类绑定
// @Summary 获取项目分类
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Success 200 {object} utils.Response{data=[]dto.ProjectCategoryResponse}
// @Router /api/v1/projects/{id}/categories [get]
func (h *ProjectHandler) ListCategories(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	bindings, err := h.projectCategoryService.ListBindings(c.Request.Context(), uri.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, bindings)
}

// SyncCategories 同步项目分类
// @Summary 同步项目分类
// @Description 以传入集合为准：新增缺失的绑定，删除多余的绑定，保留不变的绑定
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param request body dto.SyncProjectCategoriesRequest true "期望的分类集合"
// @Success 200 {object} utils.Response{data=dto.SyncProjectCategoriesResponse}
// @Router /api/v1/projects/{id}/categories [put]
func (h *ProjectHandler) SyncCategories(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.SyncProjectCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.projectCategoryService.SyncCategories(c.Request.Context(), uri.ID, req.CategoryIDs)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, result)
}

// UpdateCategory 更新单个项目分类绑定
// @Summary 更新项目分类绑定
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param bindingId path string true "项目分类ID"
// @Param request body dto.UpdateProjectCategoryRequest true "更新请求"
// @Success 200 {object} utils.Response{data=dto.ProjectCategoryResponse}
// @Router /api/v1/projects/{id}/categories/{bindingId} [patch]
func (h *ProjectHandler) UpdateCategory(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.UpdateProjectCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	binding, err := h.projectCategoryService.UpdateBinding(c.Request.Context(), uri.ID, c.Param("bindingId"), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, binding)
}

// AvailableGames 尚未加入项目的游戏
// @Summary 获取项目可加入的游戏
// @Description 游戏库中在任意语言下都未加入该项目的游戏
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "项目ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "标题关键字"
// @Success 200 {object} utils.PageResponse{data=[]dto.GameResponse}
// @Router /api/v1/projects/{id}/available-games [get]
func (h *ProjectHandler) AvailableGames(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var query dto.GameListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	games, total, err := h.gameService.ListAvailableForProject(c.Request.Context(), uri.ID, &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.PageSuccess(c, games, total, query.GetPage(), query.GetPageSize())
}
