package handler

import (
	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/utils"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List 分类列表
// @Summary 获取全部分类
// @Tags Category
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=[]dto.CategoryResponse}
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, categories)
}

// GetByID 分类详情
// @Summary 获取分类详情
// @Tags Category
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "分类ID"
// @Success 200 {object} utils.Response{data=dto.CategoryResponse}
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, category)
}

// Create 创建分类
// @Summary 创建分类
// @Tags Category
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateCategoryRequest true "创建分类请求"
// @Success 200 {object} utils.Response{data=dto.CategoryResponse}
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, category)
}

// Update 更新分类
// @Summary 更新分类
// @Tags Category
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "分类ID"
// @Param request body dto.UpdateCategoryRequest true "更新分类请求"
// @Success 200 {object} utils.Response{data=dto.CategoryResponse}
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), uri.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, category)
}

// Delete 删除分类
// @Summary 删除分类
// @Description 同时删除游戏库分类关联、项目分类绑定及其下的项目游戏分类
// @Tags Category
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "分类ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), uri.ID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}
