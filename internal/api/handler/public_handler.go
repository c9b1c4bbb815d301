package handler

import (
	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/repository"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/utils"
)

// PublicHandler 前台只读目录与评论，无需登录
type PublicHandler struct {
	catalogService service.CatalogService
	commentService service.CommentService
}

func NewPublicHandler(catalogService service.CatalogService, commentService service.CommentService) *PublicHandler {
	return &PublicHandler{
		catalogService: catalogService,
		commentService: commentService,
	}
}

// ListGames 已发布游戏列表
// @Summary 获取已发布游戏
// @Tags Public
// @Produce json
// @Param id path string true "项目ID"
// @Param locale path string true "语言"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "标题关键字"
// @Success 200 {object} utils.PageResponse{data=[]dto.PublicGameResponse}
// @Router /api/v1/public/projects/{id}/{locale}/games [get]
func (h *PublicHandler) ListGames(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	games, total, err := h.catalogService.ListPublished(c.Request.Context(), c.Param("id"), c.Param("locale"), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.PageSuccess(c, games, total, query.GetPage(), query.GetPageSize())
}

// GetGame 已发布游戏详情
// @Summary 按 slug 获取已发布游戏
// @Tags Public
// @Produce json
// @Param id path string true "项目ID"
// @Param locale path string true "语言"
// @Param slug path string true "游戏slug"
// @Success 200 {object} utils.Response{data=dto.PublicGameResponse}
// @Router /api/v1/public/projects/{id}/{locale}/games/{slug} [get]
func (h *PublicHandler) GetGame(c *gin.Context) {
	game, err := h.catalogService.GetPublishedBySlug(c.Request.Context(), c.Param("id"), c.Param("locale"), c.Param("slug"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, game)
}

// ListComments 已审核通过的评论
// @Summary 获取游戏评论
// @Tags Public
// @Produce json
// @Param id path string true "项目ID"
// @Param locale path string true "语言"
// @Param slug path string true "游戏slug"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} utils.PageResponse{data=[]dto.CommentResponse}
// @Router /api/v1/public/projects/{id}/{locale}/games/{slug}/comments [get]
func (h *PublicHandler) ListComments(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	target, ok := h.resolveTarget(c)
	if !ok {
		return
	}

	comments, total, err := h.commentService.ListPublic(c.Request.Context(), target, &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.PageSuccess(c, comments, total, query.GetPage(), query.GetPageSize())
}

// SubmitComment 提交评论
// @Summary 提交游戏评论
// @Description 新评论进入待审核状态
// @Tags Public
// @Accept json
// @Produce json
// @Param id path string true "项目ID"
// @Param locale path string true "语言"
// @Param slug path string true "游戏slug"
// @Param request body dto.SubmitCommentRequest true "评论内容"
// @Success 200 {object} utils.Response{data=dto.CommentResponse}
// @Router /api/v1/public/projects/{id}/{locale}/games/{slug}/comments [post]
func (h *PublicHandler) SubmitComment(c *gin.Context) {
	var req dto.SubmitCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	target, ok := h.resolveTarget(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Submit(c.Request.Context(), target, &req, c.ClientIP())
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, comment)
}

// Rating 评分汇总
// @Summary 获取游戏评分汇总
// @Tags Public
// @Produce json
// @Param id path string true "项目ID"
// @Param locale path string true "语言"
// @Param slug path string true "游戏slug"
// @Success 200 {object} utils.Response{data=dto.RatingSummaryResponse}
// @Router /api/v1/public/projects/{id}/{locale}/games/{slug}/rating [get]
func (h *PublicHandler) Rating(c *gin.Context) {
	target, ok := h.resolveTarget(c)
	if !ok {
		return
	}

	summary, err := h.commentService.RatingSummary(c.Request.Context(), target)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, summary)
}

// resolveTarget slug 解析为已发布的项目游戏，失败时已写入响应
func (h *PublicHandler) resolveTarget(c *gin.Context) (repository.CommentTarget, bool) {
	game, err := h.catalogService.GetPublishedBySlug(c.Request.Context(), c.Param("id"), c.Param("locale"), c.Param("slug"))
	if err != nil {
		utils.Error(c, err)
		return repository.CommentTarget{}, false
	}
	return repository.CommentTarget{
		ProjectID: c.Param("id"),
		GameID:    game.GameID,
		Locale:    game.Locale,
	}, true
}
