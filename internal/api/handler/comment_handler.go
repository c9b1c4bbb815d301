package handler

import (
	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/utils"
)

// CommentHandler 评论审核(后台)
type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List 评论列表
// @Summary 获取评论列表
// @Tags Comment
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "审核状态" Enums(pending, approved, rejected, spam)
// @Param project_id query string false "项目ID"
// @Param game_id query string false "游戏ID"
// @Param locale query string false "语言"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} utils.PageResponse{data=[]dto.CommentResponse}
// @Router /api/v1/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	var query dto.CommentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	comments, total, err := h.commentService.List(c.Request.Context(), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.PageSuccess(c, comments, total, query.GetPage(), query.GetPageSize())
}

// Moderate 审核评论
// @Summary 更新评论审核状态
// @Tags Comment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "评论ID"
// @Param request body dto.ModerateCommentRequest true "审核请求"
// @Success 200 {object} utils.Response{data=dto.CommentResponse}
// @Router /api/v1/comments/{id}/status [put]
func (h *CommentHandler) Moderate(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.commentService.Moderate(c.Request.Context(), uri.ID, req.Status)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, comment)
}

// Delete 删除评论
// @Summary 删除评论
// @Tags Comment
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "评论ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), uri.ID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}
