package handler

import (
	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/utils"
)

type GameHandler struct {
	gameService   service.GameService
	importService service.ImportService
}

func NewGameHandler(gameService service.GameService, importService service.ImportService) *GameHandler {
	return &GameHandler{
		gameService:   gameService,
		importService: importService,
	}
}

// List 游戏库列表
// @Summary 获取游戏库列表
// @Tags Game
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "标题关键字"
// @Success 200 {object} utils.PageResponse{data=[]dto.GameResponse}
// @Router /api/v1/games [get]
func (h *GameHandler) List(c *gin.Context) {
	var query dto.GameListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	games, total, err := h.gameService.List(c.Request.Context(), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.PageSuccess(c, games, total, query.GetPage(), query.GetPageSize())
}

// Search 按标题搜索
// @Summary 搜索游戏
// @Tags Game
// @Produce json
// @Security ApiKeyAuth
// @Param q query string true "标题关键字"
// @Success 200 {object} utils.Response{data=[]dto.GameResponse}
// @Router /api/v1/games/search [get]
func (h *GameHandler) Search(c *gin.Context) {
	var query dto.GameSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	games, err := h.gameService.Search(c.Request.Context(), query.Query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, games)
}

// GetByID 游戏详情
// @Summary 获取游戏详情
// @Tags Game
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "游戏ID"
// @Success 200 {object} utils.Response{data=dto.GameResponse}
// @Router /api/v1/games/{id} [get]
func (h *GameHandler) GetByID(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	game, err := h.gameService.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, game)
}

// Create 创建游戏
// @Summary 创建游戏
// @Tags Game
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateGameRequest true "创建游戏请求"
// @Success 200 {object} utils.Response{data=dto.GameResponse}
// @Router /api/v1/games [post]
func (h *GameHandler) Create(c *gin.Context) {
	var req dto.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	game, err := h.gameService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, game)
}

// Update 更新游戏
// @Summary 更新游戏
// @Description category_ids 传入时整体替换游戏库分类
// @Tags Game
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "游戏ID"
// @Param request body dto.UpdateGameRequest true "更新游戏请求"
// @Success 200 {object} utils.Response{data=dto.GameResponse}
// @Router /api/v1/games/{id} [put]
func (h *GameHandler) Update(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req dto.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	game, err := h.gameService.Update(c.Request.Context(), uri.ID, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, game)
}

// Delete 删除游戏
// @Summary 删除游戏
// @Description 同时删除所有项目中的派生记录、分类关联与评论
// @Tags Game
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "游戏ID"
// @Success 200 {object} utils.Response
// @Router /api/v1/games/{id} [delete]
func (h *GameHandler) Delete(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.gameService.Delete(c.Request.Context(), uri.ID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}

// Import 从远程目录导入
// @Summary 导入游戏目录
// @Description 拉取 YAML/JSON 目录，已存在的 slug 跳过
// @Tags Game
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ImportURLRequest true "目录地址"
// @Success 200 {object} utils.Response{data=dto.ImportResult}
// @Router /api/v1/games/import [post]
func (h *GameHandler) Import(c *gin.Context) {
	var req dto.ImportURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.importService.ImportURL(c.Request.Context(), req.URL)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, result)
}
