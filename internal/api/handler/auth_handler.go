package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/service"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
	"game-portal-cms/pkg/utils"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login 登录
// @Summary 管理员登录
// @Description 支持LDAP和本地管理员登录，成功后同时写入 Cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录请求"
// @Success 200 {object} utils.Response{data=dto.LoginResponse}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.TokenCookieName, resp.AccessToken, resp.ExpiresIn, "/", "", false, true)
	utils.Success(c, resp)
}

// Refresh 刷新Token
// @Summary 刷新访问Token
// @Description 使用RefreshToken获取新的AccessToken
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "刷新Token请求"
// @Success 200 {object} utils.Response{data=dto.LoginResponse}
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Logout 清除登录 Cookie
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Success 200 {object} utils.Response
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(constants.TokenCookieName, "", -1, "/", "", false, true)
	utils.Success(c, nil)
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 从JWT Token中获取当前登录用户信息
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=dto.UserInfo}
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	// 由认证中间件设置
	userInfo, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		utils.ErrorWithCode(c, pkgErrors.CodeUnauthorized, "未登录")
		return
	}

	utils.Success(c, userInfo)
}
