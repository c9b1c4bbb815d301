package service

import (
	"time"

	"github.com/samber/lo"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/crypto"
	"game-portal-cms/internal/pkg/jwt"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

const tokenTypeBearer = "Bearer"

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	VerifyToken(token string) (*dto.UserInfo, error)
}

type authService struct {
	cfg         *config.AuthConfig
	tokens      *jwt.Manager
	ldapService LDAPService
}

func NewAuthService(cfg *config.AuthConfig, tokens *jwt.Manager, ldapService LDAPService) AuthService {
	return &authService{
		cfg:         cfg,
		tokens:      tokens,
		ldapService: ldapService,
	}
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var userInfo *dto.UserInfo
	var err error

	authType := req.AuthType
	if authType == "" {
		authType = constants.AuthTypeLocal
	}

	switch authType {
	case constants.AuthTypeLDAP:
		if !s.cfg.LDAP.Enabled {
			return nil, pkgErrors.New(pkgErrors.CodeAuthError, "LDAP认证未启用")
		}
		userInfo, err = s.ldapService.Authenticate(req.Username, req.Password)
		if err != nil {
			return nil, err
		}

	case constants.AuthTypeLocal:
		if !s.cfg.Local.Enabled {
			return nil, pkgErrors.New(pkgErrors.CodeAuthError, "本地认证未启用")
		}
		userInfo, err = s.authenticateLocal(req.Username, req.Password)
		if err != nil {
			return nil, err
		}

	default:
		return nil, pkgErrors.New(pkgErrors.CodeBadRequest, "不支持的认证类型")
	}

	return s.issue(userInfo)
}

// authenticateLocal 本地管理员来自配置文件，密码以 bcrypt 哈希保存
func (s *authService) authenticateLocal(username, password string) (*dto.UserInfo, error) {
	user, ok := lo.Find(s.cfg.Local.Users, func(u config.LocalUser) bool {
		return u.Username == username
	})
	if !ok || !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}
	return &dto.UserInfo{
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: displayName,
		AuthType:    constants.AuthTypeLocal,
	}, nil
}

func (s *authService) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.tokens.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != constants.JWTTypeRefresh {
		return nil, pkgErrors.New(pkgErrors.CodeUnauthorized, "无效的RefreshToken")
	}

	return s.issue(&dto.UserInfo{
		Username:    claims.Username,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		AuthType:    claims.AuthType,
	})
}

func (s *authService) VerifyToken(token string) (*dto.UserInfo, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &dto.UserInfo{
		Username:    claims.Username,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		AuthType:    claims.AuthType,
	}, nil
}

// issue 签发一对新的 access/refresh Token
func (s *authService) issue(userInfo *dto.UserInfo) (*dto.LoginResponse, error) {
	identity := jwt.Identity{
		Username:    userInfo.Username,
		Email:       userInfo.Email,
		DisplayName: userInfo.DisplayName,
		AuthType:    userInfo.AuthType,
	}

	accessToken, err := s.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成AccessToken失败", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(identity)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成RefreshToken失败", err)
	}

	ttl := s.tokens.AccessTokenTTL()
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    ttl,
		ExpiresAt:    formatTime(time.Now().Add(time.Duration(ttl) * time.Second)),
		User:         userInfo,
	}, nil
}
