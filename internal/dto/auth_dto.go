package dto

// LoginRequest 管理员登录，auth_type 为空时按本地账号处理
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	AuthType string `json:"auth_type" binding:"omitempty,oneof=ldap local"`
}

type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"` // 秒
	ExpiresAt    string    `json:"expires_at"`
	User         *UserInfo `json:"user"`
}

// UserInfo 当前管理员身份，同时写入 gin.Context 供下游 handler 使用
type UserInfo struct {
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
	AuthType    string `json:"auth_type"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
