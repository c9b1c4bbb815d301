package dto

import "gorm.io/datatypes"

// CreateGameRequest 创建游戏请求
type CreateGameRequest struct {
	Title       string         `json:"title" binding:"required,max=255"`
	ImageURL    string         `json:"image_url" binding:"omitempty,max=1024"`
	IframeURL   string         `json:"iframe_url" binding:"required,max=1024"`
	Rating      float64        `json:"rating"`
	Metadata    datatypes.JSON `json:"metadata" swaggertype:"object"`
	CategoryIDs []string       `json:"category_ids"`
}

// UpdateGameRequest 更新游戏请求；category_ids 传入时整体替换游戏库分类
type UpdateGameRequest struct {
	Title       *string        `json:"title" binding:"omitempty,max=255"`
	ImageURL    *string        `json:"image_url" binding:"omitempty,max=1024"`
	IframeURL   *string        `json:"iframe_url" binding:"omitempty,max=1024"`
	Rating      *float64       `json:"rating"`
	Metadata    datatypes.JSON `json:"metadata" swaggertype:"object"`
	CategoryIDs *[]string      `json:"category_ids"`
}

// GameListQuery 游戏列表查询
type GameListQuery struct {
	PageQuery
}

// GameSearchQuery 游戏搜索
type GameSearchQuery struct {
	Query string `form:"q" binding:"required"`
}

// GameResponse 游戏响应
type GameResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	ImageURL    string         `json:"image_url"`
	IframeURL   string         `json:"iframe_url"`
	Rating      float64        `json:"rating"`
	Metadata    datatypes.JSON `json:"metadata" swaggertype:"object"`
	CategoryIDs []string       `json:"category_ids"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}
