package dto

import "gorm.io/datatypes"

// AttachGameItem 加入项目的单个游戏
type AttachGameItem struct {
	GameID   string         `json:"game_id" binding:"required"`
	Locale   string         `json:"locale" binding:"required"`
	Title    string         `json:"title" binding:"omitempty,max=255"`
	Content  string         `json:"content"`
	Metadata datatypes.JSON `json:"metadata" swaggertype:"object"`
}

// AttachGamesRequest 批量加入游戏
type AttachGamesRequest struct {
	Items []AttachGameItem `json:"items" binding:"required,min=1,dive"`
}

// SetPublishedRequest 发布/下线，locale 为空时作用于全部语言
type SetPublishedRequest struct {
	Published *bool  `json:"published" binding:"required"`
	Locale    string `json:"locale"`
}

// SyncGameCategoriesRequest 项目游戏分类同步，locale 为空时作用于全部语言
type SyncGameCategoriesRequest struct {
	ProjectCategoryIDs []string `json:"project_category_ids" binding:"required"`
	Locale             string   `json:"locale"`
}

// UpdateProjectGameRequest 更新项目游戏文案
type UpdateProjectGameRequest struct {
	Title    *string        `json:"title" binding:"omitempty,max=255"`
	Content  *string        `json:"content"`
	Metadata datatypes.JSON `json:"metadata" swaggertype:"object"`
}

// ProjectGameListQuery 项目游戏列表查询
type ProjectGameListQuery struct {
	PageQuery
	Locale    string `form:"locale"`
	Published *bool  `form:"published"`
}

// ProjectGameResponse 项目游戏响应
type ProjectGameResponse struct {
	ID                 string         `json:"id"`
	ProjectID          string         `json:"project_id"`
	GameID             string         `json:"game_id"`
	Locale             string         `json:"locale"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	Metadata           datatypes.JSON `json:"metadata" swaggertype:"object"`
	BaseVersion        int            `json:"base_version"`
	IsPublished        bool           `json:"is_published"`
	ProjectCategoryIDs []string       `json:"project_category_ids"`
	CreatedAt          string         `json:"created_at"`
	UpdatedAt          string         `json:"updated_at"`
}

// PublicGameResponse 前台展示的已发布游戏
type PublicGameResponse struct {
	ID         string         `json:"id"`
	GameID     string         `json:"game_id"`
	Slug       string         `json:"slug"`
	Locale     string         `json:"locale"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Metadata   datatypes.JSON `json:"metadata" swaggertype:"object"`
	ImageURL   string         `json:"image_url"`
	IframeURL  string         `json:"iframe_url"`
	Categories []string       `json:"categories"`
}
