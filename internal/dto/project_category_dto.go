package dto

// SyncProjectCategoriesRequest 项目分类同步请求，category_ids 为期望的完整集合
type SyncProjectCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids" binding:"required"`
}

// UpdateProjectCategoryRequest 更新单个项目分类绑定
type UpdateProjectCategoryRequest struct {
	IsActive  *bool `json:"is_active"`
	SortOrder *int  `json:"sort_order"`
}

// ProjectCategoryResponse 项目分类绑定响应
type ProjectCategoryResponse struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	IsActive     bool   `json:"is_active"`
	SortOrder    int    `json:"sort_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// SyncProjectCategoriesResponse 同步结果(category id)
type SyncProjectCategoriesResponse struct {
	Added     []string                   `json:"added"`
	Removed   []string                   `json:"removed"`
	Unchanged []string                   `json:"unchanged"`
	Bindings  []*ProjectCategoryResponse `json:"bindings"`
}
