package model

const ProjectCategoryTableName = "project_categories"

// ProjectCategory 项目启用的分类
type ProjectCategory struct {
	BaseModel
	ProjectID  string `gorm:"size:36;not null;uniqueIndex:uniq_project_category" json:"project_id"`
	CategoryID string `gorm:"size:36;not null;uniqueIndex:uniq_project_category;index" json:"category_id"`
	IsActive   bool   `gorm:"not null" json:"is_active"`
	SortOrder  int    `gorm:"not null;default:0" json:"sort_order"`
}

func (ProjectCategory) TableName() string {
	return ProjectCategoryTableName
}
