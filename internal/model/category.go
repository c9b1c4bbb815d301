package model

const CategoryTableName = "categories"

// Category 全局分类标签
type Category struct {
	BaseModel
	Name        string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

func (Category) TableName() string {
	return CategoryTableName
}
