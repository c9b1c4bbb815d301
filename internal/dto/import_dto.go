package dto

// CatalogGame 目录文件中的单个游戏
type CatalogGame struct {
	Title      string         `json:"title" yaml:"title"`
	ImageURL   string         `json:"image_url" yaml:"image_url"`
	IframeURL  string         `json:"iframe_url" yaml:"iframe_url"`
	Rating     float64        `json:"rating" yaml:"rating"`
	Metadata   map[string]any `json:"metadata" yaml:"metadata"`
	Categories []string       `json:"categories" yaml:"categories"`
}

// Catalog 游戏目录文件
type Catalog struct {
	Games []CatalogGame `json:"games" yaml:"games"`
}

// ImportURLRequest 从远程地址导入
type ImportURLRequest struct {
	URL string `json:"url" binding:"required,http_url"`
}

// ImportResult 导入结果
type ImportResult struct {
	Created           int      `json:"created"`
	Skipped           int      `json:"skipped"`
	CategoriesCreated int      `json:"categories_created"`
	SkippedSlugs      []string `json:"skipped_slugs,omitempty"`
}
