package dto

// PageQuery 分页查询参数
type PageQuery struct {
	Page     int    `form:"page"`      // 可选：页码，不传默认为1
	PageSize int    `form:"page_size"` // 可选：每页数量，不传默认为10
	Keyword  string `form:"keyword"`   // 可选：关键字搜索
}

// GetPage 获取页码
func (p *PageQuery) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量
func (p *PageQuery) GetPageSize() int {
	if p.PageSize < 1 {
		return 10
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// IDParam 路径ID参数
type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}
