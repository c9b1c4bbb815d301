package dto

// SubmitCommentRequest 提交评论
type SubmitCommentRequest struct {
	AuthorName  string `json:"author_name" binding:"required,max=64"`
	Content     string `json:"content" binding:"required,max=2000"`
	RatingScore *int   `json:"rating_score" binding:"omitempty,min=1,max=5"`
}

// ModerateCommentRequest 审核评论
type ModerateCommentRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected spam"`
}

// CommentListQuery 评论管理列表查询
type CommentListQuery struct {
	PageQuery
	Status    string `form:"status" binding:"omitempty,oneof=pending approved rejected spam"`
	ProjectID string `form:"project_id"`
	GameID    string `form:"game_id"`
	Locale    string `form:"locale"`
}

// CommentResponse 评论响应
type CommentResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	GameID      string `json:"game_id"`
	Locale      string `json:"locale"`
	AuthorName  string `json:"author_name"`
	Content     string `json:"content"`
	RatingScore *int   `json:"rating_score"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// RatingSummaryResponse 评分汇总
type RatingSummaryResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
