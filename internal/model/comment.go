package model

const CommentTableName = "comments"

// Comment 用户对某个项目游戏(game, project, locale)的评论与评分
type Comment struct {
	BaseModel
	GameID      string `gorm:"size:36;not null;index:idx_comment_target" json:"game_id"`
	ProjectID   string `gorm:"size:36;not null;index:idx_comment_target" json:"project_id"`
	Locale      string `gorm:"size:35;not null;index:idx_comment_target" json:"locale"`
	AuthorName  string `gorm:"size:64;not null" json:"author_name"`
	Content     string `gorm:"type:text;not null" json:"content"`
	RatingScore *int   `json:"rating_score"`
	Status      string `gorm:"size:16;not null;index" json:"status"`
	ClientIP    string `gorm:"size:64" json:"-"`
}

func (Comment) TableName() string {
	return CommentTableName
}
