package constants

// 评论审核状态
const (
	CommentStatusPending  = "pending"  // 待审核
	CommentStatusApproved = "approved" // 已通过
	CommentStatusRejected = "rejected" // 已拒绝
	CommentStatusSpam     = "spam"     // 垃圾评论
)

// CommentStatuses 全部审核状态
var CommentStatuses = []string{
	CommentStatusPending,
	CommentStatusApproved,
	CommentStatusRejected,
	CommentStatusSpam,
}

// 评分范围
const (
	RatingMin = 1
	RatingMax = 5
)

// DefaultBaseVersion 项目游戏派生的基础版本号，目前固定为1
const DefaultBaseVersion = 1

// AI 生成任务类型
const (
	AITaskTitle       = "title"
	AITaskDescription = "description"
	AITaskSEO         = "seo"
	AITaskCustom      = "custom"
)

// 认证类型
const (
	AuthTypeLDAP  = "ldap"
	AuthTypeLocal = "local"
)

// 数据库驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// JWT 相关
const (
	JWTTypeAccess    = "access"
	JWTTypeRefresh   = "refresh"
	TokenCookieName  = "admin_token"
	ContextKeyUser   = "user"
	ContextKeyUserID = "username"
)

// HTTP Header
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
)

// 列表上限
const (
	SearchResultLimit = 50
)
