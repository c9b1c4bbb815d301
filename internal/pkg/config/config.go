package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"game-portal-cms/pkg/constants"
)

// Config 全局配置，启动时构造后显式传递给各组件
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Crypto       CryptoConfig       `mapstructure:"crypto"`
	Log          LogConfig          `mapstructure:"log"`
	AI           AIConfig           `mapstructure:"ai"`
	Import       ImportConfig       `mapstructure:"import"`
	Comment      CommentConfig      `mapstructure:"comment"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name        string   `mapstructure:"name"`
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"` // debug, release
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // mysql, postgres, sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"` // sqlite 时为文件路径
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"` // postgres
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	LogLevel        string `mapstructure:"log_level"`         // SQL日志级别: silent/error/warn/info
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWT   JWTConfig   `mapstructure:"jwt"`
	LDAP  LDAPConfig  `mapstructure:"ldap"`
	Local LocalConfig `mapstructure:"local"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessTokenExpire  int    `mapstructure:"access_token_expire"`  // 秒
	RefreshTokenExpire int    `mapstructure:"refresh_token_expire"` // 秒
}

// LDAPConfig LDAP配置
type LDAPConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	Host         string         `mapstructure:"host"`
	Port         int            `mapstructure:"port"`
	UseSSL       bool           `mapstructure:"use_ssl"`
	BindDN       string         `mapstructure:"bind_dn"`
	BindPassword string         `mapstructure:"bind_password"`
	BaseDN       string         `mapstructure:"base_dn"`
	UserFilter   string         `mapstructure:"user_filter"`
	Attributes   LDAPAttributes `mapstructure:"attributes"`
}

// LDAPAttributes LDAP属性映射
type LDAPAttributes struct {
	Username    string `mapstructure:"username"`
	Email       string `mapstructure:"email"`
	DisplayName string `mapstructure:"display_name"`
}

// LocalConfig 本地管理员配置
type LocalConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Users   []LocalUser `mapstructure:"users"`
}

// LocalUser 本地管理员账号，密码为 bcrypt 哈希
type LocalUser struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	DisplayName  string `mapstructure:"display_name"`
	Email        string `mapstructure:"email"`
}

// CryptoConfig 加密配置
type CryptoConfig struct {
	AESKey string `mapstructure:"aes_key"` // 32字节
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, console
	Output     string `mapstructure:"output"` // stdout, file
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// AIConfig AI 文案生成配置
type AIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"` // OpenAI 兼容接口地址，留空使用官方地址
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"` // 单次请求超时
	Retry       RetryConfig   `mapstructure:"retry"`
}

// RetryConfig 外部调用重试策略
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

// ImportConfig 游戏目录导入配置
type ImportConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
	Retry    RetryConfig   `mapstructure:"retry"`
}

// CommentConfig 评论配置
type CommentConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	RetentionDays  int     `mapstructure:"retention_days"` // 已拒绝/垃圾评论保留天数
	PurgeCron      string  `mapstructure:"purge_cron"`     // 秒 分 时 日 月 周
}

// NotificationConfig 通知配置
type NotificationConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Provider    string `mapstructure:"provider"` // lark, log
	LarkWebhook string `mapstructure:"lark_webhook"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// 读取环境变量, database.password -> DATABASE_PASSWORD
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "game-portal-cms")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", constants.DriverMySQL)
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.access_token_expire", 7200)
	v.SetDefault("auth.jwt.refresh_token_expire", 604800)
	v.SetDefault("auth.local.enabled", true)
	v.SetDefault("auth.ldap.bind_password", "")

	v.SetDefault("crypto.aes_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.retry.max_attempts", 3)
	v.SetDefault("ai.retry.initial_interval", "500ms")
	v.SetDefault("ai.retry.max_interval", "5s")
	v.SetDefault("ai.retry.multiplier", 2.0)

	v.SetDefault("import.timeout", "20s")
	v.SetDefault("import.max_bytes", 8<<20)
	v.SetDefault("import.retry.max_attempts", 3)
	v.SetDefault("import.retry.initial_interval", "500ms")
	v.SetDefault("import.retry.max_interval", "5s")
	v.SetDefault("import.retry.multiplier", 2.0)

	v.SetDefault("comment.rate_limit_rps", 0.2)
	v.SetDefault("comment.rate_limit_burst", 3)
	v.SetDefault("comment.retention_days", 30)
	v.SetDefault("comment.purge_cron", "0 30 3 * * *") // 每天 03:30

	v.SetDefault("notification.provider", "log")
	v.SetDefault("notification.lark_webhook", "")
}

// Validate 校验启动所必需的配置项
func (c *Config) Validate() error {
	if c.Auth.JWT.Secret == "" {
		return fmt.Errorf("auth.jwt.secret 未配置")
	}

	drivers := []string{constants.DriverMySQL, constants.DriverPostgres, constants.DriverSQLite}
	if !lo.Contains(drivers, c.Database.Driver) {
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}

	if c.Crypto.AESKey != "" && len(c.Crypto.AESKey) != 32 {
		return fmt.Errorf("crypto.aes_key 长度必须为32字节")
	}

	if c.AI.Retry.MaxAttempts < 1 || c.Import.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts 必须大于等于1")
	}

	return nil
}

// GetDSN 获取数据库DSN
func (c *DatabaseConfig) GetDSN() string {
	switch c.Driver {
	case constants.DriverPostgres:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=Local",
			c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
	case constants.DriverSQLite:
		return c.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Username,
			c.Password,
			c.Host,
			c.Port,
			c.Database,
		)
	}
}
