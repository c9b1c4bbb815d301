package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/config"
	logger2 "game-portal-cms/internal/pkg/logger"
	"game-portal-cms/pkg/constants"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db

	if cfg.AutoMigrate {
		if err := Migrate(DB); err != nil {
			return err
		}
	}

	return nil
}

// Open 按驱动类型打开连接并配置连接池
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := getLogLevel(cfg.LogLevel)

	gormConfig := &gorm.Config{
		Logger: logger.New(logger2.GetWriter(), logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logLevel,
			Colorful:      true,
		}).LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}

	if cfg.Driver == constants.DriverSQLite {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case constants.DriverMySQL:
		return mysql.Open(cfg.GetDSN()), nil
	case constants.DriverPostgres:
		return postgres.Open(cfg.GetDSN()), nil
	case constants.DriverSQLite:
		if err := registerSQLiteFuncs(); err != nil {
			return nil, err
		}
		return sqlite.Open(cfg.GetDSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Migrate 同步表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("同步表结构失败: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}

// getLogLevel 解析SQL日志级别
func getLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent // 默认关闭SQL日志
	}
}
