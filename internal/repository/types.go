package repository

import (
	"strings"

	"gorm.io/gorm"
)

type QueryOption func(*gorm.DB) *gorm.DB

// likeEscaper 使用 '!' 作为 LIKE 转义符，mysql/postgres/sqlite 通用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsFold 大小写不敏感的子串匹配；term 为空时不加条件。
// 两侧都交给数据库的 LOWER 折叠，sqlite 的 LOWER 在 database.Open 中替换为 Unicode 版本
func ContainsFold(column, term string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(term) + "%"
		return db.Where("LOWER("+column+") LIKE LOWER(?) ESCAPE '!'", pattern)
	}
}

// Paginate 分页
func Paginate(page, pageSize int) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

func scopes(opts []QueryOption) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, len(opts))
	for i, opt := range opts {
		out[i] = opt
	}
	return out
}
