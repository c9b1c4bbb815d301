package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	pkgErrors "game-portal-cms/pkg/errors"
)

var validate = validator.New()

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// notFound 将仓储层的记录不存在转换为带资源描述的 NotFoundError，其它错误原样返回
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, pkgErrors.ErrRecordNotFound) {
		return pkgErrors.NotFound(format, args...)
	}
	return err
}

func isHTTPURL(raw string) bool {
	return validate.Var(raw, "required,http_url") == nil
}

// normalizeIDs 去除首尾空白，拒绝空 ID 与重复 ID
func normalizeIDs(field string, ids []string) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, pkgErrors.Validation("%s 不能包含空ID", field)
		}
		out[i] = id
	}
	if dups := lo.FindDuplicates(out); len(dups) > 0 {
		return nil, pkgErrors.Validation("%s 包含重复ID: %s", field, strings.Join(dups, ","))
	}
	return out, nil
}
