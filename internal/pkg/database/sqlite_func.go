package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	gosqlite "github.com/glebarez/go-sqlite"
)

var (
	sqliteFuncOnce sync.Once
	sqliteFuncErr  error
)

// registerSQLiteFuncs 用 Unicode 折叠覆盖 sqlite 内置的 lower，内置版本只处理 ASCII。
// 只对之后新建的连接生效，须在打开连接前调用
func registerSQLiteFuncs() error {
	sqliteFuncOnce.Do(func() {
		err := gosqlite.RegisterDeterministicScalarFunction("lower", 1, unicodeLower)
		if err != nil {
			sqliteFuncErr = fmt.Errorf("注册sqlite函数失败: %w", err)
		}
	})
	return sqliteFuncErr
}

func unicodeLower(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
