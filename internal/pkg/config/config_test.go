package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/pkg/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  database: ":memory:"
auth:
  jwt:
    secret: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, constants.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "from-file", cfg.Auth.JWT.Secret)
	assert.Equal(t, 7200, cfg.Auth.JWT.AccessTokenExpire)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Import.Retry.InitialInterval)
	assert.Equal(t, int64(8<<20), cfg.Import.MaxBytes)
	assert.Equal(t, 30, cfg.Comment.RetentionDays)
	assert.Equal(t, "0 30 3 * * *", cfg.Comment.PurgeCron)
	assert.Equal(t, ":memory:", cfg.Database.GetDSN())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
auth:
  jwt:
    secret: from-file
`)
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWT.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"missing secret": "database:\n  driver: sqlite\n",
		"unknown driver": "database:\n  driver: oracle\nauth:\n  jwt:\n    secret: s\n",
		"short aes key":  "database:\n  driver: sqlite\nauth:\n  jwt:\n    secret: s\ncrypto:\n  aes_key: short\n",
		"zero attempts":  "database:\n  driver: sqlite\nauth:\n  jwt:\n    secret: s\nai:\n  retry:\n    max_attempts: 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	mysql := &DatabaseConfig{Driver: constants.DriverMySQL, Host: "db", Port: 3306, Username: "u", Password: "p", Database: "cms"}
	assert.Equal(t, "u:p@tcp(db:3306)/cms?charset=utf8mb4&parseTime=True&loc=Local", mysql.GetDSN())

	pg := &DatabaseConfig{Driver: constants.DriverPostgres, Host: "db", Port: 5432, Username: "u", Password: "p", Database: "cms"}
	assert.Contains(t, pg.GetDSN(), "sslmode=disable")
}
