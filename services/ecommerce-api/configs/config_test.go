package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PRIMARY_DB_ADDR", "u:p@localhost:5432/shop")

	cfg, err := load(zap.NewNop(), viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "u:p@localhost:5432/shop", cfg.PrimaryDbAddr)
	assert.Equal(t, int32(10), cfg.MaxDbCons)
	assert.Equal(t, int32(2), cfg.MinDbCons)
	assert.Equal(t, 5*time.Minute, cfg.ProductCacheTTL)
	assert.Equal(t, "orders.created", cfg.KafkaOrderTopic)
	assert.Equal(t, 168*time.Hour, cfg.KafkaRetention)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.ExposeErrorDetails)
}

func TestLoad_ExposeErrorDetailsFromEnv(t *testing.T) {
	t.Setenv("APP_PRIMARY_DB_ADDR", "u:p@localhost:5432/shop")
	t.Setenv("APP_EXPOSE_ERROR_DETAILS", "true")

	cfg, err := load(zap.NewNop(), viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.ExposeErrorDetails)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "PORT: \"9000\"\nPRIMARY_DB_ADDR: \"file@db:5432/shop\"\nREDIS_ADDR: \"localhost:6379\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.test.yaml"), []byte(yaml), 0o600))
	t.Setenv("APP_PORT", "9100")

	cfg, err := load(zap.NewNop(), viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "file@db:5432/shop", cfg.PrimaryDbAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing primary db": {},
		"bcrypt cost too low": {
			"APP_PRIMARY_DB_ADDR": "u:p@localhost/shop",
			"APP_BCRYPT_COST":     "3",
		},
		"min connections above max": {
			"APP_PRIMARY_DB_ADDR":    "u:p@localhost/shop",
			"APP_MAX_DB_CONNECTIONS": "2",
			"APP_MIN_DB_CONNECTIONS": "5",
		},
		"non numeric port": {
			"APP_PRIMARY_DB_ADDR": "u:p@localhost/shop",
			"APP_PORT":            "http",
		},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_PRIMARY_DB_ADDR", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := load(zap.NewNop(), viper.New(), t.TempDir())
			assert.Error(t, err)
		})
	}
}
