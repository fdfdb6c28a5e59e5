package configs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds application configuration loaded from APP_* environment
// variables and an optional config.<mode>.yaml file.
type Config struct {
	Port            string        `mapstructure:"PORT" validate:"required,numeric"`
	PrimaryDbAddr   string        `mapstructure:"PRIMARY_DB_ADDR" validate:"required"`
	ReplicaDbAddr   string        `mapstructure:"REPLICA_DB_ADDR"`
	MaxDbCons       int32         `mapstructure:"MAX_DB_CONNECTIONS" validate:"min=1"`
	MinDbCons       int32         `mapstructure:"MIN_DB_CONNECTIONS" validate:"min=1,ltefield=MaxDbCons"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL" validate:"min=0"`
	KafkaBrokers    string        `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string        `mapstructure:"KAFKA_ORDER_TOPIC" validate:"required_with=KafkaBrokers"`
	KafkaPartition  int           `mapstructure:"KAFKA_PARTITION" validate:"min=1"`
	KafkaRetention  time.Duration `mapstructure:"KAFKA_ORDER_RETENTION" validate:"min=0"`
	BcryptCost      int           `mapstructure:"BCRYPT_COST" validate:"min=4,max=31"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"min=0"`

	// ExposeErrorDetails adds raw error text to error bodies; keep off outside local development.
	ExposeErrorDetails bool `mapstructure:"EXPOSE_ERROR_DETAILS"`
}

// Load reads configuration from environment (and optional config file), then validates it.
func Load(logger *zap.Logger) (*Config, error) {
	return load(logger, viper.New(), "./services/ecommerce-api/configs")
}

func load(logger *zap.Logger, v *viper.Viper, configPath string) (*Config, error) {
	v.SetEnvPrefix("app") // Prefix for env vars
	v.AutomaticEnv()

	// Default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("MAX_DB_CONNECTIONS", "10")
	v.SetDefault("MIN_DB_CONNECTIONS", "2")
	v.SetDefault("PRODUCT_CACHE_TTL", "5m")
	v.SetDefault("KAFKA_ORDER_TOPIC", "orders.created")
	v.SetDefault("KAFKA_PARTITION", "3")
	v.SetDefault("KAFKA_ORDER_RETENTION", "168h")
	v.SetDefault("BCRYPT_COST", "10")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
	v.SetDefault("EXPOSE_ERROR_DETAILS", "false")

	// Optional: Read from config.<mode>.yaml if exists
	switch gin.Mode() {
	case gin.ReleaseMode:
		v.SetConfigName("config.prod")
	case gin.TestMode:
		logger.Warn("running in test mode")
		v.SetConfigName("config.test")
	default:
		logger.Warn("running in development mode")
		v.SetConfigName("config.dev")
	}
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	if err := v.ReadInConfig(); err == nil {
		logger.Info("config file loaded", zap.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := utils.ParseStructEnv(v, &cfg); err != nil {
		return nil, err
	}
	// Validate after unmarshal
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
