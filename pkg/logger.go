package pkg

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// InitLogger initializes the global Logger based on the current gin mode.
func InitLogger() {
	logger, err := NewLogger(gin.Mode())
	if err != nil {
		panic(err)
	}
	Logger = logger
}

// NewLogger builds a production JSON logger in release mode and a colored
// development logger otherwise.
func NewLogger(ginMode string) (*zap.Logger, error) {
	var config zap.Config

	if gin.ReleaseMode == ginMode {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return config.Build(zap.AddStacktrace(zap.DPanicLevel))
}
