package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type Config struct {
	Level        string `env:"LOG_LEVEL" env-default:"info"`
	Env          string `env:"LOG_ENV" env-default:"prod"`
	HTTPRequests bool   `env:"LOG_HTTP_REQUESTS" env-default:"true"`
}

func New(config *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	var zapCfg zap.Config
	switch config.Env {
	case EnvDev:
		zapCfg = zap.NewDevelopmentConfig()
	case EnvProd:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "time"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unknown logger env: %s", config.Env)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return log, nil
}
