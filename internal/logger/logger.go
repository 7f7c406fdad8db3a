// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"
	"strings"

	"github.com/anonto42/social-network/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger from cfg: the development config for ENV=development,
// the production config otherwise, with LOG_LEVEL applied on top.
func New(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Env == "development" {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log.With(zap.String("service", "social-network")), nil
}

// RedactEmail keeps the first character of the local part and the domain:
// "alice@example.com" becomes "a***@example.com".
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "[REDACTED_EMAIL]"
	}
	return email[:1] + "***" + email[at:]
}
