package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RayIDField is the log field carrying the request RayID.
const RayIDField = "ray_id"

// New creates a zap logger for cfg. Debug level selects zap's development
// preset (caller and stack traces on warnings).
func New(cfg *Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	config := zap.NewProductionConfig()
	if level.Level() == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = level

	switch cfg.Format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	default:
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

// WithRayID returns l tagged with the RayID stored on c, or l unchanged when
// the request has none.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if id, ok := c.Locals(RayIDField).(string); ok && id != "" {
		return l.With(zap.String(RayIDField, id))
	}
	return l
}
