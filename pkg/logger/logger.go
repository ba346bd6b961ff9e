package logger

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	// Level 日志级别 debug/info/warn/error
	Level string
	// File 日志文件路径，为空时输出到 stderr
	File string
	// Production 是否启用 JSON 输出
	Production bool
}

// NewLogger builds the main logger. Console encoding unless Production is set.
// NewLogger 创建主日志器，Production 为 true 时使用 JSON 格式
func NewLogger(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "logger: invalid level %q", cfg.Level)
		}
		level = l
	}

	var encoder zapcore.Encoder
	if cfg.Production {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if cfg.File == "" {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	writer := zapcore.Lock(os.Stderr)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, errors.Wrap(err, "logger: create log dir")
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "logger: open log file")
		}
		writer = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(encoder, writer, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
