package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDiagnosticLog returns a logger that appends one plain text line per
// entry to path. The file is opened append-only and created if missing.
// The returned close function flushes and closes the file.
func NewDiagnosticLog(path string) (*zap.Logger, func() error, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diagnostic log %s: %w", path, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "timestamp",
		LevelKey:         "level",
		MessageKey:       "message",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(file),
		zapcore.InfoLevel,
	)

	log := zap.New(core)
	closeFn := func() error {
		_ = log.Sync()
		return file.Close()
	}

	return log, closeFn, nil
}
