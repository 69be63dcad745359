package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures the rotating log file.
type FileOptions struct {
	// Filename is the path of the log file.
	Filename string
	// MaxSizeMB is the size in megabytes that triggers rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

const (
	defaultFileMaxSizeMB  = 10
	defaultFileMaxBackups = 3
)

// EnableFileOutput replaces the global logger with one that writes to stderr
// and, as JSON lines, to a rotating file. The returned closer flushes the file.
func EnableFileOutput(opts FileOptions) io.Closer {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = defaultFileMaxSizeMB
	}

	if opts.MaxBackups <= 0 {
		opts.MaxBackups = defaultFileMaxBackups
	}

	fileWriter := &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(newConsoleEncoder(), zapcore.Lock(os.Stderr), globalLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(fileWriter), globalLevel),
	)

	SetLogger(zap.New(core).Sugar())

	return fileWriter
}
