package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/flocking-geese/config"
	"github.com/lixenwraith/flocking-geese/constant"
)

const stderrPath = "stderr"

// newLogger builds the process logger and returns a func that closes its file
// The terminal owns stdout/stderr while the UI runs, so interactive sessions
// always log to a file
func newLogger(cfg config.LoggingConfig, debug, interactive bool) (*zap.Logger, func() error, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	if debug {
		level = zapcore.DebugLevel
	}

	path := cfg.File
	if path == "" || path == stderrPath {
		if interactive {
			path = constant.LogFile
		} else {
			path = stderrPath
		}
	}

	sink := zapcore.Lock(os.Stderr)
	closeFn := func() error { return nil }
	if path != stderrPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		maxSize := cfg.MaxSizeMB
		if maxSize < 1 {
			maxSize = constant.LogMaxSizeMB
		}
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		sink = zapcore.AddSync(rotator)
		closeFn = rotator.Close
	}

	var (
		encoder zapcore.Encoder
		opts    = []zap.Option{zap.ErrorOutput(sink)}
	)
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		opts = append(opts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if path == stderrPath {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encCfg.ConsoleSeparator = "  "
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, opts...), closeFn, nil
}
