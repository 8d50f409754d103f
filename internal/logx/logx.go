// Package logx builds the zap logger used for operational messages. Reports are
// written to stdout by the commands and never go through the logger.
package logx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/r9s-ai/pipelint/internal/config"
)

// New returns a logger writing human-readable lines to console and, when cfg.File is
// set, JSON lines to a size-rotated file. The returned closer releases the file.
func New(cfg config.LoggingConfig, console io.Writer) (*zap.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if console == nil {
		console = os.Stderr
	}

	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.Lock(zapcore.AddSync(console)), level),
	}

	var closer io.Closer = nopCloser{}
	if path := strings.TrimSpace(cfg.File); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, fmt.Errorf("create log dir %q: %w", dir, err)
			}
		}
		rot, err := NewRotateWriter(cfg)
		if err != nil {
			return nil, nil, err
		}
		fileEnc := zap.NewProductionEncoderConfig()
		fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(rot), level))
		closer = rot
	}
	return zap.New(zapcore.NewTee(cores...)), closer, nil
}

// NewRotateWriter returns the lumberjack writer for cfg.File.
func NewRotateWriter(cfg config.LoggingConfig) (*lumberjack.Logger, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return nil, errors.New("log file path is empty")
	}
	if cfg.MaxSizeMB <= 0 {
		return nil, errors.New("max_size_mb must be > 0")
	}
	if cfg.MaxBackups < 0 {
		return nil, errors.New("max_backups must be >= 0")
	}
	if cfg.MaxAgeDays < 0 {
		return nil, errors.New("max_age_days must be >= 0")
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}

func ParseLevel(s string) (zapcore.Level, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
