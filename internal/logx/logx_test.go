package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/r9s-ai/pipelint/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, c, err := New(config.LoggingConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()

	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pipelint.log")
	cfg := config.LoggingConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
	l, c, err := New(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("split done")
	_ = l.Sync()
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"split done"`) {
		t.Fatalf("log file content %q", string(b))
	}
}

func TestNewRotateWriterValidation(t *testing.T) {
	if _, err := NewRotateWriter(config.LoggingConfig{File: "", MaxSizeMB: 1}); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := NewRotateWriter(config.LoggingConfig{File: "./a.log", MaxSizeMB: 0}); err == nil {
		t.Fatalf("expected error for invalid max_size_mb")
	}
	if _, err := NewRotateWriter(config.LoggingConfig{File: "./a.log", MaxSizeMB: 1, MaxBackups: -1}); err == nil {
		t.Fatalf("expected error for invalid max_backups")
	}
	if _, err := NewRotateWriter(config.LoggingConfig{File: "./a.log", MaxSizeMB: 1, MaxAgeDays: -1}); err == nil {
		t.Fatalf("expected error for invalid max_age_days")
	}
}
