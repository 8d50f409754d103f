package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "pipelint.yaml"

const (
	defaultLogMaxSizeMB  = 50
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7
)

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	Split struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"split"`

	Join struct {
		InputDir   string `yaml:"input_dir"`
		OutputFile string `yaml:"output_file"`
	} `yaml:"join"`

	Report struct {
		// Format is text or json.
		Format string `yaml:"format"`
		// Color is auto, always or never.
		Color string `yaml:"color"`
	} `yaml:"report"`

	Watch struct {
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"watch"`

	Serve struct {
		Listen       string `yaml:"listen"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
		// H2C serves cleartext HTTP/2 next to HTTP/1.1.
		H2C bool `yaml:"h2c"`
	} `yaml:"serve"`

	Logging LoggingConfig `yaml:"logging"`
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadIfExists loads path when it exists and falls back to defaults otherwise.
func LoadIfExists(path string) (*Config, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = DefaultPath
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			applyEnvOverrides(cfg)
			if err := validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	return Load(p)
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Split.OutputDir) == "" {
		cfg.Split.OutputDir = "."
	}
	if strings.TrimSpace(cfg.Join.InputDir) == "" {
		cfg.Join.InputDir = "."
	}
	if strings.TrimSpace(cfg.Join.OutputFile) == "" {
		cfg.Join.OutputFile = "pipeline.conf"
	}
	if strings.TrimSpace(cfg.Report.Format) == "" {
		cfg.Report.Format = "text"
	}
	if strings.TrimSpace(cfg.Report.Color) == "" {
		cfg.Report.Color = "auto"
	}
	if cfg.Watch.DebounceMs <= 0 {
		cfg.Watch.DebounceMs = 300
	}
	if strings.TrimSpace(cfg.Serve.Listen) == "" {
		cfg.Serve.Listen = "127.0.0.1:3320"
	}
	if cfg.Serve.MaxBodyBytes == 0 {
		cfg.Serve.MaxBodyBytes = 2 * 1024 * 1024
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = defaultLogMaxBackups
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = defaultLogMaxAgeDays
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PIPELINT_LISTEN")); v != "" {
		cfg.Serve.Listen = v
	}
	cfg.Serve.H2C = envBool("PIPELINT_H2C", cfg.Serve.H2C)
	if v := strings.TrimSpace(os.Getenv("PIPELINT_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("PIPELINT_LOG_FILE")); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv("PIPELINT_REPORT_FORMAT")); v != "" {
		cfg.Report.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("PIPELINT_COLOR")); v != "" {
		cfg.Report.Color = v
	}
	if n, ok := envInt("PIPELINT_WATCH_DEBOUNCE_MS"); ok {
		cfg.Watch.DebounceMs = n
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func validate(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Report.Format)) {
	case "text", "json":
	default:
		return fmt.Errorf("report.format must be text or json, got %q", cfg.Report.Format)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Report.Color)) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("report.color must be auto, always or never, got %q", cfg.Report.Color)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", cfg.Logging.Level)
	}
	if cfg.Watch.DebounceMs <= 0 {
		return errors.New("watch.debounce_ms must be > 0")
	}
	if cfg.Serve.MaxBodyBytes <= 0 {
		return errors.New("serve.max_body_bytes must be > 0")
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		return errors.New("logging.max_size_mb must be > 0")
	}
	if cfg.Logging.MaxBackups < 0 {
		return errors.New("logging.max_backups must be >= 0")
	}
	if cfg.Logging.MaxAgeDays < 0 {
		return errors.New("logging.max_age_days must be >= 0")
	}
	return nil
}
