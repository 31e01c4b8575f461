package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/manifest"
)

// HistoryDisabled as DB_PATH turns the run history off.
const HistoryDisabled = "off"

// AppConfig holds infrastructure config from standard env vars
type AppConfig struct {
	DBPath     string
	ConfigPath string // Path to the YAML parser config file
	LogLevel   string
	LogFormat  string
	HTTPAddr   string
}

// HistoryEnabled reports whether runs should be recorded.
func (c AppConfig) HistoryEnabled() bool {
	return c.DBPath != "" && !strings.EqualFold(c.DBPath, HistoryDisabled)
}

// ParserConfig holds the report-format settings (from YAML)
type ParserConfig struct {
	Markers           manifest.Markers   `yaml:"markers"`
	LazyQuotes        bool               `yaml:"lazy_quotes"`
	CategoryTemplates map[string][]uint8 `yaml:"category_templates"`
}

// DefaultCategoryTemplates are the named category selections offered when the
// config file does not define its own.
func DefaultCategoryTemplates() map[string][]uint8 {
	return map[string][]uint8{
		"clothing":    {22, 23, 33, 68},
		"electronics": {1, 2, 3, 4, 5},
	}
}

// DefaultParserConfig is used when no config file exists.
func DefaultParserConfig() *ParserConfig {
	return &ParserConfig{
		Markers:           manifest.DefaultMarkers(),
		CategoryTemplates: DefaultCategoryTemplates(),
	}
}

// GetAppConfig reads basic infrastructure settings from environment variables.
// A .env file in the working directory is loaded first when present.
func GetAppConfig() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("failed loading .env file: %w", err)
	}

	return AppConfig{
		DBPath:     getenvWithDefault("DB_PATH", "./local-data/manifest.db"),
		ConfigPath: getenvWithDefault("CONFIG_PATH", "manifest.yaml"),
		LogLevel:   getenvWithDefault("LOG_LEVEL", "info"),
		LogFormat:  getenvWithDefault("LOG_FORMAT", "console"),
		HTTPAddr:   getenvWithDefault("HTTP_ADDR", ":8080"),
	}, nil
}

// LoadParserConfig reads the YAML file that describes the report format.
// A missing file yields the defaults.
func LoadParserConfig(path string) (*ParserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultParserConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}

	var cfg ParserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	cfg.Markers = cfg.Markers.WithDefaults()
	if len(cfg.CategoryTemplates) == 0 {
		cfg.CategoryTemplates = DefaultCategoryTemplates()
	}
	return &cfg, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
