package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"dartcli/internal/errors"
)

// Config represents the complete application configuration.
type Config struct {
	Dart    DartConfig    `yaml:"dart" envconfig:"DART"`
	S3      S3Config      `yaml:"s3" envconfig:"S3"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// DartConfig contains OpenDART API client configuration.
type DartConfig struct {
	APIKey      string        `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL     string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://opendart.fss.or.kr/api"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	FetchDelay  time.Duration `yaml:"fetch_delay" envconfig:"FETCH_DELAY" default:"500ms"`
}

// S3Config contains the raw-archive mirror configuration.
type S3Config struct {
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	Bucket    string `yaml:"bucket" envconfig:"BUCKET_NAME"`
	Region    string `yaml:"region" envconfig:"REGION" default:"ap-northeast-2"`
	AccessKey string `yaml:"access_key" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"PRIVATE_KEY"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/collector.log"`
}

// Load loads configuration from .env, environment variables and an
// optional config.yaml. Precedence: env vars > config file > defaults.
func Load() (*Config, error) {
	// Populate the process environment from .env first so envconfig and
	// explicit os.Getenv callers see the same values. A missing file is
	// not an error.
	_ = godotenv.Load()

	var fileCfg Config
	if path := configFilePath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// The nested struct tags already carry the full variable names
	// (DART_API_KEY, S3_ACCESS_KEY, ...), so no extra prefix here.
	cfg := fileCfg
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	cfg.Paths.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireAPIKey returns the OpenDART API key, preferring an explicit
// override (the --api-key flag) over the configured value. A missing key
// is a configuration error and fatal before any network call.
func (c *Config) RequireAPIKey(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if c.Dart.APIKey != "" {
		return c.Dart.APIKey, nil
	}
	return "", errors.NewConfigError("DART_API_KEY",
		"missing API key: set the DART_API_KEY environment variable or add it to .env")
}

// RequireS3 validates the S3 credentials needed for raw archival.
func (c *Config) RequireS3() error {
	if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
		return errors.NewConfigError("S3_ACCESS_KEY",
			"missing S3 credentials: set S3_ACCESS_KEY and S3_PRIVATE_KEY")
	}
	if c.S3.Bucket == "" {
		return errors.NewConfigError("S3_BUCKET_NAME",
			"missing S3 bucket: pass --s3-bucket or set S3_BUCKET_NAME")
	}
	return nil
}

func (c *Config) validate() error {
	if c.Dart.BaseURL == "" {
		return errors.NewConfigError("DART_BASE_URL", "base URL must not be empty")
	}
	if c.Dart.Timeout <= 0 {
		return errors.NewConfigError("DART_TIMEOUT", "timeout must be positive")
	}
	if c.Dart.FetchDelay < 0 {
		return errors.NewConfigError("DART_FETCH_DELAY", "fetch delay must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = "info"
	}
	if c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	return nil
}

// configFilePath returns the first config file found in the usual
// locations, or "" when env vars alone should be used.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in default configuration. Used by tests and
// as a fallback when Load fails in a context where aborting is worse
// than running with defaults.
func Default() *Config {
	cfg := &Config{
		Dart: DartConfig{
			BaseURL:    "https://opendart.fss.or.kr/api",
			Timeout:    30 * time.Second,
			FetchDelay: 500 * time.Millisecond,
		},
		S3: S3Config{
			Region: "ap-northeast-2",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/collector.log",
		},
	}
	cfg.Paths.applyDefaults()
	return cfg
}
