// Package config provides configuration for schedule reads.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/arkilian/schedread/internal/errors"
)

// EnvPrefix is the prefix of every environment variable read by LoadFromEnv.
const EnvPrefix = "SCHEDREAD_"

// Config holds the configuration for a schedule read.
type Config struct {
	// DataDir is the base directory for downloaded and decompressed inputs
	DataDir string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`

	// Input controls how inputs are interpreted
	Input InputConfig `json:"input" yaml:"input" toml:"input"`

	// Log configuration
	Log LogConfig `json:"log" yaml:"log" toml:"log"`

	// Storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage" toml:"storage"`
}

// InputConfig holds input interpretation settings.
type InputConfig struct {
	// Delimiter separates fields in text exports (a single byte)
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`

	// ProjectID selects the project in multi-project databases (0 = first)
	ProjectID int `json:"project_id" yaml:"project_id" toml:"project_id"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" yaml:"level" toml:"level"`

	// Format is text or json
	Format string `json:"format" yaml:"format" toml:"format"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	// Type is the storage type: local, s3
	Type string `json:"type" yaml:"type" toml:"type"`

	// Path is the base directory for local storage; empty means the
	// working directory
	Path string `json:"path" yaml:"path" toml:"path"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3" toml:"s3"`
}

// S3Config holds S3 storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket" toml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region" toml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`

	// UsePathStyle enables path-style addressing
	UsePathStyle bool `json:"use_path_style" yaml:"use_path_style" toml:"use_path_style"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data/schedread",
		Input: InputConfig{
			Delimiter: ",",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Type: "local",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
	}
}

// Resolve fills in defaults left empty by file or environment overrides.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/schedread"
	}
	if c.Input.Delimiter == "" {
		c.Input.Delimiter = ","
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
}

// WorkDir returns the directory for temporary input copies.
func (c *Config) WorkDir() string {
	return filepath.Join(c.DataDir, "work")
}

// DelimiterByte returns the text-export field delimiter.
func (c *Config) DelimiterByte() byte {
	if len(c.Input.Delimiter) == 0 {
		return ','
	}
	return c.Input.Delimiter[0]
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.NewConfigError("data_dir is required")
	}

	if len(c.Input.Delimiter) != 1 {
		return errors.NewConfigError(fmt.Sprintf("input.delimiter must be a single byte, got %q", c.Input.Delimiter))
	}

	if c.Input.ProjectID < 0 {
		return errors.NewConfigError(fmt.Sprintf("input.project_id must not be negative, got %d", c.Input.ProjectID))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigError(fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.NewConfigError(fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return errors.NewConfigError(fmt.Sprintf("invalid storage type: %s (must be local or s3)", c.Storage.Type))
	}

	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return errors.NewConfigError("s3.bucket is required when storage type is s3")
	}

	return nil
}

// LoadFromFile loads configuration from a YAML, JSON or TOML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig, "failed to read config file", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig, "failed to parse YAML config", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig, "failed to parse JSON config", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig, "failed to parse TOML config", err)
		}
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unsupported config file format: %s", ext))
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables already set are left untouched.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig, "failed to load env file", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SCHEDREAD_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	// Input configuration
	if v := getenv("DELIMITER"); v != "" {
		cfg.Input.Delimiter = v
	}
	if v := getenv("PROJECT_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Input.ProjectID = id
		}
	}

	// Log configuration
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}

	// Storage configuration
	if v := getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := getenv("S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := getenv("S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := getenv("S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := getenv("S3_USE_PATH_STYLE"); v != "" {
		cfg.Storage.S3.UsePathStyle = v == "true" || v == "1"
	}
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.WorkDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCategoryConfig, errors.CodeInvalidConfig,
				fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	return nil
}
