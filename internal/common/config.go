package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes environment overrides; "__" separates nested keys, e.g.
// LICITACIONES_LLM__API_KEY -> llm.api_key.
const EnvPrefix = "LICITACIONES_"

const maxConfigFileSize = 1024 * 1024

// Config holds all application configuration
type Config struct {
	Log      LogConfig      `koanf:"log"`
	LLM      LLMConfig      `koanf:"llm"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Queue    QueueConfig    `koanf:"queue"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Export   ExportConfig   `koanf:"export"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// LLMConfig holds model-assisted extraction settings
type LLMConfig struct {
	Enabled       bool          `koanf:"enabled"`
	APIKey        string        `koanf:"api_key"`
	BaseURL       string        `koanf:"base_url"`
	Model         string        `koanf:"model"`
	Temperature   float32       `koanf:"temperature"`
	MaxTokens     int           `koanf:"max_tokens"`
	Timeout       time.Duration `koanf:"timeout"`
	MaxInputChars int           `koanf:"max_input_chars"`
	RatePerSec    float64       `koanf:"rate_per_sec"`
	Burst         int           `koanf:"burst"`
	MaxRetries    int           `koanf:"max_retries"`
	MinConfidence int           `koanf:"min_confidence"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string        `koanf:"driver"` // postgres, sqlite, none
	DSN              string        `koanf:"dsn"`
	MaxConns         int32         `koanf:"max_conns"`
	MinConns         int32         `koanf:"min_conns"`
	MaxConnLifetime  time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `koanf:"max_conn_idle_time"`
	DialTimeout      time.Duration `koanf:"dial_timeout"`
	StatementTimeout time.Duration `koanf:"statement_timeout"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string        `koanf:"http_addr"`
	GRPCAddr        string        `koanf:"grpc_addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type QueueConfig struct {
	Workers        int           `koanf:"workers"`
	Size           int           `koanf:"size"`
	ProcessTimeout time.Duration `koanf:"process_timeout"`
}

type IngestConfig struct {
	Dir         string        `koanf:"dir"`
	Extensions  []string      `koanf:"extensions"`
	Debounce    time.Duration `koanf:"debounce"`
	InitialScan bool          `koanf:"initial_scan"`
	SkipHidden  bool          `koanf:"skip_hidden"`
	OpenOnly    bool          `koanf:"open_only"`
}

type ExportConfig struct {
	Path string `koanf:"path"`
}

// DefaultConfig returns the settings used when neither file nor environment
// says otherwise.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{
			Enabled:       true,
			BaseURL:       "https://api.openai.com/v1",
			Model:         "gpt-4o-mini",
			Temperature:   0.1,
			MaxTokens:     1000,
			Timeout:       30 * time.Second,
			MaxInputChars: 8000,
			RatePerSec:    2,
			Burst:         2,
			MaxRetries:    2,
			MinConfidence: 50,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "./data/licitaciones.db",
			MaxConns:        20,
			MinConns:        2,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":9090",
			ShutdownTimeout: 15 * time.Second,
		},
		Queue: QueueConfig{Workers: 4, Size: 256, ProcessTimeout: 3 * time.Minute},
		Ingest: IngestConfig{
			Dir:         "./inbox",
			Extensions:  []string{"txt"},
			Debounce:    500 * time.Millisecond,
			InitialScan: true,
			SkipHidden:  true,
			OpenOnly:    true,
		},
		Export: ExportConfig{Path: "./licitaciones.xlsx"},
	}
}

// LoadConfig layers defaults, the optional YAML file at path and environment
// overrides, then validates the result. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "parse "+path, fmt.Errorf("%w: %w", ErrInvalidInput, err))
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "load environment", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "decode config", fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	applyConventionalEnv(&cfg)
	cfg.Ingest.Extensions = splitList(cfg.Ingest.Extensions)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps LICITACIONES_LLM__API_KEY to llm.api_key.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// applyConventionalEnv honors the variable names operators already export.
func applyConventionalEnv(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if url := os.Getenv("DB_URL"); url != "" && os.Getenv(EnvPrefix+"DATABASE__DSN") == "" {
		cfg.Database.DSN = url
		if os.Getenv(EnvPrefix+"DATABASE__DRIVER") == "" {
			cfg.Database.Driver = "postgres"
		}
	}
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", "stat "+path, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("%s exceeds %d bytes", path, maxConfigFileSize), ErrInvalidInput)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", "read "+path, err)
	}
	return content, nil
}

// splitList accepts both YAML lists and a comma separated env value.
func splitList(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error")).
		Field("log.format", c.Log.Format, OneOf("text", "json")).
		Field("database.driver", c.Database.Driver, OneOf("postgres", "sqlite", "none")).
		Field("queue.workers", c.Queue.Workers, Positive).
		Field("queue.size", c.Queue.Size, Positive).
		Field("llm.min_confidence", c.LLM.MinConfidence, Between(0, 100))
	if c.Database.Driver != "none" {
		v.Field("database.dsn", c.Database.DSN, Required)
	}
	if c.LLM.Enabled {
		v.Field("llm.model", c.LLM.Model, Required).
			Field("llm.base_url", c.LLM.BaseURL, Required).
			Field("llm.timeout", c.LLM.Timeout, Positive)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrValidation)
	}
	return nil
}
