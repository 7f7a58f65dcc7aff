package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	DB     DBConfig     `yaml:"db"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type ScanConfig struct {
	Root         string        `yaml:"root" validate:"required"`
	EntryTimeout time.Duration `yaml:"entry_timeout" validate:"gte=0"`
}

type DBConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
	// CORSOrigins lists browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string `yaml:"cors_origins" validate:"dive,http_url|eq=*"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Path  string `yaml:"path"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigPath is a YAML file; TENDERINDEX_CONFIG_PATH is used when empty.
	ConfigPath string
	// EnvFile is a dotenv file. A missing file is not an error.
	EnvFile string
}

// Load builds the configuration from defaults, an optional dotenv file, an
// optional YAML file and environment variables, in that order.
func Load(opts Options) (Config, error) {
	cfg := Config{
		Scan: ScanConfig{
			Root: "../vDaten/active",
		},
		DB: DBConfig{
			Path: "projects.db",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv("TENDERINDEX_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if root := firstEnv("TENDERINDEX_ROOT_FOLDER", "ROOT_FOLDER"); root != "" {
		cfg.Scan.Root = root
	}
	if timeoutStr := os.Getenv("TENDERINDEX_ENTRY_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid TENDERINDEX_ENTRY_TIMEOUT: %w", err)
		}
		cfg.Scan.EntryTimeout = timeout
	}
	if dbPath := firstEnv("TENDERINDEX_DB_PATH", "DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if host := os.Getenv("TENDERINDEX_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TENDERINDEX_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid TENDERINDEX_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if origins := os.Getenv("TENDERINDEX_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}
	if level := os.Getenv("TENDERINDEX_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TENDERINDEX_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	return nil
}

// firstEnv returns the first non-empty variable among names.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validate = validator.New()

// Validate checks the configuration for missing or out-of-range values.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
