// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	LogFormatJSON   = "json"
	LogFormatSimple = "simple"
)

const (
	defaultPort            = 3001
	defaultHost            = "0.0.0.0"
	defaultCORSOrigin      = "*"
	defaultDataDir         = "data"
	defaultConfigFileName  = "config.json"
	defaultLogDir          = "logs"
	defaultShutdownTimeout = 30 * time.Second
)

var validLogLevels = map[string]bool{
	"error": true,
	"warn":  true,
	"info":  true,
	"debug": true,
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		CORSOrigin      string        `yaml:"cors_origin"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"app"`

	Storage struct {
		DataDir    string `yaml:"data_dir"`
		ConfigFile string `yaml:"config_file"`
		AuditCron  string `yaml:"audit_cron"`
	} `yaml:"storage"`

	Log struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		EnableFileLogging *bool  `yaml:"enable_file_logging"`
		Dir               string `yaml:"dir"`
	} `yaml:"log"`
}

// Load reads the optional .env and YAML files next to configPath, applies
// environment overrides and fills defaults. A missing YAML file is not an
// error; every setting can come from the environment alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		envPath := filepath.Join(filepath.Dir(configPath), ".env")
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}

		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.App.Environment, "ENVIRONMENT")
	setString(&c.App.Host, "HOST")
	setString(&c.App.CORSOrigin, "CORS_ORIGIN")
	setString(&c.Storage.DataDir, "DATA_DIR")
	setString(&c.Storage.ConfigFile, "CONFIG_FILE")
	setString(&c.Storage.AuditCron, "CONFIG_AUDIT_CRON")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.Dir, "LOG_DIR")

	if value := strings.TrimSpace(os.Getenv("PORT")); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("PORT must be an integer: %w", err)
		}
		c.App.Port = port
	}
	if value := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT_SECONDS")); value != "" {
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be an integer: %w", err)
		}
		c.App.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	// Anything but an explicit "false" keeps file logging on.
	if value := strings.TrimSpace(os.Getenv("ENABLE_FILE_LOGGING")); value != "" {
		enabled := value != "false"
		c.Log.EnableFileLogging = &enabled
	}

	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "excerpt-config"
	}
	if c.App.Environment == "" {
		c.App.Environment = EnvDevelopment
	}
	if c.App.Host == "" {
		c.App.Host = defaultHost
	}
	if c.App.Port == 0 {
		c.App.Port = defaultPort
	}
	if c.App.CORSOrigin == "" {
		c.App.CORSOrigin = defaultCORSOrigin
	}
	if c.App.ShutdownTimeout == 0 {
		c.App.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir
	}
	if c.Storage.ConfigFile == "" {
		c.Storage.ConfigFile = filepath.Join(c.Storage.DataDir, defaultConfigFileName)
	}
	if c.Log.Level == "" {
		c.Log.Level = "debug"
		if c.IsProduction() {
			c.Log.Level = "info"
		}
	}
	if c.Log.Format == "" {
		c.Log.Format = LogFormatJSON
	}
	if c.Log.EnableFileLogging == nil {
		enabled := true
		c.Log.EnableFileLogging = &enabled
	}
	if c.Log.Dir == "" {
		c.Log.Dir = defaultLogDir
	}
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port must be between 1 and 65535, got %d", c.App.Port)
	}
	if c.App.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative")
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("unsupported log level: %s", c.Log.Level)
	}
	switch c.Log.Format {
	case LogFormatJSON, LogFormatSimple:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}
	if strings.TrimSpace(c.Storage.ConfigFile) == "" {
		return fmt.Errorf("storage config file is required")
	}
	if c.Storage.AuditCron != "" {
		if _, err := cron.ParseStandard(c.Storage.AuditCron); err != nil {
			return fmt.Errorf("invalid audit cron %q: %w", c.Storage.AuditCron, err)
		}
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func (c *Config) FileLoggingEnabled() bool {
	return c.Log.EnableFileLogging != nil && *c.Log.EnableFileLogging
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.App.Host, strconv.Itoa(c.App.Port))
}

// Empty variables count as unset so an exported-but-blank key does not wipe
// a value from the YAML file.
func setString(dst *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}
