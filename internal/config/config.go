package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "BORME_CONFIG"
	apiURLEnv     = "BORME_API_URL"
	usernameEnv   = "BORME_USERNAME"
	passwordEnv   = "BORME_PASSWORD"
	pageSizeEnv   = "BORME_PAGE_SIZE"
	portEnv       = "PORT"
	logLevelEnv   = "LOG_LEVEL"

	defaultAPIURL   = "http://localhost:8080/api"
	defaultPort     = "3000"
	defaultPageSize = 20
	defaultLogLevel = "info"
)

// Config holds the settings shared by the CLI and the web UI
type Config struct {
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig describes how to reach the BORME backend
type APIConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	PageSize int    `yaml:"pageSize"`
}

// ServerConfig configures the web UI listener
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig selects the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing precedence. A .env file is read into the
// environment first without replacing variables that are already set, so
// it can also name the YAML file. path overrides BORME_CONFIG when non-empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("config: cannot read .env file", "error", err)
	}

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = merge(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:  defaultAPIURL,
			PageSize: defaultPageSize,
		},
		Server:  ServerConfig{Port: defaultPort},
		Logging: LoggingConfig{Level: defaultLogLevel},
	}
}

func readFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiURLEnv); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(usernameEnv); v != "" {
		c.API.Username = v
	}
	if v := os.Getenv(passwordEnv); v != "" {
		c.API.Password = v
	}
	if v := os.Getenv(pageSizeEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.PageSize = n
		} else {
			slog.Warn("config: ignoring invalid page size", "value", v)
		}
	}
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func merge(base, override Config) Config {
	if override.API.BaseURL != "" {
		base.API.BaseURL = override.API.BaseURL
	}
	if override.API.Username != "" {
		base.API.Username = override.API.Username
	}
	if override.API.Password != "" {
		base.API.Password = override.API.Password
	}
	if override.API.PageSize > 0 {
		base.API.PageSize = override.API.PageSize
	}
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}
