package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jgivc/jncepweb/internal/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	RedirectHeader = "X-Accel-Redirect"

	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	defaultListen       = ":5000"
	defaultBinary       = "jncep"
	defaultDescFileName = "description.md"
	defaultMaxNameLen   = 64

	EnvEmail          = "JNCEP_EMAIL"
	EnvPassword       = "JNCEP_PASSWORD"
	EnvOutputDir      = "JNCEP_OUTPUT_DIR"
	EnvBinary         = "JNCEP_BINARY"
	EnvWebhookURL     = "DISCORD_WEBHOOK_URL"
	EnvListen         = "LISTEN"
	EnvLogLevel       = "LOG_LEVEL"
	EnvRedisURL       = "REDIS_URL"
	EnvRedirectHeader = "REDIRECT_HEADER"
	EnvDescFileName   = "DESC_FILENAME"
)

type ToolConfig struct {
	Binary    string `yaml:"binary"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	OutputDir string `yaml:"output_dir"`
}

type BrowserConfig struct {
	WorkDir          string `yaml:"work_dir"`
	DescFileName     string `yaml:"desc_filename"`
	TemplateFileName string `yaml:"template_filename"`
	MaxNameLength    int    `yaml:"max_name_length"`
}

type HandlerConfig struct {
	RedirectHeader string `yaml:"header"`
}

type Config struct {
	Listen        string        `yaml:"listen"`
	LogLevel      string        `yaml:"log_level"`
	RedisURL      string        `yaml:"redis_url"`
	WebhookURL    string        `yaml:"webhook_url"`
	ToolConfig    ToolConfig    `yaml:"tool"`
	BrowserConfig BrowserConfig `yaml:"browser"`
	HandlerConfig HandlerConfig `yaml:"handler"`
}

func (c *Config) SetDefaults() {
	c.Listen = defaultListen
	c.LogLevel = LogLevelInfo
	c.ToolConfig.Binary = defaultBinary
	c.BrowserConfig.DescFileName = defaultDescFileName
	c.BrowserConfig.MaxNameLength = defaultMaxNameLen
}

// BrowserCfg returns the browser config with the work dir bound to the tool output dir.
func (c *Config) BrowserCfg() *BrowserConfig {
	cfg := c.BrowserConfig
	cfg.WorkDir = c.ToolConfig.OutputDir

	return &cfg
}

/*
Load builds the configuration in this order:
 1. defaults
 2. optional yaml file (cfgPath may be empty or missing)
 3. .env in the working directory, if present
 4. environment variables
*/
func Load(cfgPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfgPath != "" {
		data, err := os.ReadFile(cfgPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", cfgPath, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("cannot read config file %s: %w", cfgPath, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad(cfgPath string) *Config {
	cfg, err := Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load config: %s\n", err)
		os.Exit(1)
	}

	return cfg
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&c.ToolConfig.Email, EnvEmail)
	set(&c.ToolConfig.Password, EnvPassword)
	set(&c.ToolConfig.OutputDir, EnvOutputDir)
	set(&c.ToolConfig.Binary, EnvBinary)
	set(&c.WebhookURL, EnvWebhookURL)
	set(&c.Listen, EnvListen)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.RedisURL, EnvRedisURL)
	set(&c.HandlerConfig.RedirectHeader, EnvRedirectHeader)
	set(&c.BrowserConfig.DescFileName, EnvDescFileName)
}

func (c *Config) Validate() error {
	var missing []string
	if c.ToolConfig.Email == "" {
		missing = append(missing, EnvEmail)
	}
	if c.ToolConfig.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if c.ToolConfig.OutputDir == "" {
		missing = append(missing, EnvOutputDir)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrConfigurationMissing, strings.Join(missing, ", "))
	}

	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}

	return nil
}
