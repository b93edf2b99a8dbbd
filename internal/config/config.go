package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/compozy/create-app-tag/internal/repository"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Remote         string        `mapstructure:"remote"`
	Backend        string        `mapstructure:"backend"`
	GitBinary      string        `mapstructure:"git_binary"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	PushRetries    int           `mapstructure:"push_retries"`
	PushRetryDelay time.Duration `mapstructure:"push_retry_delay"`
	LogLevel       string        `mapstructure:"log_level"`
	GithubToken    string        `mapstructure:"github_token"`
}

const (
	BackendGit   = "git"
	BackendGoGit = "go-git"
)

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"remote":    "remote",
	"backend":   "backend",
	"log-level": "log_level",
}

var remoteName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]*$`)

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Remote:         repository.DefaultRemote,
		Backend:        BackendGit,
		GitBinary:      "git",
		PushRetryDelay: time.Second,
		LogLevel:       "warn",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := ValidateRemoteName(c.Remote); err != nil {
		return fmt.Errorf("invalid remote: %w", err)
	}
	switch c.Backend {
	case BackendGit, BackendGoGit:
	default:
		return fmt.Errorf("invalid backend %q: expected %s or %s", c.Backend, BackendGit, BackendGoGit)
	}
	if c.Backend == BackendGit && strings.TrimSpace(c.GitBinary) == "" {
		return errors.New("git_binary cannot be empty")
	}
	if c.CommandTimeout < 0 {
		return errors.New("command_timeout cannot be negative")
	}
	if c.PushRetries < 0 {
		return errors.New("push_retries cannot be negative")
	}
	if c.PushRetryDelay <= 0 {
		return errors.New("push_retry_delay must be positive")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// ValidateRemoteName validates a git remote name (exported for reuse)
func ValidateRemoteName(name string) error {
	if name == "" {
		return errors.New("remote cannot be empty")
	}
	if !remoteName.MatchString(name) || strings.Contains(name, "..") || strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("invalid remote name: %s", name)
	}
	return nil
}

// LoadConfig reads .create-app-tag.yaml from the working directory, the
// CREATE_APP_TAG_* environment and, when flags is non-nil, explicitly set flags.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".create-app-tag")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	// Configure environment variables
	v.SetEnvPrefix("CREATE_APP_TAG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	// BindEnv allows multiple env vars - it will check them in order
	if err := v.BindEnv("github_token", "CREATE_APP_TAG_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	defaults := DefaultConfig()
	v.SetDefault("remote", defaults.Remote)
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("git_binary", defaults.GitBinary)
	v.SetDefault("command_timeout", defaults.CommandTimeout)
	v.SetDefault("push_retries", defaults.PushRetries)
	v.SetDefault("push_retry_delay", defaults.PushRetryDelay)
	v.SetDefault("log_level", defaults.LogLevel)
	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind --%s flag: %w", name, err)
				}
			}
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
