// Package config provides configuration management for tagtree using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration file is .tagtree.yml. Every key can be overridden with a
// TAGTREE_ environment variable (TAGTREE_RENDER_FORMAT, TAGTREE_PREVIEW_PORT,
// ...) or with the matching command-line flag. It covers rendering options,
// file watching, the preview server and logging.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied by Load when a key is unset.
const (
	DefaultRenderFormat  = "pretty"
	DefaultWatchDebounce = 100 * time.Millisecond
	DefaultPreviewHost   = "localhost"
	DefaultPreviewPort   = 7331
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

type Config struct {
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type RenderConfig struct {
	Format string   `mapstructure:"format" yaml:"format" validate:"oneof=pretty minified"`
	Output string   `mapstructure:"output" yaml:"output"`
	Args   []string `mapstructure:"args" yaml:"args"`
}

type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" validate:"gte=0"`
}

type PreviewConfig struct {
	Host           string   `mapstructure:"host" yaml:"host" validate:"required"`
	Port           int      `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	Dir    string `mapstructure:"dir" yaml:"dir"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Keys lists every configuration key. Viper only unmarshals environment
// variables for keys it already knows about, so each one is bound
// explicitly by BindEnv.
var Keys = []string{
	"render.format",
	"render.output",
	"render.args",
	"watch.enabled",
	"watch.debounce",
	"preview.host",
	"preview.port",
	"preview.allowed_origins",
	"log.level",
	"log.format",
	"log.dir",
}

// BindEnv binds every key in Keys to its environment variable. The env
// prefix and key replacer must already be configured on viper.
func BindEnv() error {
	for _, key := range Keys {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle slices set via viper from env or flags (workaround for viper slice handling)
	if viper.IsSet("render.args") && len(config.Render.Args) == 0 {
		config.Render.Args = viper.GetStringSlice("render.args")
	}
	if viper.IsSet("preview.allowed_origins") && len(config.Preview.AllowedOrigins) == 0 {
		config.Preview.AllowedOrigins = viper.GetStringSlice("preview.allowed_origins")
	}

	// Flags bound under their short names take precedence over file values
	if viper.IsSet("log-level") {
		config.Log.Level = viper.GetString("log-level")
	}
	if viper.IsSet("log-format") {
		config.Log.Format = viper.GetString("log-format")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Render.Format == "" {
		config.Render.Format = DefaultRenderFormat
	}
	if !viper.IsSet("watch.debounce") && config.Watch.Debounce == 0 {
		config.Watch.Debounce = DefaultWatchDebounce
	}
	if config.Preview.Host == "" {
		config.Preview.Host = DefaultPreviewHost
	}
	if !viper.IsSet("preview.port") && config.Preview.Port == 0 {
		config.Preview.Port = DefaultPreviewPort
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	config.Log.Level = strings.ToLower(config.Log.Level)
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	if config.Render.Output != "" {
		if err := ValidatePath(config.Render.Output); err != nil {
			return fmt.Errorf("render output: %w", err)
		}
	}

	if config.Log.Dir != "" {
		if err := ValidatePath(config.Log.Dir); err != nil {
			return fmt.Errorf("log dir: %w", err)
		}
	}

	for _, origin := range config.Preview.AllowedOrigins {
		if strings.ContainsAny(origin, " \t\r\n") {
			return fmt.Errorf("preview origin contains whitespace: %q", origin)
		}
	}

	return nil
}

// ValidatePath rejects paths with traversal or shell metacharacters
func ValidatePath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// Address returns the host:port the preview server listens on
func (c PreviewConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
