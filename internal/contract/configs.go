package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/pactsafe/schema"
)

// Default values for configuration.
const (
	DefaultTimeout         = 60 * time.Second
	DefaultWorkers         = 4
	MaxWorkers             = 64
	DefaultCacheMaxEntries = 256
	MaxCacheMaxEntries     = 100_000
)

// Config holds the validated runtime configuration.
type Config struct {
	SiteAccessID string
	BaseURL      string
	AppName      string
	TestMode     bool
	Debug        bool
	Timeout      time.Duration
	Workers      int
	RateLimit    float64 // Requests per second, 0 = unlimited

	CacheBackend    schema.CacheBackend
	CacheMaxEntries int
	CacheTTL        time.Duration // 0 = entries never expire

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	MetricsAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	SiteAccessID string  `mapstructure:"site-access-id"`
	BaseURL      string  `mapstructure:"base-url"`
	AppName      string  `mapstructure:"app-name"`
	TestMode     bool    `mapstructure:"test-mode"`
	Debug        bool    `mapstructure:"debug"`
	Timeout      string  `mapstructure:"timeout"`
	Workers      int     `mapstructure:"workers"`
	RateLimit    float64 `mapstructure:"rate-limit"`

	CacheBackend    string `mapstructure:"cache-backend"`
	CacheMaxEntries int    `mapstructure:"cache-max-entries"`
	CacheTTL        string `mapstructure:"cache-ttl"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	MetricsAddr string `mapstructure:"metrics-addr"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateClientInputs(cfg, input); err != nil {
		return err
	}
	if err := validateCacheInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateClientInputs covers the settings handed to the client.
func validateClientInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.SiteAccessID = strings.TrimSpace(input.SiteAccessID)
	cfg.AppName = strings.TrimSpace(input.AppName)
	cfg.TestMode = input.TestMode
	cfg.Debug = input.Debug
	cfg.MetricsAddr = input.MetricsAddr

	cfg.BaseURL = input.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = schema.DefaultBaseURL
	}
	if err := ValidateBaseURL(cfg.BaseURL); err != nil {
		return err
	}

	timeout, err := parseDuration(input.Timeout, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout value: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0 (received %s)", timeout)
	}
	cfg.Timeout = timeout

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	if input.RateLimit < 0 {
		return fmt.Errorf("rate-limit cannot be negative (received %g)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit
	return nil
}

// validateCacheInputs covers the response cache settings.
func validateCacheInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.CacheBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.MemoryBackend
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be memory, none", input.CacheBackend)
	}

	if input.CacheMaxEntries <= 0 || input.CacheMaxEntries > MaxCacheMaxEntries {
		return fmt.Errorf("cache-max-entries must be greater than 0 and cannot exceed %d (received %d)", MaxCacheMaxEntries, input.CacheMaxEntries)
	}
	cfg.CacheMaxEntries = input.CacheMaxEntries

	ttl, err := parseDuration(input.CacheTTL, 0)
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl value: %w", err)
	}
	if ttl < 0 {
		return fmt.Errorf("cache-ttl cannot be negative (received %s)", ttl)
	}
	cfg.CacheTTL = ttl
	return nil
}

// validateOutputInputs covers rendering settings.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// ValidateBaseURL checks that base is an absolute http(s) URL without a
// query or fragment.
func ValidateBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http or https url", base)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("base url %q must not carry a query or fragment", base)
	}
	return nil
}

// parseDuration parses s, returning def for an empty string.
func parseDuration(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
