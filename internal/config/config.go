package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the zento API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Insights   InsightsConfig   `yaml:"insights"`
	Completion CompletionConfig `yaml:"completion"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the profile store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// InsightsConfig holds the insights collaborator settings.
type InsightsConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	MaxRetries  int    `yaml:"max_retries"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`
}

// CompletionConfig holds the text-completion collaborator settings. Models
// are tried in order on transient failure.
type CompletionConfig struct {
	APIKey            string   `yaml:"api_key"`
	BaseURL           string   `yaml:"base_url"`
	Models            []string `yaml:"models"`
	MaxTokens         int      `yaml:"max_tokens"`
	Temperature       float32  `yaml:"temperature"`
	RequestTimeoutSec int      `yaml:"request_timeout_sec"`
}

// PipelineConfig holds the pipeline tuning constants.
type PipelineConfig struct {
	QueryTagCap         int      `yaml:"query_tag_cap"`          // tags per external query
	KeywordSearchCap    int      `yaml:"keyword_search_cap"`     // keyword lookups per request
	EntitySearchCap     int      `yaml:"entity_search_cap"`      // entity lookups per request
	SearchConcurrency   int      `yaml:"search_concurrency"`     // parallel lookups in flight
	ContextTagCap       int      `yaml:"context_tag_cap"`        // profile tags blended with fresh tags
	ProfileTagCap       int      `yaml:"profile_tag_cap"`        // profile tags used alone
	WeightedTagCap      int      `yaml:"weighted_tag_cap"`       // weighted tags per query
	NewTagWeight        int      `yaml:"new_tag_weight"`         // weight for freshly resolved tags
	ContextTagWeight    int      `yaml:"context_tag_weight"`     // weight for blended profile tags
	DefaultTagWeight    int      `yaml:"default_tag_weight"`     // uniform fallback weight
	SensitivityDenylist []string `yaml:"sensitivity_denylist"`   // profile tags unfit for casual context
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "zento:"
	}
	if c.Insights.TimeoutSec <= 0 {
		c.Insights.TimeoutSec = 20
	}
	if c.Insights.MaxRetries <= 0 {
		c.Insights.MaxRetries = 3
	}
	if c.Insights.CacheTTLSec <= 0 {
		c.Insights.CacheTTLSec = 300
	}
	if len(c.Completion.Models) == 0 {
		c.Completion.Models = []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo"}
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = 1500
	}
	if c.Completion.Temperature <= 0 {
		c.Completion.Temperature = 0.2
	}
	if c.Completion.RequestTimeoutSec <= 0 {
		c.Completion.RequestTimeoutSec = 30
	}
	c.Pipeline.applyDefaults()
}

func (p *PipelineConfig) applyDefaults() {
	if p.QueryTagCap <= 0 {
		p.QueryTagCap = 3
	}
	if p.KeywordSearchCap <= 0 {
		p.KeywordSearchCap = 5
	}
	if p.EntitySearchCap <= 0 {
		p.EntitySearchCap = 3
	}
	if p.SearchConcurrency <= 0 {
		p.SearchConcurrency = 4
	}
	if p.ContextTagCap <= 0 {
		p.ContextTagCap = 2
	}
	if p.ProfileTagCap <= 0 {
		p.ProfileTagCap = 8
	}
	if p.WeightedTagCap <= 0 {
		p.WeightedTagCap = 15
	}
	if p.NewTagWeight <= 0 {
		p.NewTagWeight = 15
	}
	if p.ContextTagWeight <= 0 {
		p.ContextTagWeight = 8
	}
	if p.DefaultTagWeight <= 0 {
		p.DefaultTagWeight = 10
	}
	if len(p.SensitivityDenylist) == 0 {
		p.SensitivityDenylist = []string{"drama", "victim", "counselor", "school", "medical"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Insights.BaseURL == "" {
		return fmt.Errorf("insights.base_url is required")
	}
	if c.Insights.APIKey == "" {
		return fmt.Errorf("insights.api_key is required")
	}
	if c.Completion.APIKey == "" {
		return fmt.Errorf("completion.api_key is required")
	}
	if c.Pipeline.WeightedTagCap < c.Pipeline.QueryTagCap {
		return fmt.Errorf("pipeline.weighted_tag_cap must be >= pipeline.query_tag_cap")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
