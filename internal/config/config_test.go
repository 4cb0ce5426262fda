package config

import (
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Insights: InsightsConfig{
			BaseURL: "https://api.example.com",
			APIKey:  "test-key",
		},
		Completion: CompletionConfig{
			APIKey: "test-key",
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingInsightsKey(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.Insights.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing insights api key")
	}
}

func TestValidate_WeightedCapBelowQueryCap(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.Pipeline.QueryTagCap = 20
	cfg.Pipeline.WeightedTagCap = 10

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for weighted_tag_cap < query_tag_cap")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.KeyPrefix != "zento:" {
		t.Errorf("expected KeyPrefix='zento:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Insights.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", cfg.Insights.MaxRetries)
	}
	if cfg.Insights.CacheTTLSec != 300 {
		t.Errorf("expected CacheTTLSec=300, got %d", cfg.Insights.CacheTTLSec)
	}
	if len(cfg.Completion.Models) == 0 {
		t.Error("expected default completion models")
	}
	if cfg.Pipeline.QueryTagCap != 3 {
		t.Errorf("expected QueryTagCap=3, got %d", cfg.Pipeline.QueryTagCap)
	}
	if cfg.Pipeline.ProfileTagCap != 8 {
		t.Errorf("expected ProfileTagCap=8, got %d", cfg.Pipeline.ProfileTagCap)
	}
	if cfg.Pipeline.NewTagWeight != 15 {
		t.Errorf("expected NewTagWeight=15, got %d", cfg.Pipeline.NewTagWeight)
	}
	if len(cfg.Pipeline.SensitivityDenylist) == 0 {
		t.Error("expected default sensitivity denylist")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 120, ShutdownSec: 5},
		Database: DatabaseConfig{KeyPrefix: "custom:"},
		Pipeline: PipelineConfig{QueryTagCap: 5, NewTagWeight: 20},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Pipeline.QueryTagCap != 5 {
		t.Errorf("expected QueryTagCap=5, got %d", cfg.Pipeline.QueryTagCap)
	}
	if cfg.Pipeline.NewTagWeight != 20 {
		t.Errorf("expected NewTagWeight=20, got %d", cfg.Pipeline.NewTagWeight)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ZENTO_TEST_VAR", "hello")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "value: ${ZENTO_TEST_VAR}", "value: hello"},
		{"unset variable", "value: ${ZENTO_TEST_UNSET}", "value: "},
		{"default used", "value: ${ZENTO_TEST_UNSET:-fallback}", "value: fallback"},
		{"default ignored when set", "value: ${ZENTO_TEST_VAR:-fallback}", "value: hello"},
		{"no variables", "value: plain", "value: plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnvVars([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
