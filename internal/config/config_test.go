package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoad_DefaultsWhenNothingSet(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Performance.MaxConcurrentCollectors != 5 {
		t.Errorf("max_concurrent_collectors = %d, want 5", cfg.Performance.MaxConcurrentCollectors)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("default_format = %q, want text", cfg.Output.DefaultFormat)
	}
	if cfg.Forecast.DefaultHorizonHours != 48 {
		t.Errorf("default_horizon_hours = %d, want 48", cfg.Forecast.DefaultHorizonHours)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubectl-smart.yaml")
	body := "performance:\n  max_concurrent_collectors: 9\noutput:\n  default_format: json\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Performance.MaxConcurrentCollectors != 9 {
		t.Errorf("max_concurrent_collectors = %d, want 9", cfg.Performance.MaxConcurrentCollectors)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("default_format = %q, want json", cfg.Output.DefaultFormat)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubectl-smart.yaml")
	if err := os.WriteFile(path, []byte("output:\n  default_format: json\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("KUBECTL_SMART_OUTPUT_DEFAULT_FORMAT", "text")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("default_format = %q, want text (env should win over file)", cfg.Output.DefaultFormat)
	}
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("KUBECTL_SMART_OUTPUT_DEFAULT_FORMAT", "text")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output.default_format", "text", "")
	if err := flags.Set("output.default_format", "json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("default_format = %q, want json (flag should win over env)", cfg.Output.DefaultFormat)
	}
}

func TestLoad_InvalidFormatIsInputError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubectl-smart.yaml")
	if err := os.WriteFile(path, []byte("output:\n  default_format: xml\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Fatal("expected a validation error for an unrecognized default_format")
	}
}

func TestLoad_HorizonIsClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubectl-smart.yaml")
	if err := os.WriteFile(path, []byte("forecast:\n  default_horizon_hours: 10000\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forecast.DefaultHorizonHours != 168 {
		t.Errorf("default_horizon_hours = %d, want clamped to 168", cfg.Forecast.DefaultHorizonHours)
	}
}
