package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/flowkit/resource"
)

func TestLoadRunConfig_Defaults(t *testing.T) {
	cfg, err := LoadRunConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("expected development, got %s", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("development must enable debug")
	}
	if cfg.Budget.MaxParallel != 4 || cfg.Budget.MemoryLimitMB != 4096 {
		t.Errorf("expected default budget 4/4096, got %d/%d", cfg.Budget.MaxParallel, cfg.Budget.MemoryLimitMB)
	}
	if cfg.Budget.IOIntensiveCeiling != resource.DefaultIOIntensiveCeiling {
		t.Errorf("expected io ceiling %d, got %d", resource.DefaultIOIntensiveCeiling, cfg.Budget.IOIntensiveCeiling)
	}
	if cfg.Budget.TimeoutMultiplier != resource.DefaultTimeoutMultiplier {
		t.Errorf("expected timeout multiplier %v, got %v", resource.DefaultTimeoutMultiplier, cfg.Budget.TimeoutMultiplier)
	}
}

func TestLoadRunConfig_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowkit.yml")
	yaml := "name: demo\nenvironment: production\nbudget:\n  max_parallel: 2\n  memory_limit_mb: 512\n  reserved_env_vars:\n    - PATH\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadRunConfig(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "demo" || cfg.Environment != "production" {
		t.Errorf("expected demo/production, got %s/%s", cfg.Name, cfg.Environment)
	}
	if cfg.Debug {
		t.Error("production must not enable debug by default")
	}
	if cfg.Budget.MaxParallel != 2 || cfg.Budget.MemoryLimitMB != 512 {
		t.Errorf("expected budget 2/512, got %d/%d", cfg.Budget.MaxParallel, cfg.Budget.MemoryLimitMB)
	}
	if len(cfg.Budget.ReservedEnvVars) != 1 || cfg.Budget.ReservedEnvVars[0] != "PATH" {
		t.Errorf("expected reserved [PATH], got %v", cfg.Budget.ReservedEnvVars)
	}
	// File values get defaults for the fields they omit.
	if cfg.Budget.PerTaskMemoryCapMB != resource.DefaultPerTaskMemoryCapMB {
		t.Errorf("expected per-task cap default, got %d", cfg.Budget.PerTaskMemoryCapMB)
	}
}

func TestLoadRunConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowkit.yml")
	yaml := "budget:\n  max_parallel: 2\n  memory_limit_mb: 512\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("FLOWKIT_BUDGET_MAX_PARALLEL", "8")

	cfg, err := LoadRunConfig(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Budget.MaxParallel != 8 {
		t.Errorf("env must override file, got %d", cfg.Budget.MaxParallel)
	}
	if cfg.Budget.MemoryLimitMB != 512 {
		t.Errorf("untouched file values must survive, got %d", cfg.Budget.MemoryLimitMB)
	}
}

func TestLoadRunConfig_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FLOWKIT_NAME=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	// godotenv writes into the process environment; clean up after.
	defer os.Unsetenv("FLOWKIT_NAME")

	cfg, err := LoadRunConfig(WithEnvFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
}

func TestLoadRunConfig_RejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("FLOWKIT_ENVIRONMENT", "sandbox")
	if _, err := LoadRunConfig(); err == nil {
		t.Fatal("expected validation error for unknown environment")
	}
}

func TestRunConfig_ValidateRequiresCompleteBudget(t *testing.T) {
	cfg := RunConfig{Budget: resource.Budget{MaxParallel: 2}}
	cfg.ApplyDefaults()
	// MaxParallel was set explicitly, so the zero memory limit is the
	// caller's mistake rather than a case for defaults.
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing memory limit")
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("BUDGET_MAX_PARALLEL")
	want := map[string]bool{
		"budget_max_parallel": false,
		"budget.max.parallel": false,
		"budget.max_parallel": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("missing variant %s in %v", k, variants)
		}
	}
}
