package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, key := range []string{
		"SWAP_ENGINE_LOG_LEVEL", "SWAP_ENGINE_TIMEOUT", "SWAP_ENGINE_RETRIES",
		"SWAP_ENGINE_ROUTER_URL", "SWAP_ENGINE_SCENARIO",
		"SWAP_ENGINE_STORE_PATH", "SWAP_ENGINE_STORE_LOCK_PATH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	settings, err := Load(GlobalFlags{Retries: -1})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if settings.LogLevel != "info" {
		t.Fatalf("unexpected default log level: %q", settings.LogLevel)
	}
	if settings.Timeout != 10*time.Second || settings.Retries != 2 {
		t.Fatalf("unexpected default HTTP settings: %v / %d", settings.Timeout, settings.Retries)
	}
	if settings.Venue.Chain != "hydradx" {
		t.Fatalf("unexpected default venue chain: %q", settings.Venue.Chain)
	}
	if settings.Venue.AlternativeAssets["hydradx-LOCAL-DOT"] != "polkadot-NATIVE-DOT" {
		t.Fatalf("missing default alternative asset mapping: %v", settings.Venue.AlternativeAssets)
	}
	if settings.StorePath == "" || settings.StoreLockPath == "" {
		t.Fatal("store paths must have defaults")
	}
}

func TestLoadLayersFileEnvAndFlags(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	content := `
log_level: warn
timeout: 5s
retries: 1
router:
  url: https://file.example
venue:
  chain: hydradx
  quote_timeout: 45s
  min_swap_amount: "12345"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SWAP_ENGINE_ROUTER_URL", "https://env.example")

	settings, err := Load(GlobalFlags{
		ConfigPath: cfgPath,
		LogLevel:   "debug",
		Retries:    -1,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// Flag beats env beats file.
	if settings.LogLevel != "debug" {
		t.Fatalf("flag must win: %q", settings.LogLevel)
	}
	if settings.RouterURL != "https://env.example" {
		t.Fatalf("env must beat file: %q", settings.RouterURL)
	}
	if settings.Timeout != 5*time.Second || settings.Retries != 1 {
		t.Fatalf("file values must apply: %v / %d", settings.Timeout, settings.Retries)
	}
	if settings.Venue.QuoteTimeout != 45*time.Second || settings.Venue.MinSwapAmount != "12345" {
		t.Fatalf("venue settings must apply: %+v", settings.Venue)
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	isolateEnv(t)
	if _, err := Load(GlobalFlags{LogLevel: "loud", Retries: -1}); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}

func TestLoadMissingConfigFileIsFine(t *testing.T) {
	isolateEnv(t)
	if _, err := Load(GlobalFlags{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml"), Retries: -1}); err != nil {
		t.Fatalf("a missing config file must not be an error: %v", err)
	}
}

func TestStoreFlagDerivesLockPath(t *testing.T) {
	isolateEnv(t)
	settings, err := Load(GlobalFlags{StorePath: "/tmp/custom.db", Retries: -1})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if settings.StorePath != "/tmp/custom.db" || settings.StoreLockPath != "/tmp/custom.db.lock" {
		t.Fatalf("unexpected store paths: %q / %q", settings.StorePath, settings.StoreLockPath)
	}
}
