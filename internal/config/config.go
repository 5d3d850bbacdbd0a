package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalFlags mirrors the CLI's persistent flags. Flags win over
// environment variables, which win over the config file.
type GlobalFlags struct {
	ConfigPath   string
	ScenarioPath string
	StorePath    string
	LogLevel     string
	Timeout      string
	Retries      int
	RouterURL    string
}

type VenueSettings struct {
	Chain             string
	QuoteTimeout      time.Duration
	MinSwapAmount     string
	InitTimeout       time.Duration
	AlternativeAssets map[string]string
}

type Settings struct {
	LogLevel      string
	Timeout       time.Duration
	Retries       int
	RouterURL     string
	ScenarioPath  string
	StorePath     string
	StoreLockPath string
	Venue         VenueSettings
}

type fileConfig struct {
	LogLevel string `yaml:"log_level"`
	Timeout  string `yaml:"timeout"`
	Retries  *int   `yaml:"retries"`
	Router   struct {
		URL string `yaml:"url"`
	} `yaml:"router"`
	Scenario string `yaml:"scenario"`
	Store    struct {
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"store"`
	Venue struct {
		Chain             string            `yaml:"chain"`
		QuoteTimeout      string            `yaml:"quote_timeout"`
		MinSwapAmount     string            `yaml:"min_swap_amount"`
		InitTimeout       string            `yaml:"init_timeout"`
		AlternativeAssets map[string]string `yaml:"alternative_assets"`
	} `yaml:"venue"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}
	applyEnv(&settings)
	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	if settings.Venue.Chain == "" {
		settings.Venue.Chain = "hydradx"
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	storePath, lockPath, err := defaultStorePaths()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		LogLevel:      "info",
		Timeout:       10 * time.Second,
		Retries:       2,
		StorePath:     storePath,
		StoreLockPath: lockPath,
		Venue: VenueSettings{
			Chain:       "hydradx",
			InitTimeout: 30 * time.Second,
			AlternativeAssets: map[string]string{
				"hydradx-LOCAL-DOT":  "polkadot-NATIVE-DOT",
				"hydradx-LOCAL-USDT": "statemint-LOCAL-USDT",
				"hydradx-LOCAL-GLMR": "moonbeam-NATIVE-GLMR",
			},
		},
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "swap-engine", "config.yaml"), nil
}

func defaultStorePaths() (string, string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "swap-engine")
	return filepath.Join(dir, "processes.db"), filepath.Join(dir, "processes.lock"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.LogLevel != "" {
		settings.LogLevel = strings.ToLower(cfg.LogLevel)
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Retries != nil {
		settings.Retries = *cfg.Retries
	}
	if cfg.Router.URL != "" {
		settings.RouterURL = cfg.Router.URL
	}
	if cfg.Scenario != "" {
		settings.ScenarioPath = cfg.Scenario
	}
	if cfg.Store.Path != "" {
		settings.StorePath = cfg.Store.Path
	}
	if cfg.Store.LockPath != "" {
		settings.StoreLockPath = cfg.Store.LockPath
	}
	if cfg.Venue.Chain != "" {
		settings.Venue.Chain = cfg.Venue.Chain
	}
	if cfg.Venue.QuoteTimeout != "" {
		d, err := time.ParseDuration(cfg.Venue.QuoteTimeout)
		if err != nil {
			return fmt.Errorf("config venue.quote_timeout: %w", err)
		}
		settings.Venue.QuoteTimeout = d
	}
	if cfg.Venue.InitTimeout != "" {
		d, err := time.ParseDuration(cfg.Venue.InitTimeout)
		if err != nil {
			return fmt.Errorf("config venue.init_timeout: %w", err)
		}
		settings.Venue.InitTimeout = d
	}
	if cfg.Venue.MinSwapAmount != "" {
		settings.Venue.MinSwapAmount = cfg.Venue.MinSwapAmount
	}
	if len(cfg.Venue.AlternativeAssets) > 0 {
		settings.Venue.AlternativeAssets = cfg.Venue.AlternativeAssets
	}
	return nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("SWAP_ENGINE_LOG_LEVEL"); v != "" {
		settings.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("SWAP_ENGINE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv("SWAP_ENGINE_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Retries = n
		}
	}
	if v := os.Getenv("SWAP_ENGINE_ROUTER_URL"); v != "" {
		settings.RouterURL = v
	}
	if v := os.Getenv("SWAP_ENGINE_SCENARIO"); v != "" {
		settings.ScenarioPath = v
	}
	if v := os.Getenv("SWAP_ENGINE_STORE_PATH"); v != "" {
		settings.StorePath = v
	}
	if v := os.Getenv("SWAP_ENGINE_STORE_LOCK_PATH"); v != "" {
		settings.StoreLockPath = v
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.LogLevel != "" {
		settings.LogLevel = strings.ToLower(flags.LogLevel)
	}
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("parse --timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.Retries >= 0 {
		settings.Retries = flags.Retries
	}
	if flags.RouterURL != "" {
		settings.RouterURL = flags.RouterURL
	}
	if flags.ScenarioPath != "" {
		settings.ScenarioPath = flags.ScenarioPath
	}
	if flags.StorePath != "" {
		settings.StorePath = flags.StorePath
		settings.StoreLockPath = flags.StorePath + ".lock"
	}
	switch settings.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of: debug,info,warn,error")
	}
	return nil
}
