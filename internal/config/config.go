package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"workpulse/internal/retry"
)

const (
	DriverSQLite = "sqlite"
	DriverJSONL  = "jsonl"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string        `mapstructure:"data_path"`
	LogDir   string        `mapstructure:"log_dir"`
	Storage  StorageConfig `mapstructure:"storage"`
	Report   ReportConfig  `mapstructure:"report"`
	Retry    RetryConfig   `mapstructure:"retry"`
	Charts   ChartsConfig  `mapstructure:"charts"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	JSONLDir   string `mapstructure:"jsonl_dir"`
}

type ReportConfig struct {
	Workers       int `mapstructure:"workers"`
	CacheSize     int `mapstructure:"cache_size"`
	DefaultTarget int `mapstructure:"default_target"`
}

type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

type ChartsConfig struct {
	EnableMermaid bool `mapstructure:"enable_mermaid"`
}

// RetryPolicy turns the retry settings into a retrier config, keeping the
// default backoff shape.
func (c RetryConfig) RetryPolicy() retry.Config {
	cfg := retry.DefaultConfig()
	if c.MaxAttempts > 0 {
		cfg.MaxAttempts = c.MaxAttempts
	}
	if c.InitialDelay > 0 {
		cfg.InitialDelay = c.InitialDelay
	}
	if c.MaxDelay > 0 {
		cfg.MaxDelay = c.MaxDelay
	}
	return cfg
}

// Load loads the configuration from .env files, an optional YAML file and
// WORKPULSE_* environment variables, in increasing priority.
func Load(configPath string) (*AppConfig, error) {
	// 1. .env next to the binary first, then the working directory.
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	// 2. Defaults, file, environment.
	v := viper.New()
	setDefaults(v, exeDir)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("workpulse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if exeDir != "" {
			v.AddConfigPath(exeDir)
		}
	}

	v.SetEnvPrefix("WORKPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Debug().Msg("No config file found, using defaults")
	} else {
		log.Debug().Str("path", v.ConfigFileUsed()).Msg("Loaded config file")
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// 3. Derived paths.
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataPath, "logs")
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.DataPath, "workpulse.db")
	}
	if cfg.Storage.JSONLDir == "" {
		cfg.Storage.JSONLDir = filepath.Join(cfg.DataPath, "entries")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *AppConfig) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverJSONL:
	default:
		return fmt.Errorf("unknown storage driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverJSONL)
	}
	if c.Report.Workers < 1 {
		return fmt.Errorf("report.workers must be at least 1, got %d", c.Report.Workers)
	}
	if c.Report.DefaultTarget < 1 {
		return fmt.Errorf("report.default_target must be at least 1, got %d", c.Report.DefaultTarget)
	}
	return nil
}

func setDefaults(v *viper.Viper, exeDir string) {
	dataPath := "."
	if exeDir != "" {
		dataPath = exeDir
	}
	v.SetDefault("data_path", dataPath)
	v.SetDefault("log_dir", "")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("storage.jsonl_dir", "")

	v.SetDefault("report.workers", 4)
	v.SetDefault("report.cache_size", 1024)
	v.SetDefault("report.default_target", 3)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_delay", 100*time.Millisecond)
	v.SetDefault("retry.max_delay", 2*time.Second)

	v.SetDefault("charts.enable_mermaid", true)
}
