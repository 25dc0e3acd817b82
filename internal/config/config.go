package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Return the environment variable key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Planner tuning shared by the server and the CLI.
type PlannerConfig struct {
	Exploration float64       `mapstructure:"exploration"`
	Temperature float64       `mapstructure:"temperature"`
	RefuelMin   float64       `mapstructure:"refuel_min"`
	RefuelMax   float64       `mapstructure:"refuel_max"`
	RefuelStep  float64       `mapstructure:"refuel_step"`
	RefuelEvery int           `mapstructure:"refuel_every"`
	Seed        uint64        `mapstructure:"seed"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Config holds runtime settings. Values come from an optional transport.yaml,
// TRANSPORT_* environment variables and flags bound by the caller.
type Config struct {
	Port        string        `mapstructure:"port"`
	DBPath      string        `mapstructure:"db_path"`
	DatabaseURL string        `mapstructure:"database_url"`
	Planner     PlannerConfig `mapstructure:"planner"`
}

// New returns a viper instance with defaults, the TRANSPORT_ env prefix and
// the config file search path set. An empty file searches ./transport.*.
func New(file string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "data/app.db")
	v.SetDefault("database_url", "")
	v.SetDefault("planner.exploration", 0.2)
	v.SetDefault("planner.temperature", 0.05)
	v.SetDefault("planner.refuel_min", 0.000003)
	v.SetDefault("planner.refuel_max", 0.5)
	v.SetDefault("planner.refuel_step", 2.0)
	v.SetDefault("planner.refuel_every", 1000)
	v.SetDefault("planner.seed", 2017)
	v.SetDefault("planner.timeout", 10*time.Second)

	v.SetEnvPrefix("TRANSPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("transport")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	return v, nil
}

// Decode v into a Config.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: decode: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from file (optional), the environment and
// built-in defaults.
func Load(file string) (Config, error) {
	v, err := New(file)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}
