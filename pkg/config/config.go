// Package config wraps viper-backed defaults for the orchestrator and a
// zerolog logger builder.
package config

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds run parameters with defaults, overridable via environment
// variables prefixed CROSSTALKZ_ or via Set.
type Config struct {
	v *viper.Viper
}

// New returns a Config with the reference tool's defaults applied.
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix("CROSSTALKZ")
	v.AutomaticEnv()

	v.SetDefault("generator.method", 2)
	v.SetDefault("generator.replicas", 100)
	v.SetDefault("counting.mode", 0)
	v.SetDefault("counting.min_group_size", 10)
	v.SetDefault("counting.hypergeometric", false)
	v.SetDefault("network.weight_cutoff", 0.0)
	v.SetDefault("network.use_cutoff", false)
	v.SetDefault("random.seed", int64(0))
	v.SetDefault("random.use_fixed_seed", false)
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

func (c *Config) GeneratorMethod() int     { return c.v.GetInt("generator.method") }
func (c *Config) Replicas() int            { return c.v.GetInt("generator.replicas") }
func (c *Config) CountingMode() int        { return c.v.GetInt("counting.mode") }
func (c *Config) MinGroupSize() int        { return c.v.GetInt("counting.min_group_size") }
func (c *Config) Hypergeometric() bool     { return c.v.GetBool("counting.hypergeometric") }
func (c *Config) WeightCutoff() float64    { return c.v.GetFloat64("network.weight_cutoff") }
func (c *Config) UseWeightCutoff() bool    { return c.v.GetBool("network.use_cutoff") }
func (c *Config) RandomSeed() int64        { return c.v.GetInt64("random.seed") }
func (c *Config) UseFixedSeed() bool       { return c.v.GetBool("random.use_fixed_seed") }
func (c *Config) LogLevel() string         { return c.v.GetString("logging.level") }

// Set overrides a single configuration key, used by the CLI to apply
// parsed flag values on top of defaults.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger builds a console zerolog.Logger at the configured level.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "crosstalkz").Logger()
}
