package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// Config holds all runtime configuration for the auction engine.
type Config struct {
	Port            int           `yaml:"port"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`
	NumShards       int           `yaml:"num_shards"`
	CompactFilled   bool          `yaml:"compact_filled"`
	VWAPWindow      time.Duration `yaml:"vwap_window"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Simulator SimulatorConfig `yaml:"simulator"`
}

// SimulatorConfig drives the random order generator.
type SimulatorConfig struct {
	Enabled     bool            `yaml:"enabled"`
	Interval    time.Duration   `yaml:"interval"`
	Tickers     []string        `yaml:"tickers"`
	MinQuantity int64           `yaml:"min_quantity"`
	MaxQuantity int64           `yaml:"max_quantity"`
	MinPrice    decimal.Decimal `yaml:"min_price"`
	MaxPrice    decimal.Decimal `yaml:"max_price"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:            8080,
		LogLevel:        "info",
		NumShards:       1024,
		CompactFilled:   true,
		VWAPWindow:      5 * time.Minute,
		CORSOrigins:     []string{"*"},
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Simulator: SimulatorConfig{
			Enabled:     true,
			Interval:    time.Second,
			Tickers:     []string{"AAPL", "GOOG", "MSFT", "TSLA", "NVDA", "VOO", "META", "AMZN"},
			MinQuantity: 1,
			MaxQuantity: 100,
			MinPrice:    decimal.NewFromInt(100),
			MaxPrice:    decimal.NewFromInt(1000),
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named
// by CONFIG_FILE and environment variables, in increasing precedence. A
// .env file in the working directory is loaded first if present. It returns
// an error for any invalid value.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading CONFIG_FILE: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing CONFIG_FILE %s: %w", path, err)
	}
	return nil
}

func (c *Config) overrideWithEnv() error {
	var err error

	if c.Port, err = getInt("PORT", c.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.LogLevel = getStr("LOG_LEVEL", c.LogLevel)
	c.LogFile = getStr("LOG_FILE", c.LogFile)
	if c.NumShards, err = getInt("NUM_SHARDS", c.NumShards); err != nil {
		return fmt.Errorf("invalid NUM_SHARDS: %w", err)
	}
	if c.CompactFilled, err = getBool("COMPACT_FILLED", c.CompactFilled); err != nil {
		return fmt.Errorf("invalid COMPACT_FILLED: %w", err)
	}
	c.CORSOrigins = getList("CORS_ORIGINS", c.CORSOrigins)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"VWAP_WINDOW", &c.VWAPWindow},
		{"READ_TIMEOUT", &c.ReadTimeout},
		{"WRITE_TIMEOUT", &c.WriteTimeout},
		{"IDLE_TIMEOUT", &c.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
		{"SIMULATOR_INTERVAL", &c.Simulator.Interval},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, *d.dst); err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	sim := &c.Simulator
	if sim.Enabled, err = getBool("SIMULATOR_ENABLED", sim.Enabled); err != nil {
		return fmt.Errorf("invalid SIMULATOR_ENABLED: %w", err)
	}
	sim.Tickers = getList("SIMULATOR_TICKERS", sim.Tickers)
	if sim.MinQuantity, err = getInt64("SIMULATOR_MIN_QUANTITY", sim.MinQuantity); err != nil {
		return fmt.Errorf("invalid SIMULATOR_MIN_QUANTITY: %w", err)
	}
	if sim.MaxQuantity, err = getInt64("SIMULATOR_MAX_QUANTITY", sim.MaxQuantity); err != nil {
		return fmt.Errorf("invalid SIMULATOR_MAX_QUANTITY: %w", err)
	}
	if sim.MinPrice, err = getDecimal("SIMULATOR_MIN_PRICE", sim.MinPrice); err != nil {
		return fmt.Errorf("invalid SIMULATOR_MIN_PRICE: %w", err)
	}
	if sim.MaxPrice, err = getDecimal("SIMULATOR_MAX_PRICE", sim.MaxPrice); err != nil {
		return fmt.Errorf("invalid SIMULATOR_MAX_PRICE: %w", err)
	}

	return nil
}

// Validate checks value ranges after all sources have been applied.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("log level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.NumShards < 1 {
		return fmt.Errorf("num shards must be positive, got %d", c.NumShards)
	}
	if c.VWAPWindow <= 0 {
		return fmt.Errorf("vwap window must be positive")
	}

	sim := c.Simulator
	if !sim.Enabled {
		return nil
	}
	if sim.Interval <= 0 {
		return fmt.Errorf("simulator interval must be positive")
	}
	if len(sim.Tickers) == 0 {
		return fmt.Errorf("at least one simulator ticker is required")
	}
	for _, ticker := range sim.Tickers {
		if !domain.ValidSymbol(ticker) {
			return fmt.Errorf("simulator ticker %q must match %s", ticker, domain.SymbolPattern)
		}
	}
	if sim.MinQuantity < 1 || sim.MaxQuantity < sim.MinQuantity {
		return fmt.Errorf("simulator quantity range [%d, %d] is invalid", sim.MinQuantity, sim.MaxQuantity)
	}
	if sim.MinPrice.IsNegative() || sim.MaxPrice.LessThanOrEqual(sim.MinPrice) {
		return fmt.Errorf("simulator price range [%s, %s) is invalid", sim.MinPrice, sim.MaxPrice)
	}
	return nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseBool(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func getDecimal(key string, defaultVal decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return decimal.NewFromString(v)
}

// getList splits a comma-separated value, dropping blank entries.
func getList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
