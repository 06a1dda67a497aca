package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/eodhd"
	"github.com/etnz/fundfolio/tradegate"
	"github.com/etnz/fundfolio/yahoo"
	"github.com/joho/godotenv"
)

// Environment variables the flags default to.
const (
	EnvFile     = "FUNDFOLIO_FILE"
	EnvSource   = "FUNDFOLIO_SOURCE"
	EnvPrices   = "FUNDFOLIO_PRICES"
	EnvCurrency = "FUNDFOLIO_CURRENCY"
	EnvLookback = "FUNDFOLIO_LOOKBACK"
	EnvTimeout  = "FUNDFOLIO_TIMEOUT"
	EnvWorkers  = "FUNDFOLIO_WORKERS"
	EnvLogLevel  = "FUNDFOLIO_LOG_LEVEL"
	EnvLogFormat = "FUNDFOLIO_LOG_FORMAT"
	EnvEODHDKey  = "EODHD_API_KEY"
)

// Price sources.
const (
	SourceFile      = "file"
	SourceEODHD     = "eodhd"
	SourceTradegate = "tradegate"
	SourceYahoo     = "yahoo"
)

// Config holds the application configuration.
type Config struct {
	File        string // statement file
	Source      string // price source: file, eodhd, tradegate or yahoo
	Prices      string // JSONL price file of the file source
	Currency    string
	Lookback    int
	Timeout     time.Duration
	Workers     int
	LogLevel    string
	LogFormat   string // pretty or json
	EODHDAPIKey string

	envErrs []error // malformed environment values met by Load
}

// Load reads configuration from environment variables, after loading a
// .env file if there is one.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		File:        getEnv(EnvFile, "transactions.json"),
		Source:      getEnv(EnvSource, SourceFile),
		Prices:      getEnv(EnvPrices, "prices.jsonl"),
		Currency:    getEnv(EnvCurrency, "INR"),
		LogLevel:    getEnv(EnvLogLevel, "info"),
		LogFormat:   getEnv(EnvLogFormat, LogPretty),
		EODHDAPIKey: getEnv(EnvEODHDKey, ""),
	}
	c.Lookback = c.getEnvAsInt(EnvLookback, fundfolio.DefaultLookback)
	c.Timeout = c.getEnvAsDuration(EnvTimeout, 10*time.Second)
	c.Workers = c.getEnvAsInt(EnvWorkers, 4)
	return c
}

// SetFlags declares the global flags. Their defaults are the current
// values, so flags win over the environment.
func (c *Config) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.File, "file", c.File, "Path to the transaction statement (JSON)")
	f.StringVar(&c.Source, "source", c.Source, "Price source: file, eodhd, tradegate or yahoo")
	f.StringVar(&c.Prices, "prices", c.Prices, "Path to the price file (JSONL) of the 'file' source")
	f.StringVar(&c.Currency, "currency", c.Currency, "Reporting currency (ISO 4217)")
	f.IntVar(&c.Lookback, "lookback", c.Lookback, "Maximum age of a price, in days")
	f.DurationVar(&c.Timeout, "timeout", c.Timeout, "Timeout of each price lookup")
	f.IntVar(&c.Workers, "workers", c.Workers, "Number of concurrent workers")
	f.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn or error")
	f.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: pretty or json")
	f.StringVar(&c.EODHDAPIKey, "eodhd-api-key", c.EODHDAPIKey, "EODHD API key of the 'eodhd' source")
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	errs := slices.Clone(c.envErrs)
	if c.File == "" {
		errs = append(errs, errors.New("statement file is required"))
	}
	if err := fundfolio.ValidateCurrency(c.Currency); err != nil {
		errs = append(errs, err)
	}
	if c.Lookback <= 0 {
		errs = append(errs, fmt.Errorf("lookback must be positive, got %d", c.Lookback))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	switch c.Source {
	case SourceFile, SourceTradegate, SourceYahoo:
	case SourceEODHD:
		if c.EODHDAPIKey == "" {
			errs = append(errs, fmt.Errorf("the eodhd source requires an API key (%s)", EnvEODHDKey))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown price source %q", c.Source))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case LogPretty, LogJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// PriceSource opens the configured price source.
func (c *Config) PriceSource() (fundfolio.PriceSource, error) {
	switch c.Source {
	case SourceEODHD:
		return eodhd.New(c.EODHDAPIKey), nil
	case SourceTradegate:
		return &tradegate.Client{}, nil
	case SourceYahoo:
		return yahoo.New(), nil
	case SourceFile:
		f, err := os.Open(c.Prices)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		prices, err := fundfolio.DecodePrices(f)
		if err != nil {
			return nil, fmt.Errorf("cannot decode prices %q: %w", c.Prices, err)
		}
		return prices, nil
	default:
		return nil, fmt.Errorf("unknown price source %q", c.Source)
	}
}

// Valuator returns a valuator over the configured price source.
func (c *Config) Valuator() (*fundfolio.Valuator, error) {
	src, err := c.PriceSource()
	if err != nil {
		return nil, err
	}
	return &fundfolio.Valuator{
		Source:   src,
		Currency: c.Currency,
		Lookback: c.Lookback,
		Timeout:  c.Timeout,
		Workers:  c.Workers,
	}, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		c.envErrs = append(c.envErrs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return intVal
}

func (c *Config) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.envErrs = append(c.envErrs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return d
}
