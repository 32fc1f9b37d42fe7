package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	PollInterval   Duration
	Provider       string
	Timezone       string
	AdminToken     string
	RequestTimeout Duration
	Nhle           NhleConfig
	Travel         TravelConfig
	Cache          CacheConfig
	Retry          RetryConfig
	Metrics        MetricsConfig
	Logging        LoggingConfig
}

// NhleConfig controls how we talk to the NHL web API.
type NhleConfig struct {
	BaseURL string
	Timeout Duration
}

// TravelConfig holds the travel window and matchup thresholds.
type TravelConfig struct {
	LookbackDays       int
	NightStartHour     int
	StrictThresholdKm  float64
	RelaxedThresholdKm float64
	// FetchConcurrency of zero sizes the fan-out to the window.
	FetchConcurrency int
	VenuesFile       string
}

// CacheConfig selects the per-day schedule cache backend.
type CacheConfig struct {
	Backend       string
	TTL           Duration
	PastTTL       Duration
	RedisURL      string
	ValkeyAddr    string
	SnapshotDir   string
	RetentionDays int
}

// RetryConfig bounds upstream retries and call spacing.
type RetryConfig struct {
	Attempts    int
	Backoff     Duration
	MinInterval Duration
}

// LoggingConfig controls log level, format, and optional rotated file output.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads configuration from an optional YAML file and environment variables,
// with environment values taking precedence and invalid values falling back to defaults.
func Load() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	return fromViper(v), nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()

	if file := strings.TrimSpace(os.Getenv(envConfigFile)); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config.yaml: %w", err)
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:           envOrDefault(v, keyPort, defaultPort),
		PollInterval:   durationEnvOrDefault(v, keyPollInterval, defaultPollInterval),
		Provider:       envOrDefault(v, keyProvider, defaultProvider),
		Timezone:       envOrDefault(v, keyTimezone, defaultTimezone),
		AdminToken:     envOrDefault(v, keyAdminToken, ""),
		RequestTimeout: durationEnvOrDefault(v, keyRequestTimeout, defaultRequestTimeout),
		Nhle: NhleConfig{
			BaseURL: strings.TrimRight(envOrDefault(v, keyNhleBaseURL, defaultNhleBaseURL), "/"),
			Timeout: durationEnvOrDefault(v, keyNhleTimeout, defaultNhleTimeout),
		},
		Travel: TravelConfig{
			LookbackDays:       nonNegativeIntEnvOrDefault(v, keyLookbackDays, defaultLookbackDays),
			NightStartHour:     nonNegativeIntEnvOrDefault(v, keyNightStartHour, defaultNightStartHour),
			StrictThresholdKm:  floatEnvOrDefault(v, keyStrictTravelKm, defaultStrictTravelKm),
			RelaxedThresholdKm: floatEnvOrDefault(v, keyRelaxedTravelKm, defaultRelaxedTravelKm),
			FetchConcurrency:   intEnvOrDefault(v, keyFetchConcurrency, 0),
			VenuesFile:         envOrDefault(v, keyVenuesFile, ""),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(envOrDefault(v, keyCacheBackend, defaultCacheBackend)),
			TTL:           durationEnvOrDefault(v, keyCacheTTL, defaultCacheTTL),
			PastTTL:       durationEnvOrDefault(v, keyCachePastTTL, defaultCachePastTTL),
			RedisURL:      envOrDefault(v, keyRedisURL, ""),
			ValkeyAddr:    envOrDefault(v, keyValkeyAddr, ""),
			SnapshotDir:   envOrDefault(v, keySnapshotDir, defaultSnapshotDir),
			RetentionDays: intEnvOrDefault(v, keySnapshotRetain, defaultSnapshotRetain),
		},
		Retry: RetryConfig{
			Attempts:    intEnvOrDefault(v, keyRetryAttempts, defaultRetryAttempts),
			Backoff:     durationEnvOrDefault(v, keyRetryBackoff, defaultRetryBackoff),
			MinInterval: durationEnvOrDefault(v, keyMinInterval, 0),
		},
		Metrics: loadMetrics(v),
		Logging: LoggingConfig{
			Level:  envOrDefault(v, keyLogLevel, defaultLogLevel),
			Format: envOrDefault(v, keyLogFormat, defaultLogFormat),
			File:   envOrDefault(v, keyLogFile, ""),
		},
	}
}

// Location resolves the configured schedule timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate reports values that parse but cannot be used.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("schedule timezone %q: %w", c.Timezone, err))
	}
	if c.Travel.NightStartHour > 23 {
		errs = append(errs, fmt.Errorf("night start hour %d out of range 0-23", c.Travel.NightStartHour))
	}
	switch c.Cache.Backend {
	case "memory", "none", "fs":
	case "redis":
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache backend redis requires REDIS_URL"))
		}
	case "valkey":
		if c.Cache.ValkeyAddr == "" {
			errs = append(errs, errors.New("cache backend valkey requires VALKEY_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}
