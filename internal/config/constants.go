package config

import "time"

// Keys double as environment variable names (upper-cased by viper) and YAML keys.
const (
	envConfigFile = "CONFIG_FILE"

	keyPort         = "port"
	keyPollInterval = "poll_interval"
	keyProvider     = "provider"
	keyTimezone     = "schedule_timezone"

	keyAdminToken     = "admin_token"
	keyRequestTimeout = "request_timeout"

	keyMetricsPort  = "metrics_port"
	keyMetricsOn    = "metrics_enabled"
	keyOtelEndpoint = "otel_exporter_otlp_endpoint"
	keyOtelService  = "otel_service_name"
	keyOtelInsecure = "otel_exporter_otlp_insecure"

	keyNhleBaseURL = "nhle_base_url"
	keyNhleTimeout = "nhle_timeout"

	keyLookbackDays     = "lookback_days"
	keyNightStartHour   = "night_start_hour"
	keyStrictTravelKm   = "strict_travel_km"
	keyRelaxedTravelKm  = "relaxed_travel_km"
	keyFetchConcurrency = "fetch_concurrency"
	keyVenuesFile       = "venues_file"

	keyCacheBackend   = "cache_backend"
	keyCacheTTL       = "cache_ttl"
	keyCachePastTTL   = "cache_past_ttl"
	keyRedisURL       = "redis_url"
	keyValkeyAddr     = "valkey_addr"
	keySnapshotDir    = "snapshot_dir"
	keySnapshotRetain = "snapshot_retention_days"

	keyRetryAttempts = "retry_attempts"
	keyRetryBackoff  = "retry_backoff"
	keyMinInterval   = "provider_min_interval"

	keyLogLevel  = "log_level"
	keyLogFormat = "log_format"
	keyLogFile   = "log_file"

	defaultPort = "4000"
	// The NHL schedule endpoint has no published quota; five minutes keeps the warmer polite.
	defaultPollInterval = 5 * Duration(time.Minute)
	defaultProvider     = "fixture"
	defaultTimezone     = "America/New_York"
	defaultMetricsPort  = "9090"
	defaultServiceName  = "nhl-travel-service"

	defaultRequestTimeout = 15 * Duration(time.Second)

	defaultNhleBaseURL = "https://api-web.nhle.com/v1"
	defaultNhleTimeout = 10 * Duration(time.Second)

	defaultLookbackDays    = 3
	defaultNightStartHour  = 18
	defaultStrictTravelKm  = 100.0
	defaultRelaxedTravelKm = 1000.0

	defaultCacheBackend   = "memory"
	defaultCacheTTL       = 10 * Duration(time.Minute)
	defaultCachePastTTL   = 72 * Duration(time.Hour)
	defaultSnapshotDir    = "data/snapshots"
	defaultSnapshotRetain = 30

	defaultRetryAttempts = 3
	defaultRetryBackoff  = 200 * Duration(time.Millisecond)

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)
