package config

import "github.com/spf13/viper"

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadMetrics(v *viper.Viper) MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(v, keyMetricsOn, true),
		Port:         envOrDefault(v, keyMetricsPort, defaultMetricsPort),
		OtlpEndpoint: envOrDefault(v, keyOtelEndpoint, ""),
		ServiceName:  envOrDefault(v, keyOtelService, defaultServiceName),
		OtlpInsecure: boolEnvOrDefault(v, keyOtelInsecure, true),
	}
}
