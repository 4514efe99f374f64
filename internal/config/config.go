package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the orchestrator.
type Config struct {
	Port      int
	Version   string
	Telemetry TelemetryConfig
	Limits    LimitsConfig
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

type LimitsConfig struct {
	// DefaultTier is applied when no billing lookup is wired in.
	DefaultTier string
	// MaxInputLength rejects oversized orchestration inputs before parsing.
	MaxInputLength int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("AURA_PORT", 8080),
		Version: envStr("AURA_VERSION", "0.1.0"),
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", true),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "aura-orchestrator"),
		},
		Limits: LimitsConfig{
			DefaultTier:    envStr("AURA_DEFAULT_TIER", "free"),
			MaxInputLength: envInt("AURA_MAX_INPUT_LENGTH", 8192),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
