package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
)

// Config holds all application configuration
type Config struct {
	Env          string
	LogLevel     string
	Server       ServerConfig
	Zenoti       ZenotiConfig
	Availability AvailabilityConfig
	Redis        RedisConfig
	OTEL         OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// ZenotiConfig holds booking platform client configuration
type ZenotiConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	CacheTTL          time.Duration
	RateLimitRPS      float64
	RetryAttempts     int
	AllowMockFallback bool
}

// AvailabilityConfig holds the slot engine options
type AvailabilityConfig struct {
	Timezone               string
	SlotFormat             string
	EndBoundaryPolicy      string
	SuppressBoundaryMarker bool
	AlignBlockedEnds       bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables, falling back to an optional .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("ZENOTI_BASE_URL", "https://api.zenoti.com")
	v.SetDefault("ZENOTI_API_KEY", "")
	v.SetDefault("ZENOTI_TIMEOUT_SECONDS", 10)
	v.SetDefault("ZENOTI_CACHE_TTL_SECONDS", 300)
	v.SetDefault("ZENOTI_RATE_LIMIT_RPS", 0)
	v.SetDefault("ZENOTI_RETRY_ATTEMPTS", 3)
	v.SetDefault("ZENOTI_ALLOW_MOCK_FALLBACK", false)
	v.SetDefault("ZENOTI_TIMEZONE", "UTC")
	v.SetDefault("ZENOTI_SLOT_FORMAT", string(availability.SlotFormatLocal))
	v.SetDefault("ZENOTI_END_BOUNDARY_POLICY", string(availability.EndPolicyLastStart))
	v.SetDefault("ZENOTI_SUPPRESS_BOUNDARY_MARKER", false)
	v.SetDefault("ZENOTI_ALIGN_BLOCKED_ENDS", true)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("OTEL_SERVICE_NAME", "zenoti-availability")
	v.SetDefault("OTEL_SERVICE_VERSION", "1.0.0")
	v.SetDefault("OTEL_ENDPOINT", "")
	v.SetDefault("OTEL_ENABLED", false)

	// The .env file is optional.
	_ = v.ReadInConfig()

	cfg := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Zenoti: ZenotiConfig{
			BaseURL:           v.GetString("ZENOTI_BASE_URL"),
			APIKey:            v.GetString("ZENOTI_API_KEY"),
			Timeout:           time.Duration(v.GetInt("ZENOTI_TIMEOUT_SECONDS")) * time.Second,
			CacheTTL:          time.Duration(v.GetInt("ZENOTI_CACHE_TTL_SECONDS")) * time.Second,
			RateLimitRPS:      v.GetFloat64("ZENOTI_RATE_LIMIT_RPS"),
			RetryAttempts:     v.GetInt("ZENOTI_RETRY_ATTEMPTS"),
			AllowMockFallback: v.GetBool("ZENOTI_ALLOW_MOCK_FALLBACK"),
		},
		Availability: AvailabilityConfig{
			Timezone:               v.GetString("ZENOTI_TIMEZONE"),
			SlotFormat:             v.GetString("ZENOTI_SLOT_FORMAT"),
			EndBoundaryPolicy:      v.GetString("ZENOTI_END_BOUNDARY_POLICY"),
			SuppressBoundaryMarker: v.GetBool("ZENOTI_SUPPRESS_BOUNDARY_MARKER"),
			AlignBlockedEnds:       v.GetBool("ZENOTI_ALIGN_BLOCKED_ENDS"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		OTEL: OTELConfig{
			ServiceName:    v.GetString("OTEL_SERVICE_NAME"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:       v.GetString("OTEL_ENDPOINT"),
			Enabled:        v.GetBool("OTEL_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the availability engine cannot honour
func (c *Config) Validate() error {
	if _, err := c.Availability.EngineOptions(); err != nil {
		return err
	}
	if c.Zenoti.Timeout <= 0 {
		return fmt.Errorf("ZENOTI_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// IsDev reports whether the service runs in development mode
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// EngineOptions converts the configuration into availability engine options
func (c *AvailabilityConfig) EngineOptions() (availability.Options, error) {
	format, err := availability.ParseSlotFormat(c.SlotFormat)
	if err != nil {
		return availability.Options{}, fmt.Errorf("ZENOTI_SLOT_FORMAT: %w", err)
	}
	policy, err := availability.ParseEndBoundaryPolicy(c.EndBoundaryPolicy)
	if err != nil {
		return availability.Options{}, fmt.Errorf("ZENOTI_END_BOUNDARY_POLICY: %w", err)
	}
	loc, err := c.Location()
	if err != nil {
		return availability.Options{}, err
	}
	return availability.Options{
		EndPolicy:              policy,
		SuppressBoundaryMarker: c.SuppressBoundaryMarker,
		AlignBlockedEnds:       c.AlignBlockedEnds,
		SlotFormat:             format,
		DefaultLocation:        loc,
	}, nil
}

// Location resolves the configured center timezone
func (c *AvailabilityConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("ZENOTI_TIMEZONE must name an IANA timezone")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("ZENOTI_TIMEZONE: %w", err)
	}
	return loc, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
