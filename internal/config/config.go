package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	if cfg == nil {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string            `mapstructure:"version"`
	Environment string            `mapstructure:"environment"`
	Units       string            `mapstructure:"units"`
	OpenWeather OpenWeatherConfig `mapstructure:"openweather"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Geolocation GeolocationConfig `mapstructure:"geolocation"`
	Display     DisplayConfig     `mapstructure:"display"`
	Session     SessionConfig     `mapstructure:"session"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type OpenWeatherConfig struct {
	BaseURL     string          `mapstructure:"base_url"`
	APIKey      string          `mapstructure:"api_key"`
	IconBaseURL string          `mapstructure:"icon_base_url"`
	Timeout     int             `mapstructure:"timeout"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig paces outbound calls. RPS <= 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type StorageConfig struct {
	// Backend is one of sqlite, postgres, memory.
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

type GeolocationConfig struct {
	// Provider is one of none, static, ipapi.
	Provider  string  `mapstructure:"provider"`
	Allowed   bool    `mapstructure:"allowed"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	BaseURL   string  `mapstructure:"base_url"`
	Timeout   int     `mapstructure:"timeout"`
}

type DisplayConfig struct {
	// Timezone is an IANA name used for day card labels. Empty means local.
	Timezone   string `mapstructure:"timezone"`
	MessageTTL int    `mapstructure:"message_ttl"`
}

type SessionConfig struct {
	DiscardStale bool `mapstructure:"discard_stale"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Units:       "metric",
		OpenWeather: OpenWeatherConfig{
			BaseURL:     "https://api.openweathermap.org/data/2.5",
			APIKey:      "",
			IconBaseURL: "https://openweathermap.org/img/wn",
			Timeout:     10,
			RateLimit: RateLimitConfig{
				RPS:   1,
				Burst: 2,
			},
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "",
			DSN:     "",
		},
		Geolocation: GeolocationConfig{
			Provider: "ipapi",
			Allowed:  true,
			BaseURL:  "http://ip-api.com",
			Timeout:  5,
		},
		Display: DisplayConfig{
			Timezone:   "",
			MessageTTL: 6,
		},
		Session: SessionConfig{
			DiscardStale: false,
		},
		Server: ServerConfig{
			Port:         8080,
			Host:         "127.0.0.1",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}
