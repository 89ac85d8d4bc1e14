package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Push      PushConfig      `mapstructure:"push"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

// PushConfig controls the Web Push transport. The VAPID key pair is
// secret-only and comes from the environment, never from the yaml file.
type PushConfig struct {
	Subscriber      string        `mapstructure:"subscriber"`
	TTL             int           `mapstructure:"ttl"`
	Timeout         time.Duration `mapstructure:"timeout"`
	DefaultURL      string        `mapstructure:"default_url"`
	IconPath        string        `mapstructure:"icon_path"`
	BadgePath       string        `mapstructure:"badge_path"`
	VAPIDPublicKey  string        `mapstructure:"-"`
	VAPIDPrivateKey string        `mapstructure:"-"`
}

type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// VAPIDKeys is loaded from the environment via envconfig.
type VAPIDKeys struct {
	PublicKey  string `envconfig:"VAPID_PUBLIC_KEY" required:"true"`
	PrivateKey string `envconfig:"VAPID_PRIVATE_KEY" required:"true"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var keys VAPIDKeys
	if err := envconfig.Process("", &keys); err != nil {
		return nil, fmt.Errorf("failed to load VAPID keys: %w", err)
	}
	config.Push.VAPIDPublicKey = keys.PublicKey
	config.Push.VAPIDPrivateKey = keys.PrivateKey

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("push.ttl", 86400)
	viper.SetDefault("push.timeout", 30*time.Second)
	viper.SetDefault("push.default_url", "/")
	viper.SetDefault("push.icon_path", "/icons/icon-192.png")
	viper.SetDefault("push.badge_path", "/icons/badge-72.png")
	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.schedule", "0 9 * * *")
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 5)
	viper.SetDefault("rate_limit.burst", 10)
}
