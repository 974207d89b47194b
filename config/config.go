package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	FallbackPort int           `mapstructure:"fallback_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RelayConfig struct {
	// AllowedBots is the fallback allow-list consulted before the bot directory
	AllowedBots []string `mapstructure:"allowed_bots"`

	// BufferSize caps the in-memory recent message buffer
	BufferSize int `mapstructure:"buffer_size"`

	// SubscriptionsFile optionally seeds outbound subscriptions at boot
	SubscriptionsFile string `mapstructure:"subscriptions_file"`
}

type DeliveryConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	BackoffBase  time.Duration `mapstructure:"backoff_base"`
	HistoryLimit int           `mapstructure:"history_limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file plus BOTPASS_* env vars
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("relay")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/botpass")
	}

	setDefaults()

	viper.SetEnvPrefix("BOTPASS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3030)
	viper.SetDefault("server.fallback_port", 3031)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("relay.allowed_bots", []string{
		"9U8JhxaBe8Fv8OtLq4KN",
		"test-bot-from-n8n",
		"test-bot-from-curl",
		"test-bot-2",
		"test-bot-3",
	})
	viper.SetDefault("relay.buffer_size", 100)
	viper.SetDefault("relay.subscriptions_file", "")

	viper.SetDefault("delivery.timeout", 10*time.Second)
	viper.SetDefault("delivery.max_retries", 3)
	viper.SetDefault("delivery.backoff_base", 1*time.Second)
	viper.SetDefault("delivery.history_limit", 1000)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}
