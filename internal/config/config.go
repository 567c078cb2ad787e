package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nexusai/billing/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Store      StoreConfig      `validate:"required"`
	Redis      RedisConfig
	Postgres   PostgresConfig
	Gateway    GatewayConfig `validate:"required"`
	Billing    BillingConfig `validate:"required"`
	Cache      CacheConfig
	PubSub     PubSubConfig
	Sentry     SentryConfig
	Metrics    MetricsConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type StoreConfig struct {
	Backend types.StoreBackend `mapstructure:"backend" validate:"required"`
	// ConnectTimeout bounds the retried startup ping of remote backends
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type GatewayConfig struct {
	Latency              time.Duration `mapstructure:"latency"`
	OneOffFailureRate    float64       `mapstructure:"one_off_failure_rate" validate:"min=0,max=1"`
	RecurringFailureRate float64       `mapstructure:"recurring_failure_rate" validate:"min=0,max=1"`
	RefundFailureRate    float64       `mapstructure:"refund_failure_rate" validate:"min=0,max=1"`
	// Seed makes gateway outcomes reproducible when non-zero
	Seed int64 `mapstructure:"seed"`
}

type BillingConfig struct {
	Workers          int                          `mapstructure:"workers" validate:"min=1"`
	ChargesPerSecond float64                      `mapstructure:"charges_per_second" validate:"min=0"`
	DefaultPromotion types.DefaultPromotionPolicy `mapstructure:"default_promotion" validate:"required"`
	DefaultCycle     types.BillingCycle           `mapstructure:"default_cycle" validate:"required"`
	Schedule         string                       `mapstructure:"schedule"`
	RunTimeout       time.Duration                `mapstructure:"run_timeout"`
	SeedPlans        bool                         `mapstructure:"seed_plans"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type PubSubConfig struct {
	OutputBuffer int64 `mapstructure:"output_buffer"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only fills variables that are not already set
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nexus")

	v.SetEnvPrefix("NEXUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.Deployment.Mode.Validate(); err != nil {
		return err
	}
	if err := c.Store.Backend.Validate(); err != nil {
		return err
	}
	if err := c.Billing.DefaultPromotion.Validate(); err != nil {
		return err
	}
	return c.Billing.DefaultCycle.Validate()
}

// GetDefaultConfig returns a default configuration for local development, tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080", AllowedOrigins: []string{"*"}},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Store:      StoreConfig{Backend: types.StoreBackendMemory, ConnectTimeout: 30 * time.Second},
		Redis:      RedisConfig{Address: "localhost:6379", KeyPrefix: "nexus"},
		Gateway: GatewayConfig{
			Latency:              1500 * time.Millisecond,
			OneOffFailureRate:    0.05,
			RecurringFailureRate: 0.10,
			RefundFailureRate:    0,
		},
		Billing: BillingConfig{
			Workers:          4,
			DefaultPromotion: types.DefaultPromotionNone,
			DefaultCycle:     types.BillingCycleWeekly,
			RunTimeout:       10 * time.Minute,
			SeedPlans:        true,
		},
		Cache:   CacheConfig{Enabled: true, TTL: 30 * time.Minute},
		PubSub:  PubSubConfig{OutputBuffer: 100},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.connect_timeout", d.Store.ConnectTimeout)
	v.SetDefault("redis.address", d.Redis.Address)
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)
	v.SetDefault("gateway.latency", d.Gateway.Latency)
	v.SetDefault("gateway.one_off_failure_rate", d.Gateway.OneOffFailureRate)
	v.SetDefault("gateway.recurring_failure_rate", d.Gateway.RecurringFailureRate)
	v.SetDefault("gateway.refund_failure_rate", d.Gateway.RefundFailureRate)
	v.SetDefault("billing.workers", d.Billing.Workers)
	v.SetDefault("billing.default_promotion", d.Billing.DefaultPromotion)
	v.SetDefault("billing.default_cycle", d.Billing.DefaultCycle)
	v.SetDefault("billing.run_timeout", d.Billing.RunTimeout)
	v.SetDefault("billing.seed_plans", d.Billing.SeedPlans)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("pubsub.output_buffer", d.PubSub.OutputBuffer)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
