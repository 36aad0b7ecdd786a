package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SessionStoreDatabase = "database"
	SessionStoreRedis    = "redis"

	developmentSigningKey = "greenspark-development-only"
)

var (
	errMissingSigningKey   = errors.New("api.jwt_signing_key must be set outside development")
	errUnknownSessionStore = errors.New("session.store must be either database or redis")
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Session  *SessionConfig  `mapstructure:"session"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Campaign *CampaignConfig `mapstructure:"campaign"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	LogLevel           string   `mapstructure:"log_level"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type SessionConfig struct {
	Store         string        `mapstructure:"store"`
	TTL           time.Duration `mapstructure:"ttl"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CampaignConfig struct {
	PageSize int `mapstructure:"page_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", EnvDevelopment)
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.log_level", "info")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("session.store", SessionStoreDatabase)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.purge_interval", 30*time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("campaign.page_size", 9)
}

// Load reads the config file at path. Every key can be overridden by an
// environment variable named after it, e.g. POSTGRES_HOST for postgres.host.
func Load(path string) (*AppConfig, error) {
	return load(newViper(path))
}

// Watch reloads the config file whenever it changes and hands the new config
// to onChange. Invalid edits are reported through onError and ignored.
func Watch(path string, onChange func(*AppConfig), onError func(error)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		onError(fmt.Errorf("v.ReadInConfig -> %w", err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		conf, err := decode(v)
		if err != nil {
			onError(err)
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func load(v *viper.Viper) (*AppConfig, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	// AutomaticEnv only applies to keys viper already knows about, so bind
	// the ones that have no default explicitly.
	for _, key := range []string{"api.jwt_signing_key", "postgres.user", "postgres.password", "postgres.db", "redis.password", "redis.db"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("v.BindEnv(%s) -> %w", key, err)
		}
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) validate() error {
	if c.API.JWTSigningKey == "" {
		if c.API.Environment != EnvDevelopment {
			return errMissingSigningKey
		}
		c.API.JWTSigningKey = developmentSigningKey
	}

	if c.Session.Store != SessionStoreDatabase && c.Session.Store != SessionStoreRedis {
		return errUnknownSessionStore
	}

	return nil
}
