package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pantry/internal/bootstrap/logging"
	"pantry/internal/errs"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Translation TranslationConfig `mapstructure:"translation"`
	Recipes     RecipesConfig     `mapstructure:"recipes"`
	HTTP        HTTPConfig        `mapstructure:"http"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type CacheConfig struct {
	// Driver is one of sqlite, redis, memory.
	Driver        string        `mapstructure:"driver"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisURL      string        `mapstructure:"redis_url"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

type TranslationConfig struct {
	// Provider is one of openai, gemini.
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	BaseURL      string  `mapstructure:"base_url"`
	Temperature  float32 `mapstructure:"temperature"`
	DisplayLang  string  `mapstructure:"display_lang"`
	ProviderLang string  `mapstructure:"provider_lang"`
	Separator    string  `mapstructure:"separator"`
	MaxRetries   int     `mapstructure:"max_retries"`
	// Concurrency caps provider calls when a batch falls back to one call per item.
	Concurrency int `mapstructure:"concurrency"`
}

type RecipesConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Number  int           `mapstructure:"number"`
}

type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PANTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("cache_driver", cfg.Cache.Driver),
		slog.Duration("cache_ttl", cfg.Cache.TTL),
		slog.String("translation_provider", cfg.Translation.Provider),
	)

	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	switch strings.ToLower(c.Cache.Driver) {
	case "sqlite", "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.RedisURL) == "" {
			return errors.New("cache.redis_url is required for the redis driver")
		}
	default:
		return fmt.Errorf("unsupported cache driver %q", c.Cache.Driver)
	}
	switch strings.ToLower(c.Translation.Provider) {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported translation provider %q", c.Translation.Provider)
	}
	if c.Translation.Separator == "" {
		return errors.New("translation.separator is required")
	}
	if c.Translation.Concurrency < 0 {
		return errors.New("translation.concurrency must not be negative")
	}
	if c.Translation.DisplayLang == "" || c.Translation.ProviderLang == "" {
		return errors.New("translation.display_lang and translation.provider_lang are required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pantry")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/pantry.sqlite")
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.ttl", 23*time.Hour)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "pantry:")
	v.SetDefault("cache.purge_interval", time.Hour)
	v.SetDefault("translation.provider", "openai")
	v.SetDefault("translation.api_key", "")
	v.SetDefault("translation.model", "")
	v.SetDefault("translation.base_url", "")
	v.SetDefault("translation.temperature", 0.2)
	v.SetDefault("translation.display_lang", "es")
	v.SetDefault("translation.provider_lang", "en")
	v.SetDefault("translation.separator", "|||")
	v.SetDefault("translation.max_retries", 2)
	v.SetDefault("translation.concurrency", 4)
	v.SetDefault("recipes.base_url", "https://api.spoonacular.com")
	v.SetDefault("recipes.api_key", "")
	v.SetDefault("recipes.timeout", 10*time.Second)
	v.SetDefault("recipes.number", 10)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.request_timeout", 60*time.Second)
}
