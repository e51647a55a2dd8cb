package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"pantry/internal/bootstrap/config"
	"pantry/internal/bootstrap/database"
	"pantry/internal/bootstrap/logging"
	cacheinfra "pantry/internal/infrastructure/cache"
	"pantry/internal/infrastructure/llm"
	sqliterepo "pantry/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "pantry/internal/infrastructure/persistence/sqlite/uow"
	"pantry/internal/infrastructure/recipeapi"
	"pantry/internal/ports"
	inventoryuc "pantry/internal/usecase/inventory"
	"pantry/internal/usecase/recipes"
	"pantry/internal/usecase/translation"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideLogger),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewInventoryRepository,
			fx.As(new(ports.InventoryRepository)),
			fx.As(new(ports.InventoryReader)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideCache),
	fx.Provide(provideTextGenerator),
	fx.Provide(
		fx.Annotate(
			provideTranslator,
			fx.As(new(ports.Translator)),
		),
	),
	fx.Provide(
		fx.Annotate(
			provideRecipeProvider,
			fx.As(new(ports.RecipeProvider)),
		),
	),
	fx.Provide(inventoryuc.NewService),
	fx.Provide(provideGateway),
	fx.Provide(provideServices),
)

// Services is the usecase surface the commands and the HTTP API drive.
type Services struct {
	Inventory  *inventoryuc.Service
	Recipes    *recipes.Gateway
	Translator ports.Translator
	Cache      ports.Cache
	Logger     *slog.Logger
}

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideLogger(cfg config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format).With(slog.String("app", cfg.App.Name))
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideCache(lc fx.Lifecycle, ctx context.Context, cfg config.Config, db *gorm.DB) (ports.Cache, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	switch strings.ToLower(cfg.Cache.Driver) {
	case "sqlite":
		return cacheinfra.NewSQLiteCache(db, cfg.Cache.TTL), nil
	case "memory":
		logging.Warn(logCtx, "using process-local cache, entries are lost on restart")
		return cacheinfra.NewMemoryCache(cfg.Cache.TTL), nil
	case "redis":
		store, err := cacheinfra.NewRedisCache(ctx, cacheinfra.RedisConfig{
			URL:       cfg.Cache.RedisURL,
			TTL:       cfg.Cache.TTL,
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return store.Close()
			},
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}

func provideTextGenerator(ctx context.Context, cfg config.Config) (ports.TextGenerator, error) {
	tc := cfg.Translation

	var base ports.TextGenerator
	switch strings.ToLower(tc.Provider) {
	case "openai":
		base = llm.NewOpenAIGenerator(llm.OpenAIConfig{
			APIKey:      tc.APIKey,
			Model:       tc.Model,
			BaseURL:     tc.BaseURL,
			Temperature: tc.Temperature,
		})
	case "gemini":
		gen, err := llm.NewGeminiGenerator(ctx, llm.GeminiConfig{
			APIKey:      tc.APIKey,
			Model:       tc.Model,
			Temperature: tc.Temperature,
		})
		if err != nil {
			return nil, err
		}
		base = gen
	default:
		return nil, fmt.Errorf("unsupported translation provider %q", tc.Provider)
	}

	retry := llm.DefaultRetryConfig()
	retry.MaxRetries = tc.MaxRetries
	return llm.NewRetryingGenerator(base, retry), nil
}

func provideTranslator(cache ports.Cache, gen ports.TextGenerator, cfg config.Config) *translation.Service {
	return translation.NewService(cache, gen, translation.Options{
		Separator:   cfg.Translation.Separator,
		Concurrency: cfg.Translation.Concurrency,
	})
}

func provideRecipeProvider(cfg config.Config) *recipeapi.Client {
	return recipeapi.NewClient(recipeapi.Config{
		BaseURL: cfg.Recipes.BaseURL,
		APIKey:  cfg.Recipes.APIKey,
		Timeout: cfg.Recipes.Timeout,
		Number:  cfg.Recipes.Number,
	})
}

func provideGateway(
	inv ports.InventoryReader,
	provider ports.RecipeProvider,
	translator ports.Translator,
	cache ports.Cache,
	cfg config.Config,
) *recipes.Gateway {
	return recipes.NewGateway(inv, provider, translator, cache, recipes.Options{
		DisplayLang:  cfg.Translation.DisplayLang,
		ProviderLang: cfg.Translation.ProviderLang,
	})
}

type servicesParams struct {
	fx.In

	Inventory  *inventoryuc.Service
	Recipes    *recipes.Gateway
	Translator ports.Translator
	Cache      ports.Cache
	Logger     *slog.Logger
}

func provideServices(p servicesParams) *Services {
	return &Services{
		Inventory:  p.Inventory,
		Recipes:    p.Recipes,
		Translator: p.Translator,
		Cache:      p.Cache,
		Logger:     p.Logger,
	}
}
