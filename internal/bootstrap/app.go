package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"credit-backend/internal/applications"
	"credit-backend/internal/assessments"
	"credit-backend/internal/bureaus"
	"credit-backend/internal/llm"
	openai "credit-backend/internal/llm/openai"
	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
	"credit-backend/internal/shared/cache"
	"credit-backend/internal/shared/config"
	"credit-backend/internal/shared/server"
	"credit-backend/internal/shared/server/middleware"
	"credit-backend/internal/shared/storage/db"
	"credit-backend/internal/shared/storage/mongo"
	"credit-backend/internal/shared/storage/object"
	localstore "credit-backend/internal/shared/storage/object/local"
	s3store "credit-backend/internal/shared/storage/object/s3"
	"credit-backend/internal/shared/telemetry"
)

const redisKeyPrefix = "credit:"

// App holds shared dependencies and the wired router.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Mongo               *mongodriver.Client
	Cache               cache.Cache
	Store               object.ObjectStore
	LLM                 llm.Client
	Profiles            profiles.Generator
	Fetcher             *bureaus.Fetcher
	ApplicationsRepo    applications.Repo
	ApplicationsService *applications.Service
	AssessmentsService  *assessments.Service
	ApplicationHandler  *applications.Handler
	AssessmentHandler   *assessments.Handler

	closers []func(ctx context.Context) error
}

// Build prepares dependencies from cfg and wires the router. In dev-like
// environments unreachable databases fall back to in-memory storage.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()
	app := &App{Config: cfg}

	var err error
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		return nil, err
	}
	if app.LLM, err = buildLLM(cfg); err != nil {
		return nil, err
	}
	app.Cache = app.buildCache(ctx)
	if app.Profiles, err = buildProfiles(cfg, app.LLM, app.Cache); err != nil {
		return nil, err
	}
	src, err := buildBureauSource(cfg, app.LLM, app.Profiles)
	if err != nil {
		return nil, err
	}
	app.Fetcher = bureaus.NewFetcher(src, bureaus.NewRegistry(scoring.AllBureaus))

	newID, err := app.buildApplicationsRepo(ctx)
	if err != nil {
		return nil, err
	}

	variant := cfg.ScoreVariant
	if _, err := scoring.LookupVariant(variant); err != nil {
		return nil, fmt.Errorf("SCORE_VARIANT: %w", err)
	}
	thresholds := scoring.Thresholds{Low: cfg.RiskLowThreshold, Moderate: cfg.RiskModerateThreshold}
	if !thresholds.Valid() {
		telemetry.Warn("bootstrap.thresholds_invalid", map[string]any{
			"low":      cfg.RiskLowThreshold,
			"moderate": cfg.RiskModerateThreshold,
		})
		thresholds = scoring.DefaultThresholds
	}

	app.AssessmentsService = &assessments.Service{
		Fetcher:    app.Fetcher,
		Profiles:   app.Profiles,
		LLM:        app.LLM,
		Store:      app.Store,
		Thresholds: thresholds,
		Variant:    variant,
	}
	app.ApplicationsService = applications.NewService(app.ApplicationsRepo, app.AssessmentsService)
	app.ApplicationsService.NewID = newID
	app.ApplicationHandler = applications.NewHandler(app.ApplicationsService)
	app.AssessmentHandler = assessments.NewHandler(app.AssessmentsService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		ApplicationHandler: app.ApplicationHandler,
		AssessmentHandler:  app.AssessmentHandler,
		HealthChecks:       app.healthChecks(),
		Limiter:            middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":               cfg.Env,
		"application_store": storeName(app.ApplicationsRepo),
		"object_store":      cfg.ObjectStoreType,
		"bureau_source":     src.Name(),
		"profile_source":    cfg.ProfileSource,
		"llm_provider":      cfg.LLMProvider,
		"variant":           variant,
	})
	return app, nil
}

// Close releases database, Mongo and Redis connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderClient{}, nil
	}
	client, err := openai.NewClient(openai.Options{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		return nil, err
	}
	return llm.WithRetry(client), nil
}

func (a *App) buildCache(ctx context.Context) cache.Cache {
	cfg := a.Config
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return cache.NewMemory(nil)
	}
	rc := cache.NewRedis(cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   redisKeyPrefix,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil && isDevLike(cfg.Env) {
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
		_ = rc.Close()
		return cache.NewMemory(nil)
	}
	a.closers = append(a.closers, func(context.Context) error { return rc.Close() })
	return rc
}

func buildProfiles(cfg config.Config, client llm.Client, c cache.Cache) (profiles.Generator, error) {
	var base profiles.Generator
	switch cfg.ProfileSource {
	case "", "fake":
		base = profiles.NewFakeGenerator()
	case "llm":
		base = profiles.LLMGenerator{Client: client}
	default:
		return nil, fmt.Errorf("unknown PROFILE_SOURCE %q", cfg.ProfileSource)
	}
	return profiles.CachedGenerator{Base: base, Cache: c, TTL: cfg.ProfileCacheTTL}, nil
}

func buildBureauSource(cfg config.Config, client llm.Client, gen profiles.Generator) (bureaus.Source, error) {
	switch cfg.BureauSource {
	case "", "hash":
		return bureaus.HashSource{}, nil
	case "random":
		return bureaus.NewRandomSource(uint64(time.Now().UnixNano())), nil
	case "calculator":
		return bureaus.CalculatorSource{Profiles: gen}, nil
	case "llm":
		return bureaus.LLMSource{Client: client}, nil
	default:
		return nil, fmt.Errorf("unknown BUREAU_SOURCE %q", cfg.BureauSource)
	}
}

// buildApplicationsRepo selects the application store and returns the ID
// generator that matches it.
func (a *App) buildApplicationsRepo(ctx context.Context) (func() string, error) {
	cfg := a.Config
	switch cfg.ApplicationStore {
	case "mongo":
		client, database, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, mongo.DefaultOptions())
		if err != nil {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.mongo_unavailable", map[string]any{"error": err.Error()})
				a.ApplicationsRepo = applications.NewMemoryRepo()
				return nil, nil
			}
			return nil, err
		}
		a.Mongo = client
		a.closers = append(a.closers, client.Disconnect)
		repo := applications.NewMongoRepo(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			telemetry.Warn("bootstrap.mongo_indexes", map[string]any{"error": err.Error()})
		}
		a.ApplicationsRepo = repo
		return applications.NewObjectID, nil
	case "postgres":
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if sqlDB == nil {
			a.ApplicationsRepo = applications.NewMemoryRepo()
			return nil, nil
		}
		a.DB = sqlDB
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		a.ApplicationsRepo = &applications.PGRepo{DB: sqlDB}
		return nil, nil
	default:
		if !isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"env": cfg.Env})
		}
		a.ApplicationsRepo = applications.NewMemoryRepo()
		return nil, nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_url_empty", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"error": err.Error(), "fallback": "memory"})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func (a *App) healthChecks() []server.HealthCheck {
	checks := []server.HealthCheck{
		{Name: "applications", Ping: a.ApplicationsRepo.Ping},
	}
	if a.Cache != nil {
		checks = append(checks, server.HealthCheck{Name: "cache", Ping: a.Cache.Ping})
	}
	return checks
}

func storeName(repo applications.Repo) string {
	switch repo.(type) {
	case *applications.MongoRepo:
		return "mongo"
	case *applications.PGRepo:
		return "postgres"
	default:
		return "memory"
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
