package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/dedup"
	"github.com/jobradar/jobradar/internal/embedding"
	"github.com/jobradar/jobradar/internal/pipeline"
	"github.com/jobradar/jobradar/internal/recommend"
	"github.com/jobradar/jobradar/internal/scraper"
	"github.com/jobradar/jobradar/internal/secrets"
	"github.com/jobradar/jobradar/internal/store"
	"github.com/jobradar/jobradar/internal/vector"
)

// application bundles everything the commands share. Optional collaborators
// (embedder, index, redis) stay nil when unconfigured; the pipeline and the
// recommendation tiers degrade around them.
type application struct {
	config *Config
	logger *zap.Logger

	pool        *pgxpool.Pool
	rdb         *redis.Client
	jobStore    *store.JobStore
	resumeStore *store.ResumeStore

	embedder embedding.Provider
	index    vector.Index
	aiClient *ai.Client
}

// newApplication loads the config and opens every configured backend. The
// returned cleanup func closes the connections.
func newApplication(ctx context.Context, logger *zap.Logger) (*application, func(), error) {
	config, err := getConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("getting a config: %w", err)
	}
	if config == nil {
		return nil, nil, errors.New("config is required")
	}
	if config.Storage == nil || config.Storage.PostgresURL == "" {
		return nil, nil, errors.New("storage.postgres-url is required")
	}

	pool, err := store.NewPostgresPool(ctx, config.Storage.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	a := &application{
		config:      config,
		logger:      logger,
		pool:        pool,
		jobStore:    store.NewJobStore(pool),
		resumeStore: store.NewResumeStore(pool),
	}

	if config.Storage.RedisURL != "" {
		rdb, err := store.NewRedisClient(ctx, config.Storage.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, dedup fast path disabled", zap.Error(err))
		} else {
			a.rdb = rdb
		}
	}

	a.embedder = buildEmbedder(ctx, config.Embedding, logger)
	a.index = buildIndex(config.Vector, logger)
	a.aiClient = buildAIClient(ctx, config.AI, logger)

	cleanup := func() {
		if a.rdb != nil {
			_ = a.rdb.Close()
		}
		a.pool.Close()
	}
	return a, cleanup, nil
}

func (a *application) seenCache() dedup.SeenCache {
	if a.rdb == nil {
		return nil
	}
	return store.NewRedisSeenCache(a.rdb)
}

func (a *application) buildPipeline() (*pipeline.Pipeline, error) {
	adapters, err := buildAdapters(a.config.Sources, a.logger)
	if err != nil {
		return nil, err
	}
	if len(adapters) == 0 {
		return nil, errors.New("no source adapters configured")
	}

	timeout := scraper.DefaultAdapterTimeout
	if a.config.Sources != nil && a.config.Sources.TimeoutSec > 0 {
		timeout = time.Duration(a.config.Sources.TimeoutSec) * time.Second
	}

	orchestrator := scraper.NewOrchestrator(adapters, timeout, a.logger)
	deduper := dedup.New(a.jobStore, a.seenCache(), a.logger)
	return pipeline.New(orchestrator, deduper, a.embedder, a.index, a.logger), nil
}

func (a *application) buildEngine() *recommend.Engine {
	tiers := []recommend.Tier{
		recommend.NewVectorMatch(a.index, a.logger),
		recommend.NewOnDemandEmbed(a.index, a.embedder, a.logger),
		recommend.NewKeyword(a.logger),
		recommend.NewPreference(a.logger),
	}
	return recommend.NewEngine(tiers, a.logger)
}

func buildAdapters(cfg *SourcesConfig, logger *zap.Logger) ([]scraper.Adapter, error) {
	if cfg == nil {
		return nil, nil
	}

	var adapters []scraper.Adapter

	if cfg.RemoteOK != nil && cfg.RemoteOK.Enabled {
		adapters = append(adapters, scraper.NewRemoteOK(logger))
	}

	if cfg.Adzuna != nil {
		appID := loadOptionalSecret("adzuna app id", cfg.Adzuna.AppID, cfg.Adzuna.AppIDFile, logger)
		appKey := loadOptionalSecret("adzuna app key", cfg.Adzuna.AppKey, cfg.Adzuna.AppKeyFile, logger)
		adapters = append(adapters, scraper.NewAdzuna(appID, appKey, cfg.Adzuna.Country, logger))
	}

	for _, boardCfg := range cfg.HTMLBoards {
		board, err := scraper.NewHTMLBoard(boardCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("html board %q: %w", boardCfg.Platform, err)
		}
		adapters = append(adapters, board)
	}

	return adapters, nil
}

func buildEmbedder(ctx context.Context, cfg *EmbeddingConfig, logger *zap.Logger) embedding.Provider {
	if cfg == nil {
		logger.Warn("embedding not configured, vector features disabled")
		return nil
	}

	apiKey := loadOptionalSecret("embedding api key", cfg.APIKey, cfg.APIKeyFile, logger)
	embedder, err := embedding.NewGemini(ctx, apiKey, cfg.Model, logger)
	if err != nil {
		logger.Warn("embedding unavailable", zap.Error(err))
		return nil
	}
	return embedder
}

func buildIndex(cfg *VectorConfig, logger *zap.Logger) vector.Index {
	if cfg == nil {
		logger.Warn("vector index not configured, matching degrades to keyword tiers")
		return nil
	}

	apiKey := loadOptionalSecret("vector api key", cfg.APIKey, cfg.APIKeyFile, logger)
	index, err := vector.NewPinecone(cfg.Host, apiKey, logger)
	if err != nil {
		logger.Warn("vector index unavailable", zap.Error(err))
		return nil
	}
	return index
}

func buildAIClient(ctx context.Context, cfg *AIConfig, logger *zap.Logger) *ai.Client {
	var providers []ai.Provider

	if cfg != nil && cfg.Gemini != nil {
		apiKey := loadOptionalSecret("gemini api key", cfg.Gemini.APIKey, cfg.Gemini.APIKeyFile, logger)
		gemini, err := ai.NewGemini(ctx, apiKey, logger)
		if err != nil {
			logger.Warn("gemini provider skipped", zap.Error(err))
		} else {
			providers = append(providers, gemini)
		}
	}

	if cfg != nil && cfg.OpenAI != nil {
		apiKey := loadOptionalSecret("openai api key", cfg.OpenAI.APIKey, cfg.OpenAI.APIKeyFile, logger)
		openAI, err := ai.NewOpenAI(apiKey, cfg.OpenAI.Model)
		if err != nil {
			logger.Warn("openai provider skipped", zap.Error(err))
		} else {
			providers = append(providers, openAI)
		}
	}

	if len(providers) == 0 {
		logger.Warn("no ai providers configured, analysis commands will degrade")
	}
	return ai.NewClient(providers, logger)
}

// loadOptionalSecret resolves a file-or-value secret and treats absence as
// empty instead of fatal, so unconfigured integrations are simply skipped.
func loadOptionalSecret(name, value, file string, logger *zap.Logger) string {
	if value == "" && file == "" {
		return ""
	}

	secret, err := secrets.Load(secrets.Source{Name: name, Value: value, File: file})
	if err != nil {
		logger.Warn("loading secret failed", zap.String("secret", name), zap.Error(err))
		return ""
	}
	return secret
}
