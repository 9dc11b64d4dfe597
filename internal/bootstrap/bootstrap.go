// Package bootstrap builds the scoring stack from configuration. The CLI and
// the HTTP server share it so both run the same components.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-scorer/internal/config"
	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/embedding"
	"github.com/jonathan/ats-scorer/internal/fetch"
	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/llm"
	"github.com/jonathan/ats-scorer/internal/nlp"
	"github.com/jonathan/ats-scorer/internal/scoring"
	"github.com/jonathan/ats-scorer/internal/semantic"
	"github.com/jonathan/ats-scorer/internal/server"
	"github.com/jonathan/ats-scorer/internal/server/ratelimit"
	"github.com/jonathan/ats-scorer/internal/skills"
	"github.com/jonathan/ats-scorer/internal/tfidf"
)

// redisPingTimeout bounds the startup connectivity check
const redisPingTimeout = 5 * time.Second

// App holds the long-lived components. Everything except Close is safe for
// concurrent use.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Resources *nlp.Resources
	Catalog   *skills.Catalog
	Skills    *skills.Extractor
	Lexical   *tfidf.Comparer
	Embedder  embedding.Embedder
	Semantic  *semantic.Analyzer
	Scorer    *scoring.Scorer
	Ingestion *ingestion.Chain
	// Strategies lists the embedding strategies in fallback order
	Strategies []string

	closers []func() error
}

// Build loads language resources and the skill catalog and assembles the
// embedder stack and scorer described by cfg.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: logger}

	res, err := nlp.NewResources()
	if err != nil {
		return nil, err
	}
	app.Resources = res

	catalog := skills.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = skills.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load skill catalog: %w", err)
		}
	}
	app.Catalog = catalog

	if err := app.buildEmbedder(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Skills = skills.NewExtractor(catalog, res, logger)
	app.Lexical = tfidf.NewComparer(res)
	app.Semantic = semantic.NewAnalyzer(res.Annotator, app.Embedder, logger)
	app.Scorer = scoring.New(scoring.Deps{
		Extractor: app.Skills,
		Lexical:   app.Lexical,
		Semantic:  app.Semantic,
		Logger:    logger,
	})
	app.Ingestion = ingestion.NewChain(ingestion.DefaultLimits, logger)

	logger.Debug("scoring stack ready",
		zap.String("catalog_version", catalog.Version()),
		zap.Strings("embedding_strategies", app.Strategies))
	return app, nil
}

// buildEmbedder assembles Pool(Chain(remote strategies..., hashing))
func (a *App) buildEmbedder(ctx context.Context) error {
	ec := a.Config.Embedding

	cache, err := a.buildCache(ctx)
	if err != nil {
		return err
	}

	var strategies []embedding.Strategy
	if llm.Provider(ec.Provider) == llm.ProviderGemini {
		remote, err := a.geminiStrategies(ctx, cache)
		switch {
		case err == nil:
			strategies = append(strategies, remote...)
		case ec.Fallback:
			a.Logger.Warn("gemini embeddings disabled, using hashing embedder", zap.Error(err))
		default:
			return err
		}
	}

	if llm.Provider(ec.Provider) == llm.ProviderHashing || ec.Fallback {
		strategies = append(strategies, embedding.Strategy{
			Name:     string(llm.ProviderHashing),
			Embedder: embedding.NewHashingEmbedder(ec.Dimension),
		})
	}
	if len(strategies) == 0 {
		return errors.New("no embedding strategy configured")
	}

	chain := embedding.NewChain(a.Logger, strategies...)
	a.Strategies = chain.Strategies()
	a.Embedder = embedding.NewPool(chain, ec.Workers)
	return nil
}

// geminiStrategies returns the standard model and, when configured, the
// legacy model, each retried and cached under its own namespace.
func (a *App) geminiStrategies(ctx context.Context, cache embedding.Cache) ([]embedding.Strategy, error) {
	ec := a.Config.Embedding

	llmCfg := llm.DefaultGeminiConfig()
	if ec.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, ec.Model)
	}
	if ec.LegacyModel != "" {
		llmCfg = llmCfg.WithModel(llm.TierLegacy, ec.LegacyModel)
	} else {
		delete(llmCfg.Models, llm.TierLegacy)
	}

	client, err := llm.NewClient(ctx, llmCfg, ec.APIKey)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)

	retry := embedding.DefaultRetryConfig
	retry.MaxRetries = ec.MaxRetries
	retry.Timeout = ec.Timeout
	if ec.InitialBackoff > 0 {
		retry.InitialWait = ec.InitialBackoff
	}

	tiers := []llm.ModelTier{llm.TierStandard}
	if _, ok := llmCfg.Models[llm.TierLegacy]; ok {
		tiers = append(tiers, llm.TierLegacy)
	}

	strategies := make([]embedding.Strategy, 0, len(tiers))
	for _, tier := range tiers {
		g := embedding.NewGeminiEmbedder(client, tier, ec.Workers)
		var e embedding.Embedder = embedding.WithRetry(g, retry, a.Logger)
		if cache != nil {
			e = embedding.NewCached(e, cache, g.Name(), a.Logger)
		}
		strategies = append(strategies, embedding.Strategy{Name: g.Name(), Embedder: e})
	}
	return strategies, nil
}

// buildCache returns nil when caching is off
func (a *App) buildCache(ctx context.Context) (embedding.Cache, error) {
	cc := a.Config.Cache
	switch cc.Backend {
	case "memory":
		return embedding.NewMemoryCache(cc.MaxEntries), nil
	case "redis":
		rc, err := embedding.NewRedisCache(cc.RedisURL, cc.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		a.closers = append(a.closers, rc.Close)

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			return nil, fmt.Errorf("failed to reach redis cache: %w", err)
		}
		return rc, nil
	default:
		return nil, nil
	}
}

// OpenStore opens the configured analysis store. It returns nil, nil when
// persistence is disabled.
func (a *App) OpenStore(ctx context.Context) (db.Store, error) {
	dc := a.Config.Database
	store, err := db.Open(ctx, db.Options{Driver: dc.Driver, URL: dc.URL, SQLitePath: dc.SQLitePath})
	if errors.Is(err, db.ErrDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// JobOptions returns the fetch settings for job description URLs
func (a *App) JobOptions() fetch.JobOptions {
	opts := fetch.JobOptions{Fetch: fetch.DefaultOptions(), Logger: a.Logger}
	opts.Fetch.Timeout = a.Config.Fetch.Timeout
	if a.Config.Fetch.UseBrowser {
		opts.Renderer = fetch.NewChromeRenderer()
	}
	return opts
}

// ServerConfig translates the server section into server.Config
func (a *App) ServerConfig() server.Config {
	sc := a.Config.Server
	return server.Config{
		Port:           sc.Port,
		MaxUploadBytes: sc.MaxUploadBytes,
		CORSOrigins:    sc.CORSOrigins,
		RateLimit:      RateLimitConfig(sc.RateLimit),
	}
}

// RateLimitConfig converts configured limits into a limiter configuration
func RateLimitConfig(rc config.RateLimitConfig) *ratelimit.Config {
	out := ratelimit.DefaultConfig()
	out.Enabled = rc.Enabled
	out.DefaultLimit = rc.DefaultLimit
	out.DefaultWindow = rc.DefaultWindow
	out.EndpointConfigs = ratelimit.ScoringEndpoints(rc.AnalyzeLimit, rc.AnalyzeWindow, rc.AnalyzeBurst)
	return out
}

// Close releases clients opened by Build. It does not close stores returned
// by OpenStore.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
