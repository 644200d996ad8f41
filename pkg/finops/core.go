package finops

import (
	"context"
	"net/http"

	"github.com/finopsguard/finopsguard/internal/analysisstore"
	"github.com/finopsguard/finopsguard/internal/cache"
	"github.com/finopsguard/finopsguard/internal/config"
	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/logging"
	"github.com/finopsguard/finopsguard/internal/policy"
	"github.com/finopsguard/finopsguard/internal/pricing"

	"go.uber.org/zap"
)

// Core wires the parser, pricing, estimator, policy engine, store, and
// cache into the single object CheckCostImpact, EvaluatePolicy, and the
// policy/history surfaces hang off. It holds no request-scoped state; one
// Core serves a process's entire lifetime.
type Core struct {
	cfg      *config.CoreConfig
	catalog  *pricing.Catalog
	factory  *pricing.Factory
	registry *policy.Registry
	store    analysisstore.Store
	cache    *cache.Store
	webhook  WebhookNotifier
}

// Option configures a Core at construction time.
type Option func(*Core)

// WithWebhookNotifier registers a notifier CheckCostImpact calls after each
// successfully persisted check whose policy verdict blocked it. Without one,
// material events go unreported.
func WithWebhookNotifier(n WebhookNotifier) Option {
	return func(c *Core) { c.webhook = n }
}

// WithStore overrides the analysis store config.Load would otherwise select,
// letting a caller (tests, or a CLI with an already-open pool) inject one.
func WithStore(store analysisstore.Store) Option {
	return func(c *Core) { c.store = store }
}

// NewCore builds a Core from cfg: a static pricing catalog, the registered
// live pricing adapters gated by cfg.Pricing, an empty policy registry, the
// configured analysis store, and the analysis cache. ctx bounds the store's
// opening handshake (e.g. Postgres's initial ping and schema migration) and,
// when the cache is enabled, the lifetime of the cache's background sweeper.
func NewCore(ctx context.Context, cfg *config.CoreConfig, opts ...Option) (*Core, error) {
	if err := logging.Initialize(cfg.Logging); err != nil {
		return nil, apperrors.Internal("failed to initialize logging", err)
	}

	catalog := pricing.NewCatalog()

	liveSources := pricing.NewLiveSourceRegistry()
	if cfg.Pricing.LivePricingEnabled {
		if cfg.Pricing.AWSPricingEnabled {
			liveSources.Register(&pricing.AWSPricingSource{Client: http.DefaultClient})
		}
		if cfg.Pricing.GCPPricingEnabled {
			liveSources.Register(&pricing.GCPBillingCatalogSource{Client: http.DefaultClient, APIKey: cfg.Pricing.GCPPricingAPIKey})
		}
		if cfg.Pricing.AzurePricingEnabled {
			liveSources.Register(&pricing.AzurePricingSource{Client: http.DefaultClient})
		}
	}

	factory := pricing.NewFactory(catalog, liveSources, pricing.Options{
		LiveEnabled:      cfg.Pricing.LivePricingEnabled,
		FallbackToStatic: cfg.Pricing.FallbackToStatic,
		RequestTimeout:   cfg.Pricing.RequestTimeout,
		MaxRetries:       cfg.Pricing.MaxRetries,
		RetryBaseDelay:   cfg.Pricing.RetryBaseDelay,
	})

	c := &Core{
		cfg:      cfg,
		catalog:  catalog,
		factory:  factory,
		registry: policy.NewRegistry(),
		cache:    cache.New(cfg.Cache.TTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		store, err := newStore(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		c.store = store
	}

	if cfg.Cache.Enabled {
		c.cache.RunSweeper(ctx, cfg.Cache.SweepInterval)
	}

	logging.Info("finops core initialized",
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("live_pricing_enabled", cfg.Pricing.LivePricingEnabled),
	)

	return c, nil
}

func newStore(ctx context.Context, cfg config.StoreConfig) (analysisstore.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return analysisstore.NewMemoryStore(), nil
	case "postgres":
		return analysisstore.NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, apperrors.InvalidRequest("unknown analysis store driver: " + cfg.Driver)
	}
}
