package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkarpenko/steamarb/internal/analyzer"
	s3blob "github.com/mkarpenko/steamarb/internal/blob/s3"
	"github.com/mkarpenko/steamarb/internal/cache/nocache"
	"github.com/mkarpenko/steamarb/internal/cache/redis"
	"github.com/mkarpenko/steamarb/internal/config"
	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/notify"
	"github.com/mkarpenko/steamarb/internal/platform/dmarket"
	"github.com/mkarpenko/steamarb/internal/platform/skinport"
	"github.com/mkarpenko/steamarb/internal/platform/steam"
	"github.com/mkarpenko/steamarb/internal/provider"
	"github.com/mkarpenko/steamarb/internal/service"
	"github.com/mkarpenko/steamarb/internal/store/postgres"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Steam    *steam.Client
	Registry *provider.Registry
	Analyzer *analyzer.Analyzer

	// Optional collaborators; nil when the backing system is disabled.
	Store    domain.AnalysisStore
	Exporter *s3blob.Exporter
	Notifier *notify.Notifier

	RateLimiter domain.RateLimiter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Steam client ---
	deps.Steam = steam.NewClient(steam.Config{
		CommunityURL: cfg.Steam.CommunityURL,
		WebAPIURL:    cfg.Steam.WebAPIURL,
		APIKey:       cfg.Steam.APIKey,
	})

	// --- Caches (Redis, or pass-through fallbacks when disabled) ---
	var (
		quoteCache domain.QuoteCache          = nocache.QuoteCache{}
		priceCache domain.ReferencePriceCache = nocache.PriceCache{}
	)
	deps.RateLimiter = nocache.RateLimiter{}

	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		quoteCache = redis.NewQuoteCache(redisClient, cfg.Redis.QuoteTTL.Duration)
		priceCache = redis.NewPriceCache(redisClient, cfg.Redis.PriceTTL.Duration)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	}

	// --- Marketplace providers ---
	var providers []provider.Provider
	if cfg.Skinport.Enabled {
		client := skinport.NewClient(cfg.Skinport.BaseURL)
		fees := domain.FeeSchedule{FeePct: cfg.Skinport.FeePct, FlatFee: cfg.Skinport.FlatFee}
		providers = append(providers, provider.NewSkinport(client, fees, quoteCache, logger))
	}
	if cfg.DMarket.Enabled {
		client := dmarket.NewClient(cfg.DMarket.BaseURL)
		fees := domain.FeeSchedule{FeePct: cfg.DMarket.FeePct, FlatFee: cfg.DMarket.FlatFee}
		providers = append(providers, provider.NewDMarket(client, fees, quoteCache, logger))
	}
	deps.Registry = provider.NewRegistry(providers...)

	// --- Analyzer ---
	pricer := analyzer.NewCachedPricer(deps.Steam, priceCache, logger)
	deps.Analyzer = analyzer.New(deps.Registry, pricer, analyzer.Config{
		MaxItems:     cfg.Analysis.MaxItems,
		QuoteTimeout: cfg.Analysis.QuoteTimeout.Duration,
	}, logger)

	// --- PostgreSQL run history ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}
		deps.Store = postgres.NewAnalysisStore(pgClient.Pool())
	}

	// --- S3 export of completed runs ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Exporter = s3blob.NewExporter(s3blob.NewWriter(s3Client))
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
	}

	return deps, cleanup, nil
}

// newAnalysisService assembles the use-case service from wired dependencies.
// broadcaster may be nil (analyze mode has no WebSocket hub).
func (a *App) newAnalysisService(deps *Dependencies, broadcaster service.Broadcaster) *service.AnalysisService {
	opts := service.AnalysisServiceOpts{
		Store:       deps.Store,
		Broadcaster: broadcaster,
		ContextID:   a.cfg.Steam.ContextID,
	}
	if deps.Exporter != nil {
		opts.Exporter = deps.Exporter
	}
	if deps.Notifier != nil {
		opts.Notifier = deps.Notifier
	}
	return service.NewAnalysisService(deps.Steam, deps.Analyzer, opts, a.logger)
}
