package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mkarpenko/steamarb/internal/pricing"
	"github.com/mkarpenko/steamarb/internal/server"
	"github.com/mkarpenko/steamarb/internal/server/handler"
	"github.com/mkarpenko/steamarb/internal/server/ws"
	"github.com/mkarpenko/steamarb/internal/service"
)

// shutdownTimeout bounds graceful HTTP shutdown on exit.
const shutdownTimeout = 5 * time.Second

// ServerMode runs the HTTP + WebSocket API until the context is cancelled.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode",
		slog.Int("port", a.cfg.Server.Port),
		slog.Int("providers", deps.Registry.Len()),
	)

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		err := hub.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	svc := a.newAnalysisService(deps, hub)

	handlers := server.Handlers{
		Health:    handler.NewHealthHandler(a.logger),
		Inventory: handler.NewInventoryHandler(svc, a.cfg.Analysis.AppID, a.logger),
		Analyze:   handler.NewAnalyzeHandler(svc, a.cfg.Analysis.AppID, a.logger),
		Analyses:  handler.NewAnalysesHandler(svc, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		APIKey:          a.cfg.Server.APIKey,
		RateLimit:       a.cfg.Server.RateLimit,
		RateLimitWindow: a.cfg.Server.RateLimitWindow.Duration,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app: server mode: %w", err)
	}
	return nil
}

// AnalyzeMode runs a single analysis for the configured account and writes
// the result as JSON to stdout.
func (a *App) AnalyzeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting analyze mode",
		slog.String("account", a.cfg.Analysis.Account),
		slog.Int("app_id", a.cfg.Analysis.AppID),
	)

	svc := a.newAnalysisService(deps, nil)

	result, err := svc.Analyze(ctx, service.AnalyzeParams{
		Account: a.cfg.Analysis.Account,
		AppID:   a.cfg.Analysis.AppID,
	})
	if err != nil {
		return fmt.Errorf("app: analyze mode: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("app: analyze mode: encode result: %w", err)
	}

	a.logger.InfoContext(ctx, "analysis finished",
		slog.Int("items_analyzed", result.ItemsAnalyzed),
		slog.Int("profitable_items", result.ProfitableItems),
		slog.String("total_profit", pricing.FormatUSD(result.TotalProfit)),
	)
	return nil
}
