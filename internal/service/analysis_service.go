// Package service implements the application use cases on top of the domain
// interfaces: running inventory analyses, fetching inventories, and reading
// back run history.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkarpenko/steamarb/internal/analyzer"
	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/platform/steam"
)

// SteamGateway is the slice of the Steam client the service needs.
type SteamGateway interface {
	ResolveAccount(ctx context.Context, input string) (string, error)
	FetchInventory(ctx context.Context, steamID string, appID, contextID int) ([]domain.Item, error)
}

// Engine runs the per-item quote aggregation.
type Engine interface {
	Analyze(ctx context.Context, items []domain.Item, appID int) ([]domain.Opportunity, int, error)
}

// Exporter uploads a completed run to blob storage.
type Exporter interface {
	Export(ctx context.Context, result domain.AnalysisResult) error
}

// Notifier pushes operator notifications for completed runs.
type Notifier interface {
	AnalysisCompleted(ctx context.Context, result domain.AnalysisResult) error
}

// Broadcaster pushes analysis lifecycle events to connected clients.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// Event types broadcast over the WebSocket hub.
const (
	eventAnalysisStarted   = "analysis_started"
	eventAnalysisCompleted = "analysis_completed"
	eventAnalysisFailed    = "analysis_failed"
)

// AnalysisService orchestrates one analysis run end to end: account
// resolution, inventory fetch, quote aggregation, then persistence and
// fan-out. Store, exporter, notifier and broadcaster are all optional; a
// failure in any of them never fails the run.
type AnalysisService struct {
	steam       SteamGateway
	engine      Engine
	store       domain.AnalysisStore
	exporter    Exporter
	notifier    Notifier
	broadcaster Broadcaster
	contextID   int
	logger      *slog.Logger
}

// AnalysisServiceOpts carries the optional collaborators.
type AnalysisServiceOpts struct {
	Store       domain.AnalysisStore
	Exporter    Exporter
	Notifier    Notifier
	Broadcaster Broadcaster
	ContextID   int
}

// NewAnalysisService creates the service.
func NewAnalysisService(steam SteamGateway, engine Engine, opts AnalysisServiceOpts, logger *slog.Logger) *AnalysisService {
	contextID := opts.ContextID
	if contextID <= 0 {
		contextID = domain.DefaultContextID
	}
	return &AnalysisService{
		steam:       steam,
		engine:      engine,
		store:       opts.Store,
		exporter:    opts.Exporter,
		notifier:    opts.Notifier,
		broadcaster: opts.Broadcaster,
		contextID:   contextID,
		logger:      logger.With(slog.String("component", "analysis_service")),
	}
}

// AnalyzeParams describes one analysis request. MaxItems further restricts
// the configured item cap when positive.
type AnalyzeParams struct {
	Account  string
	AppID    int
	MaxItems int
}

// Analyze runs a full analysis for the given account input (SteamID64,
// profile URL, or vanity name) and app.
func (s *AnalysisService) Analyze(ctx context.Context, p AnalyzeParams) (domain.AnalysisResult, error) {
	if _, ok := domain.SupportedApps[p.AppID]; !ok {
		return domain.AnalysisResult{}, fmt.Errorf("service: app %d: %w", p.AppID, domain.ErrUnsupportedApp)
	}
	if !steam.ValidAccountInput(p.Account) {
		return domain.AnalysisResult{}, fmt.Errorf("service: account %q: %w", p.Account, domain.ErrInvalidAccount)
	}

	steamID, err := s.steam.ResolveAccount(ctx, p.Account)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("service: resolve account %q: %w", p.Account, err)
	}

	s.broadcast(eventAnalysisStarted, map[string]any{
		"steamId": steamID,
		"appId":   p.AppID,
	})

	items, err := s.steam.FetchInventory(ctx, steamID, p.AppID, s.contextID)
	if err != nil {
		s.broadcast(eventAnalysisFailed, map[string]any{
			"steamId": steamID,
			"appId":   p.AppID,
			"error":   err.Error(),
		})
		return domain.AnalysisResult{}, fmt.Errorf("service: fetch inventory for %s: %w", steamID, err)
	}
	if p.MaxItems > 0 && len(items) > p.MaxItems {
		items = items[:p.MaxItems]
	}

	started := time.Now()
	opportunities, analyzed, err := s.engine.Analyze(ctx, items, p.AppID)
	if err != nil {
		s.broadcast(eventAnalysisFailed, map[string]any{
			"steamId": steamID,
			"appId":   p.AppID,
			"error":   err.Error(),
		})
		return domain.AnalysisResult{}, fmt.Errorf("service: analyze inventory for %s: %w", steamID, err)
	}

	analyzer.Rank(opportunities)
	totalProfit, profitableItems := analyzer.Summarize(opportunities)

	result := domain.AnalysisResult{
		ID:              uuid.NewString(),
		SteamID:         steamID,
		AppID:           p.AppID,
		Currency:        "USD",
		TotalProfit:     totalProfit,
		ItemsAnalyzed:   analyzed,
		ProfitableItems: profitableItems,
		Opportunities:   opportunities,
		CreatedAt:       time.Now().UTC(),
	}

	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("run_id", result.ID),
		slog.String("steam_id", steamID),
		slog.Int("app_id", p.AppID),
		slog.Int("items_analyzed", analyzed),
		slog.Int("profitable_items", profitableItems),
		slog.Float64("total_profit", totalProfit),
		slog.Duration("elapsed", time.Since(started)),
	)

	s.finishRun(ctx, result)
	return result, nil
}

// finishRun persists and fans out a completed run. Every step is best
// effort; failures are logged and swallowed.
func (s *AnalysisService) finishRun(ctx context.Context, result domain.AnalysisResult) {
	if s.store != nil {
		if err := s.store.Insert(ctx, result); err != nil {
			s.logger.ErrorContext(ctx, "persist run failed",
				slog.String("run_id", result.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, result); err != nil {
			s.logger.ErrorContext(ctx, "export run failed",
				slog.String("run_id", result.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.AnalysisCompleted(ctx, result); err != nil {
			s.logger.WarnContext(ctx, "notify failed",
				slog.String("run_id", result.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.broadcast(eventAnalysisCompleted, result)
}

// Inventory resolves the account and returns its marketable items together
// with the resolved SteamID64. contextID zero uses the configured default.
func (s *AnalysisService) Inventory(ctx context.Context, account string, appID, contextID int) ([]domain.Item, string, error) {
	if _, ok := domain.SupportedApps[appID]; !ok {
		return nil, "", fmt.Errorf("service: app %d: %w", appID, domain.ErrUnsupportedApp)
	}
	if !steam.ValidAccountInput(account) {
		return nil, "", fmt.Errorf("service: account %q: %w", account, domain.ErrInvalidAccount)
	}
	if contextID <= 0 {
		contextID = s.contextID
	}

	steamID, err := s.steam.ResolveAccount(ctx, account)
	if err != nil {
		return nil, "", fmt.Errorf("service: resolve account %q: %w", account, err)
	}

	items, err := s.steam.FetchInventory(ctx, steamID, appID, contextID)
	if err != nil {
		return nil, "", fmt.Errorf("service: fetch inventory for %s: %w", steamID, err)
	}
	return items, steamID, nil
}

// HistoryEnabled reports whether run persistence is configured.
func (s *AnalysisService) HistoryEnabled() bool {
	return s.store != nil
}

// Recent returns the latest persisted runs, newest first. Without a store it
// returns an empty list.
func (s *AnalysisService) Recent(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	if s.store == nil {
		return []domain.AnalysisResult{}, nil
	}
	results, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: list recent runs: %w", err)
	}
	if results == nil {
		results = []domain.AnalysisResult{}
	}
	return results, nil
}

func (s *AnalysisService) broadcast(eventType string, payload any) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(eventType, payload)
}
