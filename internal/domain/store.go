package domain

import "context"

// AnalysisStore persists completed analysis runs so operators can review
// historical results through the API.
type AnalysisStore interface {
	Insert(ctx context.Context, res AnalysisResult) error
	ListRecent(ctx context.Context, limit int) ([]AnalysisResult, error)
}
