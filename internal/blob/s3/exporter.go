package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// Exporter uploads completed analysis runs as JSON documents, partitioned by
// run date:
//
//	analyses/2026/08/29/<run-id>.json
type Exporter struct {
	writer domain.BlobWriter
}

// NewExporter creates an Exporter over the given blob writer.
func NewExporter(writer domain.BlobWriter) *Exporter {
	return &Exporter{writer: writer}
}

// Export serializes the run and uploads it.
func (e *Exporter) Export(ctx context.Context, result domain.AnalysisResult) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("s3blob: encode analysis run %s: %w", result.ID, err)
	}

	path := exportPath(result)
	if err := e.writer.Put(ctx, path, &buf, "application/json"); err != nil {
		return fmt.Errorf("s3blob: export analysis run %s: %w", result.ID, err)
	}
	return nil
}

func exportPath(result domain.AnalysisResult) string {
	return fmt.Sprintf("analyses/%s/%s.json", result.CreatedAt.UTC().Format("2006/01/02"), result.ID)
}
