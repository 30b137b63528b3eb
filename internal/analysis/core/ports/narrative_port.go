package ports

import (
	"context"

	"ctr-insight-service/internal/analysis/core/domain"
)

// NarrativeGeneratorPort turns a finished AnalysisResult into
// human-readable commentary. The core never calls out itself; the
// adapter behind this port may be an LLM client or a template.
type NarrativeGeneratorPort interface {
	Generate(ctx context.Context, result *domain.AnalysisResult) (string, error)
}
