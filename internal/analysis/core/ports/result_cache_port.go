package ports

import "ctr-insight-service/internal/analysis/core/domain"

// ResultCachePort holds completed, immutable analysis results so they
// can be fetched or narrated after the run returned.
type ResultCachePort interface {
	Put(result *domain.AnalysisResult)
	Get(runID string) (*domain.AnalysisResult, bool)
}
