package cache

import (
	"ctr-insight-service/internal/analysis/core/domain"
	"ctr-insight-service/internal/analysis/core/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache is a size-bounded in-process cache of finished runs.
// Results are immutable once stored, so no locking beyond the LRU's own
// is needed and nothing is shared between in-flight runs.
type ResultCache struct {
	cache *lru.Cache[string, *domain.AnalysisResult]
}

var _ ports.ResultCachePort = (*ResultCache)(nil)

func NewResultCache(size int) (*ResultCache, error) {
	c, err := lru.New[string, *domain.AnalysisResult](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{cache: c}, nil
}

func (rc *ResultCache) Put(result *domain.AnalysisResult) {
	rc.cache.Add(result.RunID, result)
}

func (rc *ResultCache) Get(runID string) (*domain.AnalysisResult, bool) {
	return rc.cache.Get(runID)
}
