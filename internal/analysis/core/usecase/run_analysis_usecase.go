package usecase

import (
	"context"
	"errors"
	"time"

	"ctr-insight-service/internal/analysis/core/domain"
	impdomain "ctr-insight-service/internal/impressions/core/domain"

	"github.com/google/uuid"
)

var (
	ErrInvalidGroupBy              = errors.New("group_by must not be empty")
	ErrInvalidTopN                 = errors.New("top_n must be positive")
	ErrInvalidReliabilityThreshold = errors.New("min_reliable_impressions must not be negative")
	ErrInvalidIQRMultiplier        = errors.New("iqr_multiplier must be positive")
	ErrInvalidVolumeBands          = errors.New("volume bands must be positive and strictly descending")
	ErrNoValidRows                 = errors.New("no valid rows after cleaning")
)

// Cleaner is the slice of the impressions context this pipeline needs.
type Cleaner interface {
	Execute(rows []impdomain.RawRow) (impdomain.RecordSet, impdomain.CleaningReport, error)
}

// RunAnalysisUseCase executes the full pipeline: clean, aggregate,
// dispersion, outliers, concentration. A run either returns a complete
// AnalysisResult or fails outright; there are no partial results.
type RunAnalysisUseCase struct {
	cleaner Cleaner
}

func NewRunAnalysisUseCase(cleaner Cleaner) *RunAnalysisUseCase {
	return &RunAnalysisUseCase{cleaner: cleaner}
}

type RunAnalysisInput struct {
	Rows   []impdomain.RawRow
	Config domain.RunConfig
}

func (uc *RunAnalysisUseCase) Execute(ctx context.Context, in RunAnalysisInput) (*domain.AnalysisResult, error) {
	cfg := applyDefaults(in.Config)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	records, cleaning, err := uc.cleaner.Execute(in.Rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoValidRows
	}

	result := compute(records, cleaning, cfg)
	result.RunID = uuid.NewString()
	result.GeneratedAt = time.Now().UTC()

	return result, nil
}

// compute is the deterministic part of the run: identical records and
// config always produce an identical result.
func compute(records impdomain.RecordSet, cleaning impdomain.CleaningReport, cfg domain.RunConfig) *domain.AnalysisResult {
	rollups := aggregateByKey(records, cfg.GroupBy)
	summary := summarizeRates(rollups)
	bounds, flags := detectOutliers(rollups, summary, cfg)

	return &domain.AnalysisResult{
		GroupBy:        cfg.GroupBy,
		Config:         cfg,
		Cleaning:       cleaning,
		Overall:        overallRollup(records),
		Rollups:        rollups,
		RateDispersion: summary,
		OutlierBounds:  bounds,
		Outliers:       flags,
		ByImpressions:  rankBy(rollups, MetricImpressions, cfg.TopN),
		ByClicks:       rankBy(rollups, MetricClicks, cfg.TopN),
		VolumeBands:    bucketByVolume(rollups, cfg.VolumeBands),
	}
}

func applyDefaults(cfg domain.RunConfig) domain.RunConfig {
	defaults := domain.DefaultRunConfig()

	if cfg.GroupBy == "" {
		cfg.GroupBy = defaults.GroupBy
	}
	if cfg.MinReliableImpressions == 0 {
		cfg.MinReliableImpressions = defaults.MinReliableImpressions
	}
	if cfg.TopN == 0 {
		cfg.TopN = defaults.TopN
	}
	if cfg.IQRMultiplier == 0 {
		cfg.IQRMultiplier = defaults.IQRMultiplier
	}
	if len(cfg.VolumeBands) == 0 {
		cfg.VolumeBands = defaults.VolumeBands
	}

	return cfg
}

func validateConfig(cfg domain.RunConfig) error {
	if cfg.GroupBy == "" {
		return ErrInvalidGroupBy
	}
	if cfg.TopN <= 0 {
		return ErrInvalidTopN
	}
	if cfg.MinReliableImpressions < 0 {
		return ErrInvalidReliabilityThreshold
	}
	if cfg.IQRMultiplier <= 0 {
		return ErrInvalidIQRMultiplier
	}

	for i, t := range cfg.VolumeBands {
		if t <= 0 {
			return ErrInvalidVolumeBands
		}
		if i > 0 && t >= cfg.VolumeBands[i-1] {
			return ErrInvalidVolumeBands
		}
	}

	return nil
}
