package usecase

import "ctr-insight-service/internal/analysis/core/domain"

// detectOutliers applies IQR fences to per-group rates. The lower fence
// is clamped at 0 because a rate cannot be negative; with all rates
// >= 0 that makes the low branch unreachable for this metric, which is
// expected, not a bug. Reliability is an independent volume check.
func detectOutliers(rollups []domain.GroupRollup, summary domain.DispersionSummary, cfg domain.RunConfig) (domain.OutlierBounds, []domain.OutlierFlag) {
	iqr := summary.Q3 - summary.Q1

	bounds := domain.OutlierBounds{
		Lower: summary.Q1 - cfg.IQRMultiplier*iqr,
		Upper: summary.Q3 + cfg.IQRMultiplier*iqr,
	}
	if bounds.Lower < 0 {
		bounds.Lower = 0
		bounds.LowerClamped = true
	}

	flags := make([]domain.OutlierFlag, 0, len(rollups))
	for _, r := range rollups {
		direction := domain.DirectionNone
		switch {
		case r.Rate > bounds.Upper:
			direction = domain.DirectionHigh
		case r.Rate < bounds.Lower:
			direction = domain.DirectionLow
		}

		flags = append(flags, domain.OutlierFlag{
			GroupKey:    r.GroupKey,
			Rate:        r.Rate,
			Impressions: r.Impressions,
			IsOutlier:   direction != domain.DirectionNone,
			Direction:   direction,
			Reliable:    r.Impressions >= cfg.MinReliableImpressions,
		})
	}

	return bounds, flags
}
