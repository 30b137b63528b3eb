package usecase

import (
	"sort"

	"ctr-insight-service/internal/analysis/core/domain"
	impdomain "ctr-insight-service/internal/impressions/core/domain"
)

func overallRollup(records impdomain.RecordSet) domain.GroupRollup {
	var clicks int64
	for _, rec := range records {
		if rec.Click {
			clicks++
		}
	}
	impressions := int64(len(records))

	return domain.GroupRollup{
		Impressions: impressions,
		Clicks:      clicks,
		Rate:        rateOf(clicks, impressions),
	}
}

// aggregateByKey rolls records up per distinct group value. The result
// is sorted by group key so no map iteration order leaks downstream.
func aggregateByKey(records impdomain.RecordSet, groupBy string) []domain.GroupRollup {
	byKey := make(map[string]*domain.GroupRollup)

	for _, rec := range records {
		key := groupValue(rec, groupBy)
		rollup, ok := byKey[key]
		if !ok {
			rollup = &domain.GroupRollup{GroupKey: key}
			byKey[key] = rollup
		}
		rollup.Impressions++
		if rec.Click {
			rollup.Clicks++
		}
	}

	rollups := make([]domain.GroupRollup, 0, len(byKey))
	for _, rollup := range byKey {
		rollup.Rate = rateOf(rollup.Clicks, rollup.Impressions)
		rollups = append(rollups, *rollup)
	}

	sort.Slice(rollups, func(i, j int) bool {
		return rollups[i].GroupKey < rollups[j].GroupKey
	})

	return rollups
}

func groupValue(rec impdomain.ImpressionRecord, groupBy string) string {
	if groupBy == domain.GroupByPrimary {
		return rec.GroupKey
	}
	if v, ok := rec.Attributes[groupBy]; ok && v != "" {
		return v
	}
	return domain.AttributeMissing
}

// rateOf defines the zero-impression rate as 0 so ranking and outlier
// math never special-case empty groups.
func rateOf(clicks, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(clicks) / float64(impressions)
}
