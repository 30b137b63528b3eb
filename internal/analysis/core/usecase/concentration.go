package usecase

import (
	"fmt"
	"sort"

	"ctr-insight-service/internal/analysis/core/domain"
)

const (
	MetricImpressions = "impressions"
	MetricClicks      = "clicks"
)

// rankBy produces the full descending ranking of groups by one metric
// with cumulative shares. Equal values tie-break on group key ascending
// so the output is deterministic.
func rankBy(rollups []domain.GroupRollup, metric string, topN int) domain.ConcentrationReport {
	ranked := make([]domain.GroupRollup, len(rollups))
	copy(ranked, rollups)

	value := func(r domain.GroupRollup) int64 {
		if metric == MetricClicks {
			return r.Clicks
		}
		return r.Impressions
	}

	sort.Slice(ranked, func(i, j int) bool {
		vi, vj := value(ranked[i]), value(ranked[j])
		if vi != vj {
			return vi > vj
		}
		return ranked[i].GroupKey < ranked[j].GroupKey
	})

	var total int64
	for _, r := range ranked {
		total += value(r)
	}

	report := domain.ConcentrationReport{
		Metric:  metric,
		Total:   total,
		TopN:    topN,
		Entries: make([]domain.ConcentrationEntry, 0, len(ranked)),
	}

	var cumulative int64
	for i, r := range ranked {
		v := value(r)
		cumulative += v

		entry := domain.ConcentrationEntry{
			GroupKey: r.GroupKey,
			Value:    v,
		}
		if total > 0 {
			entry.Share = float64(v) / float64(total)
			entry.CumulativeShare = float64(cumulative) / float64(total)
		}
		report.Entries = append(report.Entries, entry)

		if i == topN-1 || (i == len(ranked)-1 && len(ranked) < topN) {
			report.TopNShare = entry.CumulativeShare
		}
	}

	return report
}

// bucketByVolume partitions groups into impression-volume bands defined
// by strictly descending thresholds, e.g. [1000, 100] yields the bands
// ">=1000", "100-999" and "<100".
func bucketByVolume(rollups []domain.GroupRollup, thresholds []int64) []domain.VolumeBand {
	bands := make([]domain.VolumeBand, 0, len(thresholds)+1)
	for i, t := range thresholds {
		var label string
		if i == 0 {
			label = fmt.Sprintf(">=%d", t)
		} else {
			label = fmt.Sprintf("%d-%d", t, thresholds[i-1]-1)
		}
		bands = append(bands, domain.VolumeBand{Label: label, MinImpressions: t})
	}
	bands = append(bands, domain.VolumeBand{
		Label:          fmt.Sprintf("<%d", thresholds[len(thresholds)-1]),
		MinImpressions: 0,
	})

	var total int64
	for _, r := range rollups {
		total += r.Impressions
		for i := range bands {
			if r.Impressions >= bands[i].MinImpressions {
				bands[i].Groups++
				bands[i].Impressions += r.Impressions
				break
			}
		}
	}

	if total > 0 {
		for i := range bands {
			bands[i].Share = float64(bands[i].Impressions) / float64(total)
		}
	}

	return bands
}
