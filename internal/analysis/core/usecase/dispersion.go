package usecase

import (
	"math"
	"sort"

	"ctr-insight-service/internal/analysis/core/domain"
)

// summarizeRates computes dispersion statistics over per-group rates,
// one rate per group regardless of that group's volume.
func summarizeRates(rollups []domain.GroupRollup) domain.DispersionSummary {
	rates := make([]float64, 0, len(rollups))
	for _, r := range rollups {
		rates = append(rates, r.Rate)
	}
	sort.Float64s(rates)

	n := len(rates)
	if n == 0 {
		return domain.DispersionSummary{}
	}

	mean := meanOf(rates)

	return domain.DispersionSummary{
		Groups: n,
		Mean:   mean,
		Median: medianOf(rates),
		StdDev: sampleStdDev(rates, mean),
		Min:    rates[0],
		Max:    rates[n-1],
		Q1:     quantile(rates, 0.25),
		Q3:     quantile(rates, 0.75),
	}
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses ddof=1, matching standard statistical reporting.
// With fewer than two values it returns 0 so every result field stays
// serializable (no NaN on the wire).
func sampleStdDev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// medianOf expects values sorted ascending and averages the two middle
// values for even cardinality.
func medianOf(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// quantile expects values sorted ascending and interpolates linearly at
// position q*(n-1).
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}

	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
