package insights

import (
	"context"
	"fmt"
	"strings"

	"ctr-insight-service/internal/analysis/core/domain"
	"ctr-insight-service/internal/analysis/core/ports"
)

// FallbackGenerator produces a deterministic plain-text narrative from
// the result alone. Used when no LLM endpoint is configured and by the
// CLI, so the service never depends on network access to describe a run.
type FallbackGenerator struct{}

var _ ports.NarrativeGeneratorPort = (*FallbackGenerator)(nil)

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

func (g *FallbackGenerator) Generate(_ context.Context, result *domain.AnalysisResult) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyzed %d impressions across %d groups (grouped by %s).\n",
		result.Overall.Impressions, len(result.Rollups), result.GroupBy)
	fmt.Fprintf(&b, "Overall CTR is %.4f; the unweighted mean group CTR is %.4f (median %.4f, stddev %.4f).\n",
		result.Overall.Rate, result.RateDispersion.Mean,
		result.RateDispersion.Median, result.RateDispersion.StdDev)

	var high []string
	for _, f := range result.Outliers {
		if f.Direction != domain.DirectionHigh {
			continue
		}
		note := f.GroupKey
		if !f.Reliable {
			note += " (low volume)"
		}
		high = append(high, note)
	}
	if len(high) > 0 {
		fmt.Fprintf(&b, "Unusually high CTR in %d group(s): %s.\n", len(high), strings.Join(high, ", "))
	} else {
		b.WriteString("No group stands out as a CTR outlier.\n")
	}

	if len(result.ByImpressions.Entries) > 0 {
		top := result.ByImpressions.Entries[0]
		fmt.Fprintf(&b, "Volume is led by group %s with %.1f%% of all impressions; the top %d groups account for %.1f%%.\n",
			top.GroupKey, top.Share*100, result.ByImpressions.TopN, result.ByImpressions.TopNShare*100)
	}

	fmt.Fprintf(&b, "Cleaning kept %d of %d rows (%d missing-field, %d duplicate, %d type-error drops).",
		result.Cleaning.RowsKept, result.Cleaning.RowsIn,
		result.Cleaning.RowsDroppedMissing, result.Cleaning.RowsDroppedDuplicate,
		result.Cleaning.RowsDroppedTypeError)

	return b.String(), nil
}
