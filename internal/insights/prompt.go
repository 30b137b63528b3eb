package insights

import (
	"fmt"
	"strings"

	"ctr-insight-service/internal/analysis/core/domain"
)

const systemPrompt = "You are a marketing analyst. Write concise, factual commentary " +
	"on ad-campaign performance metrics. Do not invent numbers; use only " +
	"the figures provided."

// buildPrompt flattens the result into the figures the model is allowed
// to talk about.
func buildPrompt(result *domain.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Campaign analysis grouped by %q.\n\n", result.GroupBy)
	fmt.Fprintf(&b, "Overall: %d impressions, %d clicks, overall CTR %.4f.\n",
		result.Overall.Impressions, result.Overall.Clicks, result.Overall.Rate)
	fmt.Fprintf(&b, "Across %d groups: mean group CTR %.4f, median %.4f, stddev %.4f, min %.4f, max %.4f.\n",
		result.RateDispersion.Groups, result.RateDispersion.Mean, result.RateDispersion.Median,
		result.RateDispersion.StdDev, result.RateDispersion.Min, result.RateDispersion.Max)

	high := 0
	unreliable := 0
	for _, f := range result.Outliers {
		if f.Direction == domain.DirectionHigh {
			high++
			if !f.Reliable {
				unreliable++
			}
		}
	}
	fmt.Fprintf(&b, "High CTR outliers: %d (%d below the reliability threshold of %d impressions).\n",
		high, unreliable, result.Config.MinReliableImpressions)

	if n := len(result.ByImpressions.Entries); n > 0 {
		fmt.Fprintf(&b, "Top %d groups hold %.1f%% of impressions.\n",
			result.ByImpressions.TopN, result.ByImpressions.TopNShare*100)
	}
	for _, band := range result.VolumeBands {
		fmt.Fprintf(&b, "Volume band %s: %d groups, %.1f%% of impressions.\n",
			band.Label, band.Groups, band.Share*100)
	}

	b.WriteString("\nSummarize performance, call out concentration risk and unreliable outliers.")
	return b.String()
}
