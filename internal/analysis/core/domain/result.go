package domain

import (
	"time"

	impdomain "ctr-insight-service/internal/impressions/core/domain"
)

// GroupByPrimary selects the record's own group key (the app/channel
// code). Any other group_by value selects a categorical attribute.
const GroupByPrimary = "group_key"

// AttributeMissing is the bucket for records that lack the attribute an
// analysis groups by, so conservation over groups still holds.
const AttributeMissing = "(none)"

// GroupRollup is the per-group KPI set. Rate is clicks/impressions as a
// fraction in [0,1]; a zero-impression group has rate 0 by definition.
type GroupRollup struct {
	GroupKey    string
	Impressions int64
	Clicks      int64
	Rate        float64
}

// DispersionSummary describes the spread of per-group rates, one rate
// per group regardless of volume. Mean here is the unweighted mean of
// group rates and is deliberately distinct from the overall
// (impression-weighted) rate.
type DispersionSummary struct {
	Groups int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	Q1     float64
	Q3     float64
}

type OutlierDirection string

const (
	DirectionHigh OutlierDirection = "high"
	DirectionLow  OutlierDirection = "low"
	DirectionNone OutlierDirection = "none"
)

// OutlierBounds are the applied IQR fences. LowerClamped records that
// the lower fence was raised to the metric floor (0 for rates).
type OutlierBounds struct {
	Lower        float64
	Upper        float64
	LowerClamped bool
}

// OutlierFlag keeps outlier status and reliability separate: a caller
// must be able to tell "statistically extreme" from "extreme but
// low-confidence".
type OutlierFlag struct {
	GroupKey    string
	Rate        float64
	Impressions int64
	IsOutlier   bool
	Direction   OutlierDirection
	Reliable    bool
}

type ConcentrationEntry struct {
	GroupKey        string
	Value           int64
	Share           float64
	CumulativeShare float64
}

// ConcentrationReport ranks all groups descending by one metric, ties
// broken by group key ascending. Entries carry cumulative shares over
// the full ranking; TopNShare is the cumulative share of the first
// TopN entries.
type ConcentrationReport struct {
	Metric    string
	Total     int64
	TopN      int
	TopNShare float64
	Entries   []ConcentrationEntry
}

// VolumeBand is one impression-volume bucket. MinImpressions is the
// inclusive lower bound; the last band has 0.
type VolumeBand struct {
	Label          string
	MinImpressions int64
	Groups         int
	Impressions    int64
	Share          float64
}

// RunConfig carries the caller-tunable analysis parameters. Zero values
// mean "use the default"; validation happens before any record is
// touched.
type RunConfig struct {
	GroupBy                string
	MinReliableImpressions int64
	TopN                   int
	IQRMultiplier          float64
	VolumeBands            []int64
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		GroupBy:                GroupByPrimary,
		MinReliableImpressions: 10,
		TopN:                   10,
		IQRMultiplier:          1.5,
		VolumeBands:            []int64{1000, 100},
	}
}

// AnalysisResult is the single artifact handed to collaborators. Plain
// data, native numerics, every slice deterministically ordered.
type AnalysisResult struct {
	RunID       string
	GeneratedAt time.Time
	GroupBy     string
	Config      RunConfig

	Cleaning impdomain.CleaningReport

	Overall        GroupRollup
	Rollups        []GroupRollup
	RateDispersion DispersionSummary
	OutlierBounds  OutlierBounds
	Outliers       []OutlierFlag
	ByImpressions  ConcentrationReport
	ByClicks       ConcentrationReport
	VolumeBands    []VolumeBand
}
