package fiber

import (
	"time"

	"ctr-insight-service/internal/analysis/core/domain"
)

type AnalysisConfigRequest struct {
	GroupBy                string   `json:"group_by,omitempty"`
	MinReliableImpressions *int64   `json:"min_reliable_impressions,omitempty"`
	TopN                   *int     `json:"top_n,omitempty"`
	IQRMultiplier          *float64 `json:"iqr_multiplier,omitempty"`
	VolumeBands            []int64  `json:"volume_bands,omitempty"`
}

type RunAnalysisRequest struct {
	// Source selects where rows come from: "inline" (default, rows in
	// the body) or "archive" (replay the impression archive).
	Source string                 `json:"source,omitempty"`
	Rows   []map[string]any       `json:"rows,omitempty"`
	Limit  int                    `json:"limit,omitempty"`
	Config *AnalysisConfigRequest `json:"config,omitempty"`
}

type CleaningReportResponse struct {
	RowsIn               int `json:"rows_in"`
	RowsDroppedMissing   int `json:"rows_dropped_missing"`
	RowsDroppedDuplicate int `json:"rows_dropped_duplicate"`
	RowsDroppedTypeError int `json:"rows_dropped_type_error"`
	RowsKept             int `json:"rows_kept"`
}

type GroupRollupResponse struct {
	GroupKey    string  `json:"group_key"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

type OverallResponse struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	OverallCTR  float64 `json:"overall_ctr"`
}

type DispersionResponse struct {
	Groups       int     `json:"groups"`
	MeanGroupCTR float64 `json:"mean_group_ctr"`
	MedianCTR    float64 `json:"median_ctr"`
	StdDevCTR    float64 `json:"std_dev_ctr"`
	MinCTR       float64 `json:"min_ctr"`
	MaxCTR       float64 `json:"max_ctr"`
	Q1           float64 `json:"q1"`
	Q3           float64 `json:"q3"`
}

type OutlierBoundsResponse struct {
	Lower        float64 `json:"lower"`
	Upper        float64 `json:"upper"`
	LowerClamped bool    `json:"lower_clamped"`
}

type OutlierFlagResponse struct {
	GroupKey    string  `json:"group_key"`
	CTR         float64 `json:"ctr"`
	Impressions int64   `json:"impressions"`
	IsOutlier   bool    `json:"is_outlier"`
	Direction   string  `json:"direction"`
	Reliable    bool    `json:"reliable"`
}

type ConcentrationEntryResponse struct {
	GroupKey        string  `json:"group_key"`
	Value           int64   `json:"value"`
	Share           float64 `json:"share"`
	CumulativeShare float64 `json:"cumulative_share"`
}

type ConcentrationResponse struct {
	Metric    string                       `json:"metric"`
	Total     int64                        `json:"total"`
	TopN      int                          `json:"top_n"`
	TopNShare float64                      `json:"top_n_share"`
	Entries   []ConcentrationEntryResponse `json:"entries"`
}

type VolumeBandResponse struct {
	Label          string  `json:"label"`
	MinImpressions int64   `json:"min_impressions"`
	Groups         int     `json:"groups"`
	Impressions    int64   `json:"impressions"`
	Share          float64 `json:"share"`
}

type AnalysisResponse struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	GroupBy     string    `json:"group_by"`

	Cleaning CleaningReportResponse `json:"cleaning"`

	Overall        OverallResponse       `json:"overall"`
	GroupRollups   []GroupRollupResponse `json:"group_rollups"`
	RateDispersion DispersionResponse    `json:"rate_dispersion"`
	OutlierBounds  OutlierBoundsResponse `json:"outlier_bounds"`
	Outliers       []OutlierFlagResponse `json:"outliers"`
	ByImpressions  ConcentrationResponse `json:"by_impressions"`
	ByClicks       ConcentrationResponse `json:"by_clicks"`
	VolumeBands    []VolumeBandResponse  `json:"volume_bands"`
}

type NarrativeResponse struct {
	RunID     string `json:"run_id"`
	Narrative string `json:"narrative"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_config"`
	Message string `json:"message,omitempty" example:"top_n must be positive"`
}

func toAnalysisResponse(res *domain.AnalysisResult) AnalysisResponse {
	resp := AnalysisResponse{
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt,
		GroupBy:     res.GroupBy,
		Cleaning: CleaningReportResponse{
			RowsIn:               res.Cleaning.RowsIn,
			RowsDroppedMissing:   res.Cleaning.RowsDroppedMissing,
			RowsDroppedDuplicate: res.Cleaning.RowsDroppedDuplicate,
			RowsDroppedTypeError: res.Cleaning.RowsDroppedTypeError,
			RowsKept:             res.Cleaning.RowsKept,
		},
		Overall: OverallResponse{
			Impressions: res.Overall.Impressions,
			Clicks:      res.Overall.Clicks,
			OverallCTR:  res.Overall.Rate,
		},
		RateDispersion: DispersionResponse{
			Groups:       res.RateDispersion.Groups,
			MeanGroupCTR: res.RateDispersion.Mean,
			MedianCTR:    res.RateDispersion.Median,
			StdDevCTR:    res.RateDispersion.StdDev,
			MinCTR:       res.RateDispersion.Min,
			MaxCTR:       res.RateDispersion.Max,
			Q1:           res.RateDispersion.Q1,
			Q3:           res.RateDispersion.Q3,
		},
		OutlierBounds: OutlierBoundsResponse{
			Lower:        res.OutlierBounds.Lower,
			Upper:        res.OutlierBounds.Upper,
			LowerClamped: res.OutlierBounds.LowerClamped,
		},
		ByImpressions: toConcentrationResponse(res.ByImpressions),
		ByClicks:      toConcentrationResponse(res.ByClicks),
	}

	resp.GroupRollups = make([]GroupRollupResponse, 0, len(res.Rollups))
	for _, r := range res.Rollups {
		resp.GroupRollups = append(resp.GroupRollups, GroupRollupResponse{
			GroupKey:    r.GroupKey,
			Impressions: r.Impressions,
			Clicks:      r.Clicks,
			CTR:         r.Rate,
		})
	}

	resp.Outliers = make([]OutlierFlagResponse, 0, len(res.Outliers))
	for _, f := range res.Outliers {
		resp.Outliers = append(resp.Outliers, OutlierFlagResponse{
			GroupKey:    f.GroupKey,
			CTR:         f.Rate,
			Impressions: f.Impressions,
			IsOutlier:   f.IsOutlier,
			Direction:   string(f.Direction),
			Reliable:    f.Reliable,
		})
	}

	resp.VolumeBands = make([]VolumeBandResponse, 0, len(res.VolumeBands))
	for _, b := range res.VolumeBands {
		resp.VolumeBands = append(resp.VolumeBands, VolumeBandResponse{
			Label:          b.Label,
			MinImpressions: b.MinImpressions,
			Groups:         b.Groups,
			Impressions:    b.Impressions,
			Share:          b.Share,
		})
	}

	return resp
}

func toConcentrationResponse(report domain.ConcentrationReport) ConcentrationResponse {
	resp := ConcentrationResponse{
		Metric:    report.Metric,
		Total:     report.Total,
		TopN:      report.TopN,
		TopNShare: report.TopNShare,
		Entries:   make([]ConcentrationEntryResponse, 0, len(report.Entries)),
	}
	for _, e := range report.Entries {
		resp.Entries = append(resp.Entries, ConcentrationEntryResponse{
			GroupKey:        e.GroupKey,
			Value:           e.Value,
			Share:           e.Share,
			CumulativeShare: e.CumulativeShare,
		})
	}
	return resp
}
