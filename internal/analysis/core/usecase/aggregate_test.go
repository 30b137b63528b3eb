package usecase

import (
	"testing"

	"ctr-insight-service/internal/analysis/core/domain"
	impdomain "ctr-insight-service/internal/impressions/core/domain"
)

func record(id, group string, click bool, attrs map[string]string) impdomain.ImpressionRecord {
	return impdomain.ImpressionRecord{
		ID:         id,
		GroupKey:   group,
		Click:      click,
		Attributes: attrs,
	}
}

func TestAggregateByKey_ThreeRowSample(t *testing.T) {
	// 3 rows, groups {A,A,B}, clicks {1,0,1}
	records := impdomain.RecordSet{
		record("1", "A", true, nil),
		record("2", "A", false, nil),
		record("3", "B", true, nil),
	}

	overall := overallRollup(records)
	if overall.Impressions != 3 || overall.Clicks != 2 {
		t.Fatalf("expected overall 3/2, got %d/%d", overall.Impressions, overall.Clicks)
	}
	if !closeTo(overall.Rate, 2.0/3.0) {
		t.Fatalf("expected overall rate 0.667, got %v", overall.Rate)
	}

	rollups := aggregateByKey(records, domain.GroupByPrimary)
	if len(rollups) != 2 {
		t.Fatalf("expected 2 rollups, got %d", len(rollups))
	}

	a, b := rollups[0], rollups[1]
	if a.GroupKey != "A" || a.Impressions != 2 || a.Clicks != 1 || !closeTo(a.Rate, 0.5) {
		t.Fatalf("unexpected rollup A: %+v", a)
	}
	if b.GroupKey != "B" || b.Impressions != 1 || b.Clicks != 1 || !closeTo(b.Rate, 1.0) {
		t.Fatalf("unexpected rollup B: %+v", b)
	}
}

func TestAggregateByKey_Conservation(t *testing.T) {
	records := impdomain.RecordSet{
		record("1", "A", true, nil),
		record("2", "B", false, nil),
		record("3", "C", true, nil),
		record("4", "A", true, nil),
		record("5", "B", false, nil),
	}

	overall := overallRollup(records)
	rollups := aggregateByKey(records, domain.GroupByPrimary)

	var impressions, clicks int64
	for _, r := range rollups {
		impressions += r.Impressions
		clicks += r.Clicks
	}

	if impressions != overall.Impressions || impressions != int64(len(records)) {
		t.Fatalf("impression conservation violated: groups=%d overall=%d records=%d",
			impressions, overall.Impressions, len(records))
	}
	if clicks != overall.Clicks {
		t.Fatalf("click conservation violated: groups=%d overall=%d", clicks, overall.Clicks)
	}
}

func TestAggregateByKey_ByAttribute(t *testing.T) {
	records := impdomain.RecordSet{
		record("1", "A", true, map[string]string{"os_version": "latest"}),
		record("2", "B", false, map[string]string{"os_version": "latest"}),
		record("3", "C", true, map[string]string{"os_version": "old"}),
		record("4", "D", false, nil), // no os_version
	}

	rollups := aggregateByKey(records, "os_version")
	if len(rollups) != 3 {
		t.Fatalf("expected 3 rollups, got %d", len(rollups))
	}

	// Sorted by key: "(none)", "latest", "old"
	if rollups[0].GroupKey != domain.AttributeMissing || rollups[0].Impressions != 1 {
		t.Fatalf("records without the attribute must land in %s: %+v", domain.AttributeMissing, rollups[0])
	}
	if rollups[1].GroupKey != "latest" || rollups[1].Impressions != 2 || rollups[1].Clicks != 1 {
		t.Fatalf("unexpected latest rollup: %+v", rollups[1])
	}

	var total int64
	for _, r := range rollups {
		total += r.Impressions
	}
	if total != int64(len(records)) {
		t.Fatalf("attribute grouping must conserve impressions, got %d", total)
	}
}

func TestRateOf_ZeroImpressions(t *testing.T) {
	if r := rateOf(0, 0); r != 0 {
		t.Fatalf("rate of empty group must be 0, got %v", r)
	}
}

func TestAggregateByKey_RateBounds(t *testing.T) {
	records := impdomain.RecordSet{
		record("1", "A", true, nil),
		record("2", "A", true, nil),
		record("3", "B", false, nil),
	}

	for _, r := range aggregateByKey(records, domain.GroupByPrimary) {
		if r.Rate < 0 || r.Rate > 1 {
			t.Fatalf("rate out of [0,1]: %+v", r)
		}
	}
}
