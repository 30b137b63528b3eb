package usecase

import (
	"errors"
	"strings"
	"time"

	"ctr-insight-service/internal/impressions/core/domain"

	"github.com/spf13/cast"
)

var ErrNoRows = errors.New("no input rows")

// Timestamp layouts accepted besides RFC3339 and unix seconds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CleanRowsUseCase turns loosely typed rows into a validated RecordSet.
// Row-level problems never fail the run; they are counted in the
// CleaningReport and the row is excluded.
type CleanRowsUseCase struct{}

func NewCleanRowsUseCase() *CleanRowsUseCase {
	return &CleanRowsUseCase{}
}

func (uc *CleanRowsUseCase) Execute(rows []domain.RawRow) (domain.RecordSet, domain.CleaningReport, error) {
	if len(rows) == 0 {
		return nil, domain.CleaningReport{}, ErrNoRows
	}

	report := domain.CleaningReport{RowsIn: len(rows)}
	records := make(domain.RecordSet, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		id, okID := stringField(row, domain.FieldID)
		groupKey, okGroup := stringField(row, domain.FieldGroupKey)
		clickRaw, okClick := row[domain.FieldClick]

		if !okID || !okGroup || !okClick {
			report.RowsDroppedMissing++
			continue
		}

		// Duplicate ids keep the first occurrence.
		if _, dup := seen[id]; dup {
			report.RowsDroppedDuplicate++
			continue
		}

		click, err := cast.ToBoolE(clickRaw)
		if err != nil {
			report.RowsDroppedTypeError++
			continue
		}

		ts, err := parseTimestamp(row[domain.FieldTimestamp])
		if err != nil {
			report.RowsDroppedTypeError++
			continue
		}

		seen[id] = struct{}{}
		records = append(records, domain.ImpressionRecord{
			ID:         id,
			Timestamp:  ts,
			UserID:     strings.TrimSpace(cast.ToString(row[domain.FieldUserID])),
			GroupKey:   groupKey,
			Click:      click,
			Attributes: attributesOf(row),
		})
	}

	report.RowsKept = len(records)
	return records, report, nil
}

// stringField reads a required field as a non-empty string.
func stringField(row domain.RawRow, key string) (string, bool) {
	raw, ok := row[key]
	if !ok {
		return "", false
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// parseTimestamp accepts RFC3339 and a few common tabular layouts, plus
// numeric unix seconds. A missing timestamp is valid (zero time); an
// unparseable one is a row type error.
func parseTimestamp(raw any) (time.Time, error) {
	if raw == nil {
		return time.Time{}, nil
	}

	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		sec, err := cast.ToInt64E(s)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(sec, 0).UTC(), nil
	}

	sec, err := cast.ToInt64E(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}

func attributesOf(row domain.RawRow) map[string]string {
	attrs := map[string]string{}
	for key, value := range row {
		switch key {
		case domain.FieldID, domain.FieldGroupKey, domain.FieldClick,
			domain.FieldUserID, domain.FieldTimestamp:
			continue
		}
		attrs[key] = cast.ToString(value)
	}
	return attrs
}
