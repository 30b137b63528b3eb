package domain

import "time"

// Reserved raw-row keys. Everything else on a RawRow is treated as an
// opaque categorical attribute and passed through to the record.
const (
	FieldID        = "id"
	FieldGroupKey  = "group_key"
	FieldClick     = "click"
	FieldUserID    = "user_id"
	FieldTimestamp = "timestamp"
)

// RawRow is a loosely typed input row as delivered by an ingestion
// adapter (HTTP body, CSV reader, archive replay). Field presence is not
// guaranteed; the cleaner decides what survives.
type RawRow map[string]any

// ImpressionRecord is a single validated ad-display event. Immutable
// once it has passed cleaning.
type ImpressionRecord struct {
	ID         string
	Timestamp  time.Time
	UserID     string
	GroupKey   string
	Click      bool
	Attributes map[string]string
}

// RecordSet keeps records in ingestion order. It is owned by a single
// analysis run and never shared across runs.
type RecordSet []ImpressionRecord

// CleaningReport accounts for every row that went in. Invariant:
// RowsIn = RowsKept + RowsDroppedMissing + RowsDroppedDuplicate + RowsDroppedTypeError.
type CleaningReport struct {
	RowsIn               int
	RowsDroppedMissing   int
	RowsDroppedDuplicate int
	RowsDroppedTypeError int
	RowsKept             int
}
