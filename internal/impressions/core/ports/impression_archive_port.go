package ports

import (
	"context"

	"ctr-insight-service/internal/impressions/core/domain"
)

type ImpressionArchivePort interface {
	// InsertImpression:
	//   created = true,  err = nil  -> new record
	//   created = false, err = nil  -> duplicate id (idempotent)
	//   created = false, err != nil -> storage error
	InsertImpression(ctx context.Context, rec *domain.ImpressionRecord) (created bool, err error)

	// FetchRows replays archived impressions as raw rows so an analysis
	// run can be executed against stored traffic. limit <= 0 fetches all.
	FetchRows(ctx context.Context, limit int) ([]domain.RawRow, error)
}
