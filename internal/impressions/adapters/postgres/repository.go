package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"ctr-insight-service/internal/impressions/core/domain"
	"ctr-insight-service/internal/impressions/core/ports"

	"github.com/jmoiron/sqlx"
)

type ImpressionRepository struct {
	db *sqlx.DB
}

func NewImpressionRepository(db *sqlx.DB) *ImpressionRepository {
	return &ImpressionRepository{db: db}
}

var _ ports.ImpressionArchivePort = (*ImpressionRepository)(nil)

const insertImpressionSQL = `
INSERT INTO impressions (
    id,
    group_key,
    user_id,
    impression_time,
    click,
    attributes
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING;
`

func (r *ImpressionRepository) InsertImpression(ctx context.Context, rec *domain.ImpressionRecord) (bool, error) {
	attrsJSON, err := json.Marshal(rec.Attributes)
	if err != nil {
		return false, err
	}

	var userID any
	if rec.UserID != "" {
		userID = rec.UserID
	}

	res, err := r.db.ExecContext(ctx, insertImpressionSQL,
		rec.ID,
		rec.GroupKey,
		userID,
		rec.Timestamp,
		rec.Click,
		attrsJSON,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 0 means the id already existed (ON CONFLICT DO NOTHING).
	return rows > 0, nil
}

const fetchImpressionsSQL = `
SELECT id, group_key, user_id, impression_time, click, attributes
FROM impressions
ORDER BY id
`

type impressionRow struct {
	ID             string         `db:"id"`
	GroupKey       string         `db:"group_key"`
	UserID         sql.NullString `db:"user_id"`
	ImpressionTime time.Time      `db:"impression_time"`
	Click          bool           `db:"click"`
	Attributes     []byte         `db:"attributes"`
}

func (r *ImpressionRepository) FetchRows(ctx context.Context, limit int) ([]domain.RawRow, error) {
	query := fetchImpressionsSQL
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var stored []impressionRow
	if err := r.db.SelectContext(ctx, &stored, query, args...); err != nil {
		return nil, err
	}

	rows := make([]domain.RawRow, 0, len(stored))
	for i := range stored {
		row, err := rowToRaw(&stored[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func rowToRaw(stored *impressionRow) (domain.RawRow, error) {
	row := domain.RawRow{
		domain.FieldID:        stored.ID,
		domain.FieldGroupKey:  stored.GroupKey,
		domain.FieldClick:     stored.Click,
		domain.FieldTimestamp: stored.ImpressionTime.UTC().Format(time.RFC3339),
	}
	if stored.UserID.Valid {
		row[domain.FieldUserID] = stored.UserID.String
	}

	if len(stored.Attributes) > 0 {
		attrs := map[string]string{}
		if err := json.Unmarshal(stored.Attributes, &attrs); err != nil {
			return nil, err
		}
		for k, v := range attrs {
			row[k] = v
		}
	}

	return row, nil
}
