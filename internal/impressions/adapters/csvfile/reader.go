package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"ctr-insight-service/internal/impressions/core/domain"
)

// Header aliases for the common ad-impression export layout, so files
// with impression_id/app_code/is_click columns load without renaming.
var columnAliases = map[string]string{
	"impression_id":   domain.FieldID,
	"app_code":        domain.FieldGroupKey,
	"is_click":        domain.FieldClick,
	"impression_time": domain.FieldTimestamp,
}

// ReadRows loads a headered CSV file into raw rows. All values stay
// strings; type coercion is the cleaner's job.
func ReadRows(path string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readAll(csv.NewReader(f))
}

func readAll(r *csv.Reader) ([]domain.RawRow, error) {
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: missing header row")
	}
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(header))
	for i, col := range header {
		if alias, ok := columnAliases[col]; ok {
			keys[i] = alias
		} else {
			keys[i] = col
		}
	}

	var rows []domain.RawRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(domain.RawRow, len(keys))
		for i, value := range record {
			if i < len(keys) {
				row[keys[i]] = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
