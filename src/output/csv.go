package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/apimgr/hostscout/src/model"
)

// Columns returns the sorted union of field names across records
func Columns(records []model.EnrichedRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec.Match.Fields {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// WriteCSV writes a header and one row per record. Missing fields are
// empty cells and nested values are JSON encoded.
func WriteCSV(w io.Writer, records []model.EnrichedRecord) error {
	cols := Columns(records)
	cw := csv.NewWriter(w)

	if err := cw.Write(cols); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for _, rec := range records {
		for i, col := range cols {
			v, ok := rec.Match.Field(col)
			if !ok {
				row[i] = ""
				continue
			}
			cell, err := csvCell(v)
			if err != nil {
				return err
			}
			row[i] = cell
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
