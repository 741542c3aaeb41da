package output

import (
	"encoding/json"
	"io"

	"github.com/apimgr/hostscout/src/model"
)

// WriteJSONLines writes each record's match object as one JSON line
func WriteJSONLines(w io.Writer, records []model.EnrichedRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec.Match); err != nil {
			return err
		}
	}
	return nil
}
