// Package output renders enriched records as text, JSON Lines or CSV.
package output

import (
	"errors"
	"strings"

	"github.com/apimgr/hostscout/src/model"
)

// Format is an output encoding
type Format string

// Supported formats
const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatCSV}

// ParseFormat validates a --output value. Empty means txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", &model.ParseError{What: "output format", Value: s, Err: errFormat}
	}
}

var errFormat = errors.New("must be one of txt, json, csv")
