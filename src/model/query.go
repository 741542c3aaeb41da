package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SinceLayout is the accepted format of the --since bound
const SinceLayout = "2006-01-02"

// recordLayouts are tried in order when parsing a record's last_update
var recordLayouts = []string{
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
}

// IPRange bounds the first octet of an IPv4 address, inclusive.
type IPRange struct {
	Low  int
	High int
}

// Contains reports whether octet lies within the range.
func (r IPRange) Contains(octet int) bool {
	return octet >= r.Low && octet <= r.High
}

func (r IPRange) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// FilterSpec narrows a set of matches. Nil bounds impose no constraint.
type FilterSpec struct {
	IPRange *IPRange
	Since   *time.Time
}

// Active reports whether any bound is set.
func (f FilterSpec) Active() bool {
	return f.IPRange != nil || f.Since != nil
}

// ParseIPRange parses "low-high" into a first-octet range.
// An empty string yields a nil range.
func ParseIPRange(s string) (*IPRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return nil, &ParseError{What: "ip-range", Value: s, Err: fmt.Errorf("expected low-high")}
	}

	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, &ParseError{What: "ip-range", Value: s, Err: err}
	}
	high, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, &ParseError{What: "ip-range", Value: s, Err: err}
	}
	if low > high {
		return nil, &ParseError{What: "ip-range", Value: s, Err: fmt.Errorf("low bound %d above high bound %d", low, high)}
	}

	return &IPRange{Low: low, High: high}, nil
}

// ParseSince parses a YYYY-MM-DD bound. An empty string yields nil.
func ParseSince(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(SinceLayout, s)
	if err != nil {
		return nil, &ParseError{What: "since", Value: s, Err: err}
	}
	return &t, nil
}

// ParseRecordTime parses a record's last_update value.
func ParseRecordTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range recordLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &ParseError{What: "last_update", Value: s, Err: lastErr}
}

// SortFields lists the fields a run may be ordered by
var SortFields = []string{"ip", "ip_str", "org", "os", "port", "isp", "asn", "timestamp", "last_update"}

// DefaultSortField is used when no --sort is given
const DefaultSortField = "ip"

// SortSpec orders matches by Field, always descending.
type SortSpec struct {
	Field string
}

// ParseSortSpec validates a field name against SortFields.
func ParseSortSpec(field string) (SortSpec, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return SortSpec{Field: DefaultSortField}, nil
	}
	for _, f := range SortFields {
		if f == field {
			return SortSpec{Field: field}, nil
		}
	}
	return SortSpec{}, &ParseError{
		What:  "sort field",
		Value: field,
		Err:   fmt.Errorf("must be one of %s", strings.Join(SortFields, ", ")),
	}
}
