package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/apimgr/hostscout/src/model"
)

// Sort returns a new slice ordered by spec.Field, highest first. Equal
// values keep their input order. Every record must carry the field.
func Sort(matches []model.MatchRecord, spec model.SortSpec) ([]model.MatchRecord, error) {
	for _, m := range matches {
		if _, ok := m.Field(spec.Field); !ok {
			return nil, &model.FieldLookupError{Field: spec.Field, IP: m.IP()}
		}
	}

	sorted := make([]model.MatchRecord, len(matches))
	copy(sorted, matches)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := sorted[i].Field(spec.Field)
		b, _ := sorted[j].Field(spec.Field)
		return compareValues(a, b) > 0
	})

	return sorted, nil
}

// value ranks for mixed-type comparisons
const (
	rankNull = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

// compareValues orders two decoded JSON values: numbers numerically,
// strings lexically, and mismatched types by rank.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}

	switch ra {
	case rankNull:
		return 0
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case ba:
			return 1
		default:
			return -1
		}
	case rankNumber:
		return compareNumbers(a, b)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return rankNull
	case bool:
		return rankBool
	case json.Number, float64, float32, int, int64, int32, uint32, uint64:
		return rankNumber
	case string:
		return rankString
	default:
		return rankOther
	}
}

func compareNumbers(a, b any) int {
	// Integers compare exactly; anything else falls back to float64
	if ia, ok := asInt(a); ok {
		if ib, ok := asInt(b); ok {
			switch {
			case ia > ib:
				return 1
			case ia < ib:
				return -1
			default:
				return 0
			}
		}
	}

	fa, fb := asFloat(a), asFloat(b)
	switch {
	case fa > fb:
		return 1
	case fa < fb:
		return -1
	default:
		return 0
	}
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
