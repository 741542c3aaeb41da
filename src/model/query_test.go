package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseIPRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *IPRange
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"simple", "10-15", &IPRange{10, 15}, false},
		{"spaces", " 1 - 200 ", &IPRange{1, 200}, false},
		{"single octet", "8-8", &IPRange{8, 8}, false},
		{"missing dash", "10", nil, true},
		{"not a number", "a-b", nil, true},
		{"dotted quad", "192.168.1.0-192.168.1.255", nil, true},
		{"reversed", "20-10", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIPRange(tt.input)
			if tt.wantErr {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("ParseIPRange(%q) error = %v, want *ParseError", tt.input, err)
				}
				if pe.Value == "" {
					t.Error("ParseError should carry the offending value")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIPRange(%q) unexpected error: %v", tt.input, err)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseIPRange(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIPRangeContains(t *testing.T) {
	r := IPRange{Low: 10, High: 15}
	for octet, want := range map[int]bool{9: false, 10: true, 12: true, 15: true, 16: false} {
		if got := r.Contains(octet); got != want {
			t.Errorf("Contains(%d) = %v, want %v", octet, got, want)
		}
	}
	if r.String() != "10-15" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestParseSince(t *testing.T) {
	got, err := ParseSince("2022-01-01")
	if err != nil {
		t.Fatalf("ParseSince() error = %v", err)
	}
	if !got.Equal(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseSince() = %v", got)
	}

	if got, err := ParseSince(""); got != nil || err != nil {
		t.Errorf("ParseSince(\"\") = %v, %v; want nil, nil", got, err)
	}

	var pe *ParseError
	if _, err := ParseSince("01/02/2022"); !errors.As(err, &pe) {
		t.Errorf("ParseSince(bad) error = %v, want *ParseError", err)
	}
}

func TestParseRecordTime(t *testing.T) {
	want := time.Date(2023, 5, 4, 12, 30, 0, 123456000, time.UTC)
	for _, s := range []string{
		"2023-05-04T12:30:00.123456Z",
		"2023-05-04T12:30:00.123456",
		"2023-05-04T12:30:00.123456+00:00",
	} {
		got, err := ParseRecordTime(s)
		if err != nil {
			t.Errorf("ParseRecordTime(%q) error = %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseRecordTime(%q) = %v, want %v", s, got, want)
		}
	}

	var pe *ParseError
	if _, err := ParseRecordTime("last tuesday"); !errors.As(err, &pe) || pe.What != "last_update" {
		t.Errorf("ParseRecordTime(bad) error = %v", err)
	}
}

func TestParseSortSpec(t *testing.T) {
	spec, err := ParseSortSpec("")
	if err != nil || spec.Field != DefaultSortField {
		t.Errorf("ParseSortSpec(\"\") = %v, %v", spec, err)
	}

	spec, err = ParseSortSpec("ORG")
	if err != nil || spec.Field != "org" {
		t.Errorf("ParseSortSpec(ORG) = %v, %v", spec, err)
	}

	var pe *ParseError
	if _, err := ParseSortSpec("banner"); !errors.As(err, &pe) {
		t.Errorf("ParseSortSpec(banner) error = %v, want *ParseError", err)
	}
}

func TestFilterSpecActive(t *testing.T) {
	if (FilterSpec{}).Active() {
		t.Error("empty FilterSpec should be inactive")
	}
	if !(FilterSpec{IPRange: &IPRange{1, 2}}).Active() {
		t.Error("FilterSpec with range should be active")
	}
}
