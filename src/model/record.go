package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MatchRecord is one search hit as returned by the provider.
// Fields keeps every provider key; numbers are json.Number.
type MatchRecord struct {
	Fields map[string]any
}

// NewMatchRecord builds a record from an already decoded field map.
func NewMatchRecord(fields map[string]any) MatchRecord {
	if fields == nil {
		fields = map[string]any{}
	}
	return MatchRecord{Fields: fields}
}

// UnmarshalJSON decodes a provider object keeping numbers exact
func (m *MatchRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	fields := map[string]any{}
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("decode match: %w", err)
	}
	m.Fields = fields
	return nil
}

// MarshalJSON encodes the record back to the provider object
func (m MatchRecord) MarshalJSON() ([]byte, error) {
	if m.Fields == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m.Fields); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Field returns the raw value stored under name.
func (m MatchRecord) Field(name string) (any, bool) {
	v, ok := m.Fields[name]
	return v, ok
}

// IP returns the dotted-quad (or IPv6) address text.
func (m MatchRecord) IP() string {
	return m.str("ip_str")
}

// Org returns the organization name, empty if absent.
func (m MatchRecord) Org() string {
	return m.str("org")
}

// LastUpdate returns the raw last-update timestamp text.
func (m MatchRecord) LastUpdate() (string, bool) {
	v, ok := m.Fields["last_update"]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// LastSeen returns the record's last-seen time text and the field it
// came from: last_update when present, otherwise timestamp.
func (m MatchRecord) LastSeen() (field, value string, ok bool) {
	if v, ok := m.LastUpdate(); ok {
		return "last_update", v, true
	}
	if s, ok := m.Fields["timestamp"].(string); ok {
		return "timestamp", s, true
	}
	return "", "", false
}

// Keys returns the record's field names in sorted order.
func (m MatchRecord) Keys() []string {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m MatchRecord) str(key string) string {
	if s, ok := m.Fields[key].(string); ok {
		return s
	}
	return ""
}
