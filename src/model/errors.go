// Package model defines the records that flow through a hostscout run and
// the error kinds the run can fail with.
package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors wrapped by the typed errors below
var (
	// Credential errors
	ErrMissingAPIKey = errors.New("no API key configured")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Remote errors
	ErrUnauthorized = errors.New("API key rejected")
	ErrNotFound     = errors.New("no information available")
	ErrRateLimited  = errors.New("rate limit exceeded")

	// Query errors
	ErrEmptyQuery = errors.New("query text cannot be empty")
)

// ConfigError reports an unreadable or malformed credential/config file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RemoteCallError reports a failed search, host or exploit call.
type RemoteCallError struct {
	Op      string // search, host, exploits, info
	Target  string // query text or IP
	Status  int    // HTTP status, 0 for transport failures
	Message string // provider error message, if any
	Err     error
}

func (e *RemoteCallError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Target, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Target, msg)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// StatusError maps an HTTP status to the sentinel it should wrap.
func StatusError(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// ParseError reports a malformed user bound or record value.
type ParseError struct {
	What   string // "ip-range", "since", "last_update", "timestamp", "ip_str"
	Value  string
	Record string // IP of the offending record, empty for user bounds
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.What, e.Value)
	if e.Record != "" {
		msg += " on record " + e.Record
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldLookupError reports a sort field missing from a record.
type FieldLookupError struct {
	Field string
	IP    string
}

func (e *FieldLookupError) Error() string {
	return fmt.Sprintf("sort field %q not present on record %s", e.Field, e.IP)
}

// OutputError reports a destination that cannot be written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
