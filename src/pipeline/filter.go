// Package pipeline implements the filter, sort and enrichment stages that
// sit between a search call and the output writers.
package pipeline

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/apimgr/hostscout/src/model"
)

// Filter returns the matches that satisfy every active bound in spec,
// keeping their relative order. A record whose ip_str or last-seen time
// cannot be parsed fails the whole call. The last-seen time is
// last_update, falling back to timestamp.
func Filter(matches []model.MatchRecord, spec model.FilterSpec) ([]model.MatchRecord, error) {
	if !spec.Active() {
		return matches, nil
	}

	filtered := make([]model.MatchRecord, 0, len(matches))

	for _, m := range matches {
		// IP range filter (first octet only)
		if spec.IPRange != nil {
			octet, ok, err := firstOctet(m.IP())
			if err != nil {
				return nil, err
			}
			if !ok || !spec.IPRange.Contains(octet) {
				continue
			}
		}

		// Last-seen filter
		if spec.Since != nil {
			field, raw, ok := m.LastSeen()
			if !ok {
				return nil, &model.ParseError{
					What:   "last_update",
					Record: m.IP(),
					Err:    fmt.Errorf("record has no last_update or timestamp"),
				}
			}
			seen, err := model.ParseRecordTime(raw)
			if err != nil {
				var pe *model.ParseError
				if errors.As(err, &pe) {
					pe.What = field
					pe.Record = m.IP()
				}
				return nil, err
			}
			if seen.Before(*spec.Since) {
				continue
			}
		}

		filtered = append(filtered, m)
	}

	return filtered, nil
}

// firstOctet returns the leading octet of an IPv4 address. IPv6
// addresses report ok=false; unparseable text is a ParseError.
func firstOctet(ip string) (int, bool, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return 0, false, &model.ParseError{What: "ip_str", Value: ip, Err: err}
	}
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	if !addr.Is4() {
		return 0, false, nil
	}
	return int(addr.As4()[0]), true, nil
}
