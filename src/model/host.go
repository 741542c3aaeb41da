package model

// Unknown is rendered for any host attribute the provider did not return.
const Unknown = "Unknown"

// HostDetail is the extended information for one IP address.
type HostDetail struct {
	IP      string `json:"ip"`
	Org     string `json:"org,omitempty"`
	OS      string `json:"os,omitempty"`
	SSL     string `json:"ssl,omitempty"`
	Product string `json:"product,omitempty"`
}

// OSOrUnknown returns OS or the Unknown placeholder
func (h *HostDetail) OSOrUnknown() string {
	if h == nil {
		return Unknown
	}
	return orUnknown(h.OS)
}

// SSLOrUnknown returns SSL or the Unknown placeholder
func (h *HostDetail) SSLOrUnknown() string {
	if h == nil {
		return Unknown
	}
	return orUnknown(h.SSL)
}

// ProductOrUnknown returns Product or the Unknown placeholder
func (h *HostDetail) ProductOrUnknown() string {
	if h == nil {
		return Unknown
	}
	return orUnknown(h.Product)
}

// ExploitRecord is a known vulnerability associated with a host.
type ExploitRecord struct {
	Title string `json:"title"`
	CVE   string `json:"cve"`
}

// EnrichedRecord is a match plus whatever enrichment succeeded for it.
// HostErr and ExploitErr hold per-record lookup failures.
type EnrichedRecord struct {
	Match      MatchRecord
	Host       *HostDetail
	Exploits   []ExploitRecord
	HostErr    error
	ExploitErr error
}

// DisplayOrg picks the org for the record header: host detail first,
// then the match itself.
func (e EnrichedRecord) DisplayOrg() string {
	if e.Host != nil && e.Host.Org != "" {
		return e.Host.Org
	}
	return orUnknown(e.Match.Org())
}

// Failed reports whether any lookup for this record failed.
func (e EnrichedRecord) Failed() bool {
	return e.HostErr != nil || e.ExploitErr != nil
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
