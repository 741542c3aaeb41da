package api

import (
	"context"
)

// APIInfo describes the plan and remaining credits of an API key
type APIInfo struct {
	Plan         string `json:"plan"`
	QueryCredits int    `json:"query_credits"`
	ScanCredits  int    `json:"scan_credits"`
	MonitoredIPs int    `json:"monitored_ips"`
	HTTPS        bool   `json:"https"`
	Unlocked     bool   `json:"unlocked"`
	UsageLimits  struct {
		QueryCredits int `json:"query_credits"`
		ScanCredits  int `json:"scan_credits"`
		MonitoredIPs int `json:"monitored_ips"`
	} `json:"usage_limits"`
}

// Info returns plan information for the configured key
func (c *Client) Info(ctx context.Context) (*APIInfo, error) {
	body, err := c.get(ctx, "info", "api-info", c.BaseURL, "/api-info", nil)
	if err != nil {
		return nil, err
	}

	var info APIInfo
	if err := decode("info", "api-info", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
