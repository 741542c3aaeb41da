package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/apimgr/hostscout/src/model"
)

// hostResponse is the subset of the host endpoint we read
type hostResponse struct {
	IPStr string        `json:"ip_str"`
	Org   string        `json:"org"`
	OS    *string       `json:"os"`
	SSL   *sslInfo      `json:"ssl"`
	Data  []hostService `json:"data"`
}

type hostService struct {
	Product string   `json:"product"`
	Port    int      `json:"port"`
	SSL     *sslInfo `json:"ssl"`
}

type sslInfo struct {
	Versions []string `json:"versions"`
	Cert     struct {
		Subject struct {
			CN string `json:"CN"`
		} `json:"subject"`
	} `json:"cert"`
}

// summary renders the enabled protocol versions and certificate CN
func (s *sslInfo) summary() string {
	if s == nil {
		return ""
	}

	enabled := make([]string, 0, len(s.Versions))
	for _, v := range s.Versions {
		if !strings.HasPrefix(v, "-") {
			enabled = append(enabled, v)
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(enabled, ", "))
	if cn := s.Cert.Subject.CN; cn != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("(CN=" + cn + ")")
	}
	if sb.Len() == 0 {
		return "Enabled"
	}
	return sb.String()
}

// Host fetches extended details for one IP address
func (c *Client) Host(ctx context.Context, ip string) (*model.HostDetail, error) {
	body, err := c.get(ctx, "host", ip, c.BaseURL, "/shodan/host/"+url.PathEscape(ip), nil)
	if err != nil {
		return nil, err
	}

	var resp hostResponse
	if err := decode("host", ip, body, &resp); err != nil {
		return nil, err
	}

	detail := &model.HostDetail{
		IP:  ip,
		Org: resp.Org,
	}
	if resp.OS != nil {
		detail.OS = *resp.OS
	}

	detail.SSL = resp.SSL.summary()
	for _, svc := range resp.Data {
		if detail.Product == "" && svc.Product != "" {
			detail.Product = svc.Product
		}
		if detail.SSL == "" && svc.SSL != nil {
			detail.SSL = svc.SSL.summary()
		}
	}

	return detail, nil
}

// exploitsResponse is the exploit search response
type exploitsResponse struct {
	Matches []struct {
		ID          json.RawMessage `json:"_id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		CVE         []string        `json:"cve"`
		Source      string          `json:"source"`
	} `json:"matches"`
	Total int `json:"total"`
}

// Exploits searches the exploit database for records tied to ip
func (c *Client) Exploits(ctx context.Context, ip string) ([]model.ExploitRecord, error) {
	params := url.Values{}
	params.Set("query", ip)

	body, err := c.get(ctx, "exploits", ip, c.ExploitsURL, "/api/search", params)
	if err != nil {
		return nil, err
	}

	var resp exploitsResponse
	if err := decode("exploits", ip, body, &resp); err != nil {
		return nil, err
	}

	records := make([]model.ExploitRecord, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			title, _, _ = strings.Cut(strings.TrimSpace(m.Description), "\n")
			title = strings.TrimSpace(title)
		}
		records = append(records, model.ExploitRecord{
			Title: title,
			CVE:   strings.Join(m.CVE, ", "),
		})
	}
	return records, nil
}
