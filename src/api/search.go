package api

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/apimgr/hostscout/src/cache"
	"github.com/apimgr/hostscout/src/model"
)

// Query is one search request. The filter fields are passed through to
// the provider as query filters.
type Query struct {
	Text  string
	Page  int
	Limit int // page size; the provider pages at 100 so this is applied client side

	Country string
	Port    int
	OS      string
	SSL     string
	Banner  string
}

// Compose returns the provider query string with filters appended.
func (q Query) Compose() string {
	parts := []string{strings.TrimSpace(q.Text)}

	if q.Country != "" {
		parts = append(parts, "country:"+quoteFilter(strings.ToUpper(q.Country)))
	}
	if q.Port > 0 {
		parts = append(parts, "port:"+strconv.Itoa(q.Port))
	}
	if q.OS != "" {
		parts = append(parts, "os:"+quoteFilter(q.OS))
	}
	if q.SSL != "" {
		parts = append(parts, "ssl:"+quoteFilter(q.SSL))
	}
	if q.Banner != "" {
		parts = append(parts, quoteFilter(q.Banner))
	}

	return strings.Join(parts, " ")
}

// quoteFilter quotes filter values containing spaces
func quoteFilter(v string) string {
	if strings.ContainsAny(v, " \t") {
		return strconv.Quote(v)
	}
	return v
}

// SearchResponse represents the provider search response
type SearchResponse struct {
	Matches []model.MatchRecord `json:"matches"`
	Total   int                 `json:"total"`
}

// Search performs one search request
func (c *Client) Search(ctx context.Context, q Query) (*SearchResponse, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, model.ErrEmptyQuery
	}
	text := q.Compose()

	page := q.Page
	if page < 1 {
		page = 1
	}

	// Key parts are hashed, so the API key never reaches the cache in clear
	key := cache.Key("search", c.BaseURL, c.Key, text, strconv.Itoa(page))
	if c.Cache != nil {
		var cached SearchResponse
		err := cache.GetJSON(ctx, c.Cache, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			// drop undecodable entries
			_ = c.Cache.Delete(ctx, key)
		}
	}

	params := url.Values{}
	params.Set("query", text)
	params.Set("page", strconv.Itoa(page))
	body, err := c.get(ctx, "search", text, c.BaseURL, "/shodan/host/search", params)
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := decode("search", text, body, &result); err != nil {
		return nil, err
	}

	if c.Cache != nil {
		_ = c.Cache.Set(ctx, key, body, c.CacheTTL)
	}

	return &result, nil
}
