// Package api is the HTTP client for the Shodan host search, host detail
// and exploit endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/apimgr/hostscout/src/cache"
	"github.com/apimgr/hostscout/src/model"
)

// ProjectName is set at build time - used for User-Agent
var ProjectName = "hostscout"

// Version is set at build time
var Version = "dev"

// Default endpoints
const (
	DefaultBaseURL     = "https://api.shodan.io"
	DefaultExploitsURL = "https://exploits.shodan.io"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 32 << 20

// Client is the API client for the host search provider. One Client is
// built per run from the loaded credential and shared by every stage.
type Client struct {
	BaseURL     string
	ExploitsURL string
	Key         string
	HTTPClient  *http.Client

	// Interval is the minimum spacing between requests, shared by all
	// goroutines using the client. Zero disables pacing.
	Interval time.Duration

	// Cache, when set, stores raw search responses for CacheTTL.
	Cache    cache.Cache
	CacheTTL time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewClient creates a new API client
func NewClient(baseURL, key string, timeout int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		ExploitsURL: DefaultExploitsURL,
		Key:         key,
		HTTPClient: &http.Client{
			Timeout:   time.Duration(timeout) * time.Second,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}
}

// providerError is the error body the provider returns with 4xx/5xx
type providerError struct {
	Error string `json:"error"`
}

// get performs a paced GET against base+path and returns the body.
func (c *Client) get(ctx context.Context, op, target, base, path string, params url.Values) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, &model.RemoteCallError{Op: op, Target: target, Err: err}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.Key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &model.RemoteCallError{Op: op, Target: target, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", fmt.Sprintf("%s-cli/%s", ProjectName, Version))
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &model.RemoteCallError{Op: op, Target: target, Err: redactKey(err, c.Key)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &model.RemoteCallError{Op: op, Target: target, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		var pe providerError
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &pe) == nil && pe.Error != "" {
			msg = pe.Error
		}
		return nil, &model.RemoteCallError{
			Op:      op,
			Target:  target,
			Status:  resp.StatusCode,
			Message: msg,
			Err:     model.StatusError(resp.StatusCode),
		}
	}

	return body, nil
}

// wait blocks until the next request slot
func (c *Client) wait(ctx context.Context) error {
	if c.Interval <= 0 {
		return ctx.Err()
	}

	c.mu.Lock()
	now := time.Now()
	slot := c.next
	if slot.Before(now) {
		slot = now
	}
	c.next = slot.Add(c.Interval)
	c.mu.Unlock()

	d := time.Until(slot)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// redactKey strips the API key from transport errors, which embed the URL
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	if strings.Contains(err.Error(), key) {
		return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
	}
	return err
}

func decode(op, target string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &model.RemoteCallError{Op: op, Target: target, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
