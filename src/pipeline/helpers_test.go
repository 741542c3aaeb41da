package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/apimgr/hostscout/src/api"
	"github.com/apimgr/hostscout/src/model"
)

func records(t *testing.T, raws ...string) []model.MatchRecord {
	t.Helper()
	out := make([]model.MatchRecord, 0, len(raws))
	for _, raw := range raws {
		var m model.MatchRecord
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		out = append(out, m)
	}
	return out
}

func ips(matches []model.MatchRecord) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.IP()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fakeRemote serves canned search results and host details
type fakeRemote struct {
	matches   []model.MatchRecord
	total     int
	hosts     map[string]*model.HostDetail
	exploits  map[string][]model.ExploitRecord
	failHost  map[string]bool
	searchErr error

	mu        sync.Mutex
	hostCalls map[string]int
	lastQuery api.Query
}

func (f *fakeRemote) Search(_ context.Context, q api.Query) (*api.SearchResponse, error) {
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &api.SearchResponse{Matches: f.matches, Total: f.total}, nil
}

func (f *fakeRemote) Host(ctx context.Context, ip string) (*model.HostDetail, error) {
	f.mu.Lock()
	if f.hostCalls == nil {
		f.hostCalls = map[string]int{}
	}
	f.hostCalls[ip]++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failHost[ip] {
		return nil, &model.RemoteCallError{Op: "host", Target: ip, Status: 404, Err: model.ErrNotFound}
	}
	if h, ok := f.hosts[ip]; ok {
		return h, nil
	}
	return &model.HostDetail{IP: ip}, nil
}

func (f *fakeRemote) Exploits(_ context.Context, ip string) ([]model.ExploitRecord, error) {
	return f.exploits[ip], nil
}

func (f *fakeRemote) calls(ip string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hostCalls[ip]
}

func ipRecord(ip string) string {
	return fmt.Sprintf(`{"ip_str": %q, "org": "Org %s"}`, ip, ip)
}
