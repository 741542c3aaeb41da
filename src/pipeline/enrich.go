package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/apimgr/hostscout/src/metrics"
	"github.com/apimgr/hostscout/src/model"
)

// DefaultWorkers is the enrichment fan-out used when none is configured
const DefaultWorkers = 4

// Lookup is the per-IP part of the remote API.
type Lookup interface {
	Host(ctx context.Context, ip string) (*model.HostDetail, error)
	Exploits(ctx context.Context, ip string) ([]model.ExploitRecord, error)
}

// Enricher fetches host detail (and optionally exploits) for each match.
type Enricher struct {
	Lookup   Lookup
	Workers  int
	Exploits bool
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

// Enrich returns one EnrichedRecord per match, in the same order.
// Lookup failures stay on their record; only a cancelled context
// is returned as an error.
func (e *Enricher) Enrich(ctx context.Context, matches []model.MatchRecord) ([]model.EnrichedRecord, error) {
	results := make([]model.EnrichedRecord, len(matches))
	if len(matches) == 0 {
		return results, nil
	}

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	memo := newMemo()
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, m := range matches {
		g.Go(func() error {
			results[i] = e.enrichOne(ctx, memo, m)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (e *Enricher) enrichOne(ctx context.Context, memo *memo, m model.MatchRecord) model.EnrichedRecord {
	rec := model.EnrichedRecord{Match: m}
	ip := m.IP()

	host, err := memo.do("host:"+ip, func() (any, error) {
		return e.Lookup.Host(ctx, ip)
	})
	e.Metrics.ObserveLookup("host", err)
	if err != nil {
		rec.HostErr = err
		e.warn("host lookup failed", ip, err)
	} else {
		rec.Host, _ = host.(*model.HostDetail)
	}

	if !e.Exploits {
		return rec
	}

	exploits, err := memo.do("exploits:"+ip, func() (any, error) {
		return e.Lookup.Exploits(ctx, ip)
	})
	e.Metrics.ObserveLookup("exploits", err)
	if err != nil {
		rec.ExploitErr = err
		e.warn("exploit lookup failed", ip, err)
	} else {
		rec.Exploits, _ = exploits.([]model.ExploitRecord)
	}

	return rec
}

func (e *Enricher) warn(msg, ip string, err error) {
	if e.Logger == nil {
		return
	}
	e.Logger.Warn(msg, "ip", ip, "error", err)
}

// memo shares lookups for the same key within a single run
type memo struct {
	group singleflight.Group
	mu    sync.Mutex
	done  map[string]memoResult
}

type memoResult struct {
	val any
	err error
}

func newMemo() *memo {
	return &memo{done: make(map[string]memoResult)}
}

func (m *memo) do(key string, fn func() (any, error)) (any, error) {
	m.mu.Lock()
	if r, ok := m.done[key]; ok {
		m.mu.Unlock()
		return r.val, r.err
	}
	m.mu.Unlock()

	val, err, _ := m.group.Do(key, func() (any, error) {
		m.mu.Lock()
		r, ok := m.done[key]
		m.mu.Unlock()
		if ok {
			return r.val, r.err
		}

		val, err := fn()
		m.mu.Lock()
		m.done[key] = memoResult{val: val, err: err}
		m.mu.Unlock()
		return val, err
	})
	return val, err
}
