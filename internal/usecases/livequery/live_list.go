// Package livequery keeps in-memory lists in sync with a table through an
// initial fetch, a response cache and the change feed.
package livequery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by operations on a closed list
var ErrClosed = errors.New("live list closed")

// Row is a record with a stable identifier
type Row interface {
	RowID() uuid.UUID
}

// FetchFunc reads the current rows. It must honour ctx cancellation.
type FetchFunc[T Row] func(ctx context.Context) ([]T, error)

// Options describe the query a list mirrors
type Options struct {
	Table      string
	Projection string
	Filter     *entities.Filter
	Order      *entities.Order
	// TTL is how long a cached response stays fresh; zero disables the cache.
	TTL        time.Duration
	RetryDelay time.Duration
}

// CacheKey identifies the query in the response cache
func (o Options) CacheKey() string {
	return strings.Join([]string{o.Table, o.Projection, o.Filter.String(), o.Order.String()}, "|")
}

// State reports the list's status flags
type State struct {
	Loading   bool
	Err       error
	Connected bool
	FetchedAt time.Time
	FromCache bool
}

// LiveList mirrors the rows matching Options. Change events and refetches go
// through the same mutex, so updates apply in arrival order.
type LiveList[T Row] struct {
	opts  Options
	fetch FetchFunc[T]
	feed  repositories.ChangeFeed
	cache repositories.ResponseCache
	now   func() time.Time

	mu          sync.Mutex
	items       []T
	state       State
	sub         repositories.Subscription
	fetchSeq    uint64
	cancelFetch context.CancelFunc
	closed      bool
	wg          sync.WaitGroup
}

// New creates a list. cache may be nil.
func New[T Row](opts Options, fetch FetchFunc[T], feed repositories.ChangeFeed, cache repositories.ResponseCache) *LiveList[T] {
	return &LiveList[T]{
		opts:  opts,
		fetch: fetch,
		feed:  feed,
		cache: cache,
		now:   time.Now,
	}
}

// Start loads the initial rows, from a fresh cache entry when one exists, and
// subscribes to changes. The subscription stays open when the load fails so a
// later Refetch can recover; callers must Close the list either way.
func (l *LiveList[T]) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.mu.Unlock()

	var loadErr error
	if !l.serveCached(ctx) {
		loadErr = l.load(ctx)
	}

	sub := l.feed.Subscribe(l.opts.Table, l.opts.Filter)
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		sub.Close()
		return ErrClosed
	}
	l.sub = sub
	l.state.Connected = true
	l.mu.Unlock()

	l.wg.Add(1)
	go l.consume(sub)

	return loadErr
}

// Refetch forces a remote read, superseding any fetch in flight, and
// replaces the cache entry.
func (l *LiveList[T]) Refetch(ctx context.Context) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return l.load(ctx)
}

// Items returns a copy of the current rows
func (l *LiveList[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// State returns the current status flags
func (l *LiveList[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Close ends the subscription. No mutation happens afterwards.
func (l *LiveList[T]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.state.Connected = false
	if l.cancelFetch != nil {
		l.cancelFetch()
	}
	sub := l.sub
	l.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	l.wg.Wait()
}

func (l *LiveList[T]) serveCached(ctx context.Context) bool {
	if l.cache == nil || l.opts.TTL <= 0 {
		return false
	}
	entry, err := l.cache.Get(ctx, l.opts.CacheKey())
	if err != nil {
		logger.Warn(ctx, "Response cache read failed", zap.String("table", l.opts.Table), zap.Error(err))
		return false
	}
	if entry == nil || l.now().Sub(entry.FetchedAt) >= l.opts.TTL {
		return false
	}
	var items []T
	if err := json.Unmarshal(entry.Data, &items); err != nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	l.state.FetchedAt = entry.FetchedAt
	l.state.FromCache = true
	l.state.Err = nil
	return true
}

func (l *LiveList[T]) load(ctx context.Context) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancelFetch != nil {
		l.cancelFetch()
	}
	l.fetchSeq++
	seq := l.fetchSeq
	l.cancelFetch = cancel
	l.state.Loading = true
	l.mu.Unlock()

	items, err := l.fetchWithRetry(fetchCtx)

	l.mu.Lock()
	if seq != l.fetchSeq || l.closed {
		l.mu.Unlock()
		if err == nil {
			err = context.Canceled
		}
		return err
	}
	l.cancelFetch = nil
	l.state.Loading = false
	if err != nil {
		l.state.Err = err
		l.mu.Unlock()
		logger.Warn(ctx, "Live query fetch failed", zap.String("table", l.opts.Table), zap.Error(err))
		return err
	}
	fetchedAt := l.now()
	l.items = items
	l.state.Err = nil
	l.state.FetchedAt = fetchedAt
	l.state.FromCache = false
	l.mu.Unlock()

	l.store(ctx, items, fetchedAt)
	return nil
}

func (l *LiveList[T]) fetchWithRetry(ctx context.Context) ([]T, error) {
	items, err := l.fetch(ctx)
	if err == nil || ctx.Err() != nil {
		return items, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(l.opts.RetryDelay):
	}
	return l.fetch(ctx)
}

func (l *LiveList[T]) store(ctx context.Context, items []T, fetchedAt time.Time) {
	if l.cache == nil || l.opts.TTL <= 0 {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, l.opts.CacheKey(), repositories.CachedResponse{Data: data, FetchedAt: fetchedAt}); err != nil {
		logger.Warn(ctx, "Response cache write failed", zap.String("table", l.opts.Table), zap.Error(err))
	}
}

func (l *LiveList[T]) consume(sub repositories.Subscription) {
	defer l.wg.Done()
	for ev := range sub.Events() {
		l.apply(ev)
	}
}

func (l *LiveList[T]) apply(ev entities.ChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	var row T
	if err := json.Unmarshal(ev.Row(), &row); err != nil {
		logger.Warn(context.Background(), "Undecodable change event",
			zap.String("table", ev.Table), zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}
	id := row.RowID()

	switch ev.Type {
	case entities.ChangeInsert:
		if !l.opts.Filter.MatchesJSON(ev.New) {
			return
		}
		if i := l.indexOf(id); i >= 0 {
			l.items[i] = row
			return
		}
		if l.opts.Order != nil && l.opts.Order.Descending {
			l.items = append([]T{row}, l.items...)
		} else {
			l.items = append(l.items, row)
		}
	case entities.ChangeUpdate:
		if i := l.indexOf(id); i >= 0 {
			l.items[i] = row
		}
	case entities.ChangeDelete:
		if i := l.indexOf(id); i >= 0 {
			l.items = append(l.items[:i], l.items[i+1:]...)
		}
	}
}

func (l *LiveList[T]) indexOf(id uuid.UUID) int {
	for i := range l.items {
		if l.items[i].RowID() == id {
			return i
		}
	}
	return -1
}
