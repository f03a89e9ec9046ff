// Package listing drives a resource list: the active filters, debounced
// refetches and the loading state. Only the newest request's response is
// ever applied.
package listing

import (
	"context"
	"maps"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/logging"
)

// DefaultDebounce is the quiet period after a filter change.
const DefaultDebounce = 300 * time.Millisecond

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher issues one list request with the given query.
type Fetcher[T any] func(ctx context.Context, query url.Values) (models.Page[T], error)

// Snapshot is a consistent view of the controller.
type Snapshot[T any] struct {
	State   State
	Rows    []T
	Count   int
	Next    string
	Err     error
	Filters map[string]string
}

// Empty reports a successful load with no rows.
func (s Snapshot[T]) Empty() bool {
	return s.State == Loaded && len(s.Rows) == 0
}

type Controller[T any] struct {
	ctx      context.Context
	fetch    Fetcher[T]
	debounce time.Duration
	log      logging.Logger

	mu      sync.Mutex
	filters map[string]string
	seq     uint64
	timer   *time.Timer
	pending int
	idle    chan struct{}
	state   State
	page    models.Page[T]
	err     error
}

type Option func(*options)

type options struct {
	debounce time.Duration
	log      logging.Logger
	filters  map[string]string
}

func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithFilters sets the filters the list opens with.
func WithFilters(f map[string]string) Option {
	return func(o *options) { o.filters = maps.Clone(f) }
}

// New builds a controller. Fetches run with ctx, which should live as long
// as the list is on screen.
func New[T any](ctx context.Context, fetch Fetcher[T], opts ...Option) *Controller[T] {
	o := options{debounce: DefaultDebounce, log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.filters == nil {
		o.filters = map[string]string{}
	}

	idle := make(chan struct{})
	close(idle)
	return &Controller[T]{
		ctx:      ctx,
		fetch:    fetch,
		debounce: o.debounce,
		log:      o.log,
		filters:  o.filters,
		idle:     idle,
	}
}

// Open fetches immediately with the current filters.
func (c *Controller[T]) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(0)
}

// Refresh is Open under another name, used after create/edit/archive.
func (c *Controller[T]) Refresh() {
	c.Open()
}

// SetFilter changes one filter and schedules a debounced refetch. An empty
// value removes the filter.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		delete(c.filters, key)
	} else {
		c.filters[key] = value
	}
	c.startLocked(c.debounce)
}

// ClearFilters drops every filter except those in keep and refetches after
// the debounce.
func (c *Controller[T]) ClearFilters(keep ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make(map[string]string, len(keep))
	for _, k := range keep {
		if v, ok := c.filters[k]; ok {
			next[k] = v
		}
	}
	c.filters = next
	c.startLocked(c.debounce)
}

// Filter returns the current value of key.
func (c *Controller[T]) Filter(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[key]
}

// startLocked supersedes whatever is scheduled or in flight. A zero delay
// fetches right away.
func (c *Controller[T]) startLocked(delay time.Duration) {
	if c.timer != nil && c.timer.Stop() {
		c.doneLocked()
	}
	c.timer = nil

	c.seq++
	seq := c.seq
	query := toQuery(c.filters)

	if c.pending == 0 {
		c.idle = make(chan struct{})
	}
	c.pending++
	c.state = Loading

	if delay <= 0 {
		go c.run(seq, query)
		return
	}
	c.timer = time.AfterFunc(delay, func() { c.run(seq, query) })
}

func (c *Controller[T]) run(seq uint64, query url.Values) {
	page, err := c.fetch(c.ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.doneLocked()

	if seq != c.seq {
		c.log.Debug(c.ctx, "discarding superseded list response", "seq", seq, "latest", c.seq)
		return
	}
	if err != nil {
		c.state = Failed
		c.err = err
		return
	}
	c.state = Loaded
	c.err = nil
	c.page = page
}

func (c *Controller[T]) doneLocked() {
	c.pending--
	if c.pending == 0 {
		close(c.idle)
	}
}

// Wait blocks until no fetch is scheduled or in flight.
func (c *Controller[T]) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		State:   c.state,
		Rows:    append([]T(nil), c.page.Results...),
		Count:   c.page.Count,
		Next:    c.page.Next,
		Err:     c.err,
		Filters: maps.Clone(c.filters),
	}
}

// Close cancels a scheduled fetch.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil && c.timer.Stop() {
		c.doneLocked()
	}
	c.timer = nil
}

func toQuery(filters map[string]string) url.Values {
	q := make(url.Values, len(filters))
	for k, v := range filters {
		q.Set(k, v)
	}
	return q
}
