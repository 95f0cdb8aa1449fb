// Package listctrl implements the paginated list interaction pattern shared
// by every listing screen: filter state, a page cursor, and an item cache
// with replace-on-filter-change and append-on-load-more semantics.
package listctrl

import (
	"context"
	"errors"
	"sync"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

// Phase is the controller's fetch state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingInitial
	PhaseLoadingMore
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoadingInitial:
		return "loading"
	case PhaseLoadingMore:
		return "loading-more"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrClosed is returned by operations on a closed controller.
var ErrClosed = errors.New("listctrl: controller closed")

// Fetcher loads one page. Resource services provide these (e.g.
// JobService.List bound to a query).
type Fetcher[T any] func(ctx context.Context, q models.Query) (models.Page[T], error)

// Snapshot is a point-in-time copy of the controller state for rendering.
type Snapshot[T any] struct {
	Phase      Phase
	Items      []T
	Page       int
	Total      int
	TotalPages int
	Err        string
}

// Controller drives a paginated listing.
//
// Ordering: every issued fetch captures a sequence number; a response is
// applied only if no newer fetch has been issued since, so a filter change
// racing an older load-more can never be overwritten by the stale result.
// Load-more itself is rejected while any fetch is in flight, keeping at
// most one append chain active at a time.
type Controller[T any] struct {
	fetch Fetcher[T]
	limit int
	log   logging.Logger

	mu         sync.Mutex
	phase      Phase
	search     string
	filters    map[string]string
	items      []T
	page       int
	total      int
	totalPages int
	errMsg     string
	seq        uint64
	closed     bool
}

// New builds a controller with the given page size.
func New[T any](fetch Fetcher[T], limit int, log logging.Logger) *Controller[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller[T]{fetch: fetch, limit: limit, log: log, page: 1}
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Phase:      c.phase,
		Items:      items,
		Page:       c.page,
		Total:      c.total,
		TotalPages: c.totalPages,
		Err:        c.errMsg,
	}
}

// Load fetches page 1 with the current filters, replacing any items.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.loadPage(ctx, 1, PhaseLoadingInitial, false)
}

// SetFilters replaces the filter set, resets the cursor to page 1 and
// reloads. Items are fully replaced on success. A fetch already in flight
// is superseded: its late result will be discarded.
func (c *Controller[T]) SetFilters(ctx context.Context, filters map[string]string) error {
	c.mu.Lock()
	c.filters = cloneFilters(filters)
	c.mu.Unlock()
	return c.loadPage(ctx, 1, PhaseLoadingInitial, false)
}

// SetSearch replaces the search term with the same reset semantics as
// SetFilters.
func (c *Controller[T]) SetSearch(ctx context.Context, search string) error {
	c.mu.Lock()
	c.search = search
	c.mu.Unlock()
	return c.loadPage(ctx, 1, PhaseLoadingInitial, false)
}

// LoadMore fetches the next page and appends it, preserving server order.
// It is a no-op while a fetch is in flight or when no pages remain. Failed
// is deliberately not excluded: a failed append is retried by triggering
// load-more again.
func (c *Controller[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase == PhaseLoadingInitial || c.phase == PhaseLoadingMore {
		c.mu.Unlock()
		return nil
	}
	if c.page >= c.totalPages {
		c.mu.Unlock()
		return nil
	}
	next := c.page + 1
	c.mu.Unlock()
	return c.loadPage(ctx, next, PhaseLoadingMore, true)
}

// Reload refetches the current page in place, replacing the items. Used
// after a CRUD mutation to reflect the change without resetting filters.
func (c *Controller[T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseLoadingInitial || c.phase == PhaseLoadingMore {
		c.mu.Unlock()
		return nil
	}
	page := c.page
	c.mu.Unlock()
	return c.loadPage(ctx, page, PhaseLoadingInitial, false)
}

// Close orphans any in-flight fetch so its result can never touch state.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.seq++
}

func (c *Controller[T]) loadPage(ctx context.Context, page int, phase Phase, appendItems bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	seq := c.seq
	c.phase = phase
	c.errMsg = ""
	q := models.Query{
		Page:    page,
		Limit:   c.limit,
		Search:  c.search,
		Filters: cloneFilters(c.filters),
	}
	c.mu.Unlock()

	result, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// superseded by a newer fetch (or Close); drop the result
		c.log.Debug(ctx, "discarding stale page result", "page", page)
		return nil
	}

	if err != nil {
		// items stay untouched so the current view never flickers away
		c.phase = PhaseFailed
		c.errMsg = err.Error()
		c.log.Warn(ctx, "page fetch failed", "page", page, "err", err)
		return err
	}

	if appendItems {
		c.items = append(c.items, result.Items...)
	} else {
		c.items = result.Items
	}
	c.page = result.Page
	if c.page == 0 {
		c.page = page
	}
	c.total = result.Total
	c.totalPages = result.TotalPages
	c.phase = PhaseIdle
	return nil
}

func cloneFilters(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
