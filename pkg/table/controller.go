package table

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/prefs"
)

// ErrClosed is returned by operations on a closed controller.
var ErrClosed = errors.New("table: controller closed")

// Fetcher loads one page of records.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Page, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context, q Query) (Page, error)

func (f FetchFunc) Fetch(ctx context.Context, q Query) (Page, error) {
	return f(ctx, q)
}

// State is an immutable snapshot of the table. Rows holds the visible rows
// after filtering, sorting and pagination. Error is the user-facing message
// of the last failed load.
type State struct {
	Rows     []Record
	Loading  bool
	Error    string
	Search   string
	Sort     SortSpec
	Selected map[string]bool
	Page     Pagination
}

// IsSelected reports whether key is selected.
func (s State) IsSelected(key string) bool {
	return s.Selected[key]
}

// AllVisibleSelected reports whether every visible row is selected.
func (s State) AllVisibleSelected() bool {
	if len(s.Rows) == 0 {
		return false
	}
	for i, row := range s.Rows {
		if !s.Selected[RowKey(row, i)] {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	out := s
	out.Rows = append([]Record(nil), s.Rows...)
	out.Selected = make(map[string]bool, len(s.Selected))
	for k, v := range s.Selected {
		out.Selected[k] = v
	}
	return out
}

type tablePrefs struct {
	Sort     SortSpec `json:"sort"`
	PageSize int      `json:"pageSize"`
}

// Controller owns the table state. At most one fetch is in flight: starting a
// new one cancels its predecessor, and responses carrying an old sequence
// number are discarded.
type Controller struct {
	fetcher      Fetcher
	columns      []Column
	mode         Mode
	logger       *zap.Logger
	debounce     time.Duration
	pollInterval time.Duration
	prefsStore   prefs.Store
	prefsKey     string

	mu        sync.Mutex
	state     State
	all       []Record
	seq       uint64
	cancel    context.CancelFunc
	timer     *time.Timer
	observers map[int]func(State)
	nextObs   int
	polling   bool
	closed    bool

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewController builds a controller over fetcher and the declared columns.
func NewController(fetcher Fetcher, columns []Column, opts ...Option) (*Controller, error) {
	if fetcher == nil {
		return nil, errors.New("table: fetcher is required")
	}
	cols, err := normalizeColumns(columns)
	if err != nil {
		return nil, err
	}

	ctx, stop := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:   fetcher,
		columns:   cols,
		logger:    zap.NewNop(),
		debounce:  DefaultDebounce,
		observers: make(map[int]func(State)),
		ctx:       ctx,
		stop:      stop,
		state: State{
			Selected: make(map[string]bool),
			Page:     Pagination{Page: 1, PageSize: DefaultPageSize, TotalPages: 1},
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.restorePrefs()
	return c, nil
}

// Columns returns the declared columns.
func (c *Controller) Columns() []Column {
	return append([]Column(nil), c.columns...)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive a snapshot after every transition. The
// returned function unregisters it.
func (c *Controller) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Start performs the initial load and, when a poll interval is configured,
// starts re-fetching in the background until Close.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	startPoll := c.pollInterval > 0 && !c.polling
	if startPoll {
		c.polling = true
		c.wg.Add(1)
	}
	c.mu.Unlock()

	if startPoll {
		go c.poll()
	}
	return c.Load(ctx)
}

func (c *Controller) poll() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if err := c.Load(c.ctx); err != nil && !errors.Is(err, ErrClosed) {
				c.logger.Debug("table: poll load failed", zap.Error(err))
			}
		}
	}
}

// Load fetches with the current parameters and blocks until the response is
// applied or discarded. A load superseded by a newer one, or canceled through
// ctx, returns nil without touching the rows.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	detach := context.AfterFunc(c.ctx, cancel)
	c.seq++
	seq := c.seq
	c.cancel = cancel
	query := c.queryLocked()
	c.state.Loading = true
	c.state.Error = ""
	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)

	page, err := c.fetcher.Fetch(fetchCtx, query)
	detach()
	cancel()

	return c.apply(seq, page, err)
}

func (c *Controller) apply(seq uint64, page Page, err error) error {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return nil
	}
	c.cancel = nil
	c.state.Loading = false

	var result error
	switch {
	case err == nil:
		if c.mode == ClientSide {
			c.all = append([]Record(nil), page.Items...)
			c.recomputeLocked()
		} else {
			c.state.Rows = append([]Record(nil), page.Items...)
			c.state.Page = normalizePagination(page.Pagination, c.state.Page, len(page.Items))
		}
	case apperr.IsCanceled(err):
		// Canceled loads leave the previous rows in place.
	default:
		id := apperr.Log(c.logger, err, zap.String("component", "table"))
		c.state.Error = apperr.MessageFor(err)
		c.logger.Debug("table: load failed", zap.String("error_id", id))
		result = err
	}

	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)
	return result
}

func normalizePagination(p, current Pagination, items int) Pagination {
	if p.PageSize <= 0 {
		p.PageSize = current.PageSize
	}
	if p.Page <= 0 {
		p.Page = current.Page
	}
	if p.TotalCount <= 0 && items > 0 {
		p.TotalCount = items
	}
	if p.TotalPages <= 0 {
		p.TotalPages = (p.TotalCount + p.PageSize - 1) / p.PageSize
		if p.TotalPages < 1 {
			p.TotalPages = 1
		}
		p.HasNext = p.Page < p.TotalPages
		p.HasPrevious = p.Page > 1
	}
	return p
}

func (c *Controller) queryLocked() Query {
	if c.mode == ClientSide {
		return Query{}
	}
	return Query{
		Search:   c.state.Search,
		Sort:     c.state.Sort,
		Page:     c.state.Page.Page,
		PageSize: c.state.Page.PageSize,
	}
}

func (c *Controller) recomputeLocked() {
	rows := Filter(c.all, c.columns, c.state.Search)
	rows = Sort(rows, c.state.Sort)
	page := Paginate(rows, c.state.Page.Page, c.state.Page.PageSize)
	c.state.Rows = page.Items
	c.state.Page = page.Pagination
}

// SetSearch applies term immediately and resets to the first page.
func (c *Controller) SetSearch(ctx context.Context, term string) error {
	return c.update(ctx, func(s *State) {
		s.Search = term
		s.Page.Page = 1
	})
}

// SearchInput records keystroke input and applies it after the debounce
// period has passed without further input.
func (c *Controller) SearchInput(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil && c.timer.Stop() {
		c.wg.Done()
	}
	c.wg.Add(1)
	c.timer = time.AfterFunc(c.debounce, func() {
		defer c.wg.Done()
		if err := c.SetSearch(c.ctx, term); err != nil && !errors.Is(err, ErrClosed) {
			c.logger.Debug("table: debounced search failed", zap.Error(err))
		}
	})
}

// ToggleSort handles a header click. Unknown or unsortable columns are
// ignored. Preferences are saved only when the change was applied.
func (c *Controller) ToggleSort(ctx context.Context, column string) error {
	col, ok := findColumn(c.columns, column)
	if !ok || !col.Sortable {
		return nil
	}
	if err := c.update(ctx, func(s *State) {
		s.Sort = ToggleSort(s.Sort, column)
	}); err != nil {
		return err
	}
	c.savePrefs()
	return nil
}

// SetPage moves to page n (1-based).
func (c *Controller) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	return c.update(ctx, func(s *State) {
		s.Page.Page = n
	})
}

// NextPage advances one page when there is one.
func (c *Controller) NextPage(ctx context.Context) error {
	snap := c.Snapshot()
	if !snap.Page.HasNext {
		return nil
	}
	return c.SetPage(ctx, snap.Page.Page+1)
}

// PreviousPage goes back one page when there is one.
func (c *Controller) PreviousPage(ctx context.Context) error {
	snap := c.Snapshot()
	if !snap.Page.HasPrevious {
		return nil
	}
	return c.SetPage(ctx, snap.Page.Page-1)
}

// SetPageSize changes the page size and returns to the first page.
func (c *Controller) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return nil
	}
	if err := c.update(ctx, func(s *State) {
		s.Page.PageSize = size
		s.Page.Page = 1
	}); err != nil {
		return err
	}
	c.savePrefs()
	return nil
}

// update mutates parameters; client mode recomputes locally, server mode
// re-fetches.
func (c *Controller) update(ctx context.Context, mutate func(*State)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	mutate(&c.state)
	if c.mode == ServerSide {
		c.mu.Unlock()
		return c.Load(ctx)
	}
	c.recomputeLocked()
	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)
	return nil
}

// ToggleSelect flips the selection of the row identified by key.
func (c *Controller) ToggleSelect(key string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.state.Selected[key] {
		delete(c.state.Selected, key)
	} else {
		c.state.Selected[key] = true
	}
	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)
}

// ToggleSelectAll selects every visible row unless all are already selected,
// in which case the selection is cleared.
func (c *Controller) ToggleSelectAll() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.state.AllVisibleSelected() {
		c.state.Selected = make(map[string]bool)
	} else {
		for i, row := range c.state.Rows {
			c.state.Selected[RowKey(row, i)] = true
		}
	}
	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)
}

// SelectedKeys returns the selected row keys in sorted order.
func (c *Controller) SelectedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.state.Selected))
	for k := range c.state.Selected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close cancels any fetch, stops polling and pending debounce timers, drops
// observers and waits for background goroutines. It is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.timer != nil && c.timer.Stop() {
		c.wg.Done()
	}
	c.observers = make(map[int]func(State))
	c.stop()
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

func (c *Controller) snapshotLocked() (State, []func(State)) {
	observers := make([]func(State), 0, len(c.observers))
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		observers = append(observers, c.observers[id])
	}
	return c.state.clone(), observers
}

func notify(observers []func(State), snap State) {
	for _, fn := range observers {
		fn(snap)
	}
}

func (c *Controller) restorePrefs() {
	if c.prefsStore == nil || c.prefsKey == "" {
		return
	}
	def := tablePrefs{Sort: c.state.Sort, PageSize: c.state.Page.PageSize}
	saved := prefs.Load(context.Background(), c.prefsStore, c.prefsKey, def, c.logger)
	if saved.Sort.Column == "" {
		c.state.Sort = SortSpec{}
	} else if col, ok := findColumn(c.columns, saved.Sort.Column); ok && col.Sortable {
		if saved.Sort.Direction != Descending {
			saved.Sort.Direction = Ascending
		}
		c.state.Sort = saved.Sort
	}
	if saved.PageSize > 0 {
		c.state.Page.PageSize = saved.PageSize
	}
}

func (c *Controller) savePrefs() {
	if c.prefsStore == nil || c.prefsKey == "" {
		return
	}
	c.mu.Lock()
	value := tablePrefs{Sort: c.state.Sort, PageSize: c.state.Page.PageSize}
	c.mu.Unlock()
	prefs.Save(context.Background(), c.prefsStore, c.prefsKey, value, c.logger)
}
