package storefront

import (
	"context"
	"sync"
	"time"
)

// FetchState is the observable lifecycle of one remote fetch.
type FetchState string

const (
	FetchIdle    FetchState = "idle"
	FetchLoading FetchState = "loading"
	FetchReady   FetchState = "ready"
	FetchError   FetchState = "error"
)

// DefaultDebounce is the quiet period after the last query change before a
// fetch is issued.
const DefaultDebounce = 400 * time.Millisecond

// DefaultPageSize matches the remote catalog page window.
const DefaultPageSize = 10

// SearcherOptions configures a Searcher.
type SearcherOptions struct {
	Fetcher  PageFetcher
	PageSize int
	Debounce time.Duration
	// OnApply receives each page that survives the last-request-wins check.
	OnApply func(ctx context.Context, page Page)
}

// Searcher coordinates paginated, debounced catalog searches. Changing the
// query resets the page to 1 and schedules exactly one fetch after the quiet
// period; changing the page fetches immediately. Each fetch captures a
// generation token at issue time and its result is applied only while the
// token is still current, so a stale in-flight response can never overwrite
// newer state. Superseded fetches are also context-cancelled.
type Searcher struct {
	mu         sync.Mutex
	opts       SearcherOptions
	query      string
	pageNumber int
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	state      FetchState
	err        error
	result     Page

	// applyMu serializes result application, callback included, with the
	// generation re-check. Without it a superseded fetch could pass the
	// check, lose the CPU before its callback runs, and then apply a stale
	// page after a newer fetch already applied.
	applyMu sync.Mutex
}

// NewSearcher builds a searcher with safe defaults.
func NewSearcher(opts SearcherOptions) (*Searcher, error) {
	if opts.Fetcher == nil {
		return nil, errMissingFetcher
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Searcher{
		opts:       opts,
		pageNumber: 1,
		state:      FetchIdle,
	}, nil
}

// SetQuery records a new search query, resets the page to 1, and (re)arms the
// debounce timer. Rapid successive calls collapse into one fetch for the
// final query.
func (s *Searcher) SetQuery(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.pageNumber = 1
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.opts.Debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.issueLocked(ctx)
	})
}

// SetPage moves to the given page and fetches immediately, without debounce.
// A pending query fetch is superseded.
func (s *Searcher) SetPage(ctx context.Context, pageNumber int) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageNumber = pageNumber
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.issueLocked(ctx)
}

// Refresh re-fetches the current query and page immediately.
func (s *Searcher) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issueLocked(ctx)
}

// issueLocked starts a fetch for the current query/page. Callers hold the
// lock. The generation token is bumped first so any in-flight fetch becomes
// stale, and its context is cancelled to free the connection.
func (s *Searcher) issueLocked(ctx context.Context) {
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = FetchLoading
	s.err = nil

	query, pageNumber, pageSize := s.query, s.pageNumber, s.opts.PageSize
	go func() {
		page, err := s.opts.Fetcher.FetchPage(fetchCtx, query, pageNumber, pageSize)
		s.applyMu.Lock()
		defer s.applyMu.Unlock()
		s.mu.Lock()
		if gen != s.generation {
			// A newer request owns the state now; discard this result.
			s.mu.Unlock()
			return
		}
		onApply := s.opts.OnApply
		if err != nil {
			// Keep the last successful page visible.
			s.state = FetchError
			s.err = err
			s.mu.Unlock()
			return
		}
		s.state = FetchReady
		s.result = page
		s.mu.Unlock()
		if onApply != nil {
			onApply(fetchCtx, page)
		}
	}()
}

// State returns the current fetch state and, for FetchError, the cause.
func (s *Searcher) State() (FetchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.err
}

// Result returns the last successfully applied page.
func (s *Searcher) Result() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Page{Items: append([]Product(nil), s.result.Items...), Total: s.result.Total}
}

// Query returns the current query string.
func (s *Searcher) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// PageNumber returns the current 1-based page.
func (s *Searcher) PageNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageNumber
}

// Stop cancels any pending debounce timer and in-flight fetch.
func (s *Searcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}
