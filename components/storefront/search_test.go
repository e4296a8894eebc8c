package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingFetcher struct {
	mu      sync.Mutex
	queries []string
	pages   []int
	err     error
	block   chan struct{}
	result  Page
}

func (f *countingFetcher) FetchPage(ctx context.Context, query string, pageNumber, pageSize int) (Page, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.pages = append(f.pages, pageNumber)
	block := f.block
	err := f.err
	result := f.result
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return Page{}, ctx.Err()
		}
	}
	if err != nil {
		return Page{}, err
	}
	return result, nil
}

func (f *countingFetcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func waitForState(t *testing.T, s *Searcher, want FetchState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if state, _ := s.State(); state == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	state, err := s.State()
	t.Fatalf("timed out waiting for %s, state=%s err=%v", want, state, err)
}

func TestSearcherDebounceCollapsesKeystrokes(t *testing.T) {
	fetcher := &countingFetcher{result: Page{Items: []Product{{ID: 1, Name: "abc"}}, Total: 1}}
	s, err := NewSearcher(SearcherOptions{Fetcher: fetcher, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewSearcher returned error: %v", err)
	}
	defer s.Stop()

	ctx := context.Background()
	s.SetQuery(ctx, "a")
	time.Sleep(10 * time.Millisecond)
	s.SetQuery(ctx, "ab")
	time.Sleep(10 * time.Millisecond)
	s.SetQuery(ctx, "abc")

	waitForState(t, s, FetchReady)
	calls := fetcher.calls()
	if len(calls) != 1 || calls[0] != "abc" {
		t.Fatalf("expected single fetch for final query, got %#v", calls)
	}
	if s.PageNumber() != 1 {
		t.Fatalf("expected page reset to 1, got %d", s.PageNumber())
	}
}

func TestSearcherSpacedQueriesFetchSeparately(t *testing.T) {
	fetcher := &countingFetcher{result: Page{}}
	s, err := NewSearcher(SearcherOptions{Fetcher: fetcher, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewSearcher returned error: %v", err)
	}
	defer s.Stop()

	ctx := context.Background()
	s.SetQuery(ctx, "first")
	waitForState(t, s, FetchReady)
	s.SetQuery(ctx, "second")
	waitForState(t, s, FetchReady)

	calls := fetcher.calls()
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("expected two fetches, got %#v", calls)
	}
}

func TestSearcherSetPageFetchesImmediately(t *testing.T) {
	fetcher := &countingFetcher{result: Page{Total: 40}}
	s, err := NewSearcher(SearcherOptions{Fetcher: fetcher, Debounce: time.Hour})
	if err != nil {
		t.Fatalf("NewSearcher returned error: %v", err)
	}
	defer s.Stop()

	s.SetPage(context.Background(), 3)
	waitForState(t, s, FetchReady)

	fetcher.mu.Lock()
	pages := append([]int(nil), fetcher.pages...)
	fetcher.mu.Unlock()
	if len(pages) != 1 || pages[0] != 3 {
		t.Fatalf("expected immediate fetch of page 3, got %#v", pages)
	}
}

func TestSearcherLastRequestWins(t *testing.T) {
	block := make(chan struct{})
	fetcher := &countingFetcher{block: block, result: Page{Total: 1}}
	s, err := NewSearcher(SearcherOptions{Fetcher: fetcher, Debounce: time.Hour})
	if err != nil {
		t.Fatalf("NewSearcher returned error: %v", err)
	}
	defer s.Stop()

	ctx := context.Background()
	// First fetch blocks until released; the second supersedes it.
	s.SetPage(ctx, 1)
	time.Sleep(20 * time.Millisecond)

	fetcher.mu.Lock()
	fetcher.block = nil
	fetcher.result = Page{Total: 2}
	fetcher.mu.Unlock()
	s.SetPage(ctx, 2)

	waitForState(t, s, FetchReady)
	close(block)
	time.Sleep(50 * time.Millisecond)

	if got := s.Result().Total; got != 2 {
		t.Fatalf("expected newest result to win, got total %d", got)
	}
}

func TestSearcherErrorKeepsLastGoodPage(t *testing.T) {
	fetcher := &countingFetcher{result: Page{Items: []Product{{ID: 1}}, Total: 1}}
	s, err := NewSearcher(SearcherOptions{Fetcher: fetcher, Debounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewSearcher returned error: %v", err)
	}
	defer s.Stop()

	ctx := context.Background()
	s.SetQuery(ctx, "good")
	waitForState(t, s, FetchReady)

	fetchErr := errors.New("remote down")
	fetcher.mu.Lock()
	fetcher.err = fetchErr
	fetcher.mu.Unlock()

	s.Refresh(ctx)
	waitForState(t, s, FetchError)

	if _, err := s.State(); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error surfaced, got %v", err)
	}
	if got := s.Result(); got.Total != 1 || len(got.Items) != 1 {
		t.Fatalf("expected last good page retained, got %#v", got)
	}
}

func TestSearcherCallbackCannotApplyStalePage(t *testing.T) {
	release := make(chan struct{})
	fetcher := &countingFetcher{result: Page{Total: 1}}

	var mu sync.Mutex
	var applied []int
	s, err := NewSearcher(SearcherOptions{
		Fetcher:  fetcher,
		Debounce: time.Hour,
		OnApply: func(_ context.Context, page Page) {
			mu.Lock()
			applied = append(applied, page.Total)
			first := len(applied) == 1
			mu.Unlock()
			// Stall the first apply mid-callback; a newer fetch must not
			// be able to slip its page in underneath it.
			if first {
				<-release
			}
		},
	})
	if err != nil {
		t.Fatalf("NewSearcher returned error: %v", err)
	}
	defer s.Stop()

	ctx := context.Background()
	s.SetPage(ctx, 1)

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		started := len(applied) == 1
		mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for first apply")
		}
		time.Sleep(5 * time.Millisecond)
	}

	fetcher.mu.Lock()
	fetcher.result = Page{Total: 2}
	fetcher.mu.Unlock()
	s.SetPage(ctx, 2)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	blocked := len(applied) == 1
	mu.Unlock()
	if !blocked {
		t.Fatalf("expected second apply to wait behind the stalled callback")
	}

	close(release)
	deadline = time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := len(applied) == 2
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for second apply")
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	order := append([]int(nil), applied...)
	mu.Unlock()
	if order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected applies in issue order, got %v", order)
	}
	if got := s.Result().Total; got != 2 {
		t.Fatalf("expected newest page to be the final result, got %d", got)
	}
}

func TestSearcherAppliesPageViaCallback(t *testing.T) {
	var mu sync.Mutex
	var applied []Page
	fetcher := &countingFetcher{result: Page{Total: 7}}
	s, err := NewSearcher(SearcherOptions{
		Fetcher:  fetcher,
		Debounce: 10 * time.Millisecond,
		OnApply: func(_ context.Context, page Page) {
			mu.Lock()
			applied = append(applied, page)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("NewSearcher returned error: %v", err)
	}
	defer s.Stop()

	s.SetQuery(context.Background(), "q")
	waitForState(t, s, FetchReady)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0].Total != 7 {
		t.Fatalf("expected one applied page, got %#v", applied)
	}
}
