package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"glimpse/internal/models"
)

var (
	// ErrLoadInFlight is returned when a page load is requested while a
	// previous one is still running.
	ErrLoadInFlight = errors.New("page load already in flight")

	// ErrStaleResponse marks a response that arrived after the pager was
	// reset; its items were discarded.
	ErrStaleResponse = errors.New("stale page response discarded")
)

// FeedFetcher loads one page of feed items.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, limit, offset int) (*FeedPage, error)
}

// FeedPager accumulates feed pages for an infinite-scroll view. It
// serializes loads (one in flight at a time) and uses a generation
// counter so a response that outlives a Reset is thrown away instead of
// corrupting the fresh list.
type FeedPager struct {
	mu         sync.Mutex
	fetcher    FeedFetcher
	limit      int
	offset     int
	generation uint64
	inFlight   bool
	items      []*models.Post
	hasMore    bool
	timeout    time.Duration
}

// NewFeedPager builds a pager that loads pages of the given size.
func NewFeedPager(fetcher FeedFetcher, limit int) *FeedPager {
	if limit <= 0 {
		limit = 10
	}
	return &FeedPager{
		fetcher: fetcher,
		limit:   limit,
		hasMore: true,
		timeout: aggregationTimeout,
	}
}

// Items returns the accumulated feed items.
func (p *FeedPager) Items() []*models.Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*models.Post, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether another page is expected.
func (p *FeedPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Reset clears the accumulated items and invalidates any in-flight load;
// its response will be discarded when it lands.
func (p *FeedPager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.items = nil
	p.offset = 0
	p.hasMore = true
	p.inFlight = false
}

// LoadNext fetches the next page and appends it. While a load is in
// flight, further calls fail fast with ErrLoadInFlight; the caller drops
// the scroll event. A response belonging to a generation older than the
// current one is discarded with ErrStaleResponse.
func (p *FeedPager) LoadNext(ctx context.Context) ([]*models.Post, error) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, ErrLoadInFlight
	}
	if !p.hasMore {
		p.mu.Unlock()
		return nil, nil
	}
	p.inFlight = true
	gen := p.generation
	limit := p.limit
	offset := p.offset
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	page, err := p.fetcher.FetchFeed(ctx, limit, offset)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		// Reset happened while we were waiting; this data belongs to a
		// list the UI no longer shows.
		return nil, ErrStaleResponse
	}

	p.inFlight = false
	if err != nil {
		// A cancelled load is retryable, not a terminal failure; the
		// pager's position is unchanged either way.
		return nil, err
	}

	p.items = append(p.items, page.Data...)
	p.offset += len(page.Data)
	p.hasMore = page.HasMore
	return page.Data, nil
}
