package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves pages out of a fixed post list and can block until
// released to simulate slow aggregation calls.
type fakeFetcher struct {
	mu      sync.Mutex
	posts   []*models.Post
	calls   int
	block   chan struct{}
	failErr error
}

func newFakeFetcher(total int) *fakeFetcher {
	posts := make([]*models.Post, total)
	for i := range posts {
		posts[i] = &models.Post{ID: uint(i + 1), Caption: fmt.Sprintf("post %d", i+1)}
	}
	return &fakeFetcher{posts: posts}
}

func (f *fakeFetcher) FetchFeed(ctx context.Context, limit, offset int) (*FeedPage, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	failErr := f.failErr
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failErr != nil {
		return nil, failErr
	}

	end := offset + limit
	if end > len(f.posts) {
		end = len(f.posts)
	}
	var data []*models.Post
	if offset < len(f.posts) {
		data = f.posts[offset:end]
	}
	return &FeedPage{
		Success: true,
		Data:    data,
		Count:   int64(len(f.posts)),
		HasMore: end < len(f.posts),
	}, nil
}

func TestFeedPager_AccumulatesPages(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(25)
	pager := NewFeedPager(fetcher, 10)

	page, err := pager.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.True(t, pager.HasMore())

	_, err = pager.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, pager.Items(), 20)
	assert.True(t, pager.HasMore())

	page, err = pager.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Len(t, pager.Items(), 25)
	assert.False(t, pager.HasMore())

	// Exhausted pager returns nothing without calling the backend again.
	before := fetcher.calls
	page, err = pager.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.Equal(t, before, fetcher.calls)
}

func TestFeedPager_SecondLoadWhileInFlightFailsFast(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(25)
	fetcher.block = make(chan struct{})
	pager := NewFeedPager(fetcher, 10)

	done := make(chan error, 1)
	go func() {
		_, err := pager.LoadNext(context.Background())
		done <- err
	}()

	// Wait until the first load is registered.
	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls == 1
	}, testWait, testTick)

	_, err := pager.LoadNext(context.Background())
	assert.ErrorIs(t, err, ErrLoadInFlight)

	close(fetcher.block)
	require.NoError(t, <-done)
	assert.Len(t, pager.Items(), 10)
}

func TestFeedPager_ResetDiscardsStaleResponse(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(25)
	fetcher.block = make(chan struct{})
	pager := NewFeedPager(fetcher, 10)

	done := make(chan error, 1)
	go func() {
		_, err := pager.LoadNext(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls == 1
	}, testWait, testTick)

	// User pulled to refresh while the page was loading.
	pager.Reset()
	close(fetcher.block)

	err := <-done
	assert.ErrorIs(t, err, ErrStaleResponse)
	assert.Empty(t, pager.Items(), "stale page must not leak into the fresh list")

	// The fresh list loads normally afterwards.
	fetcher.mu.Lock()
	fetcher.block = nil
	fetcher.mu.Unlock()

	page, err := pager.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.Equal(t, uint(1), page[0].ID, "refresh starts over from the first page")
}

func TestFeedPager_FetchErrorLeavesPositionUnchanged(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(25)
	pager := NewFeedPager(fetcher, 10)

	_, err := pager.LoadNext(context.Background())
	require.NoError(t, err)

	fetcher.mu.Lock()
	fetcher.failErr = errors.New("aggregation unavailable")
	fetcher.mu.Unlock()

	_, err = pager.LoadNext(context.Background())
	require.Error(t, err)
	assert.Len(t, pager.Items(), 10)

	// Recovery resumes from the same offset.
	fetcher.mu.Lock()
	fetcher.failErr = nil
	fetcher.mu.Unlock()

	page, err := pager.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(11), page[0].ID)
}

func TestFeedPager_CancelledLoadIsRetryable(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(25)
	fetcher.block = make(chan struct{})
	pager := NewFeedPager(fetcher, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := pager.LoadNext(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls == 1
	}, testWait, testTick)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)

	// The pager is idle again and retries from the same position.
	fetcher.mu.Lock()
	fetcher.block = nil
	fetcher.mu.Unlock()

	page, err := pager.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(1), page[0].ID)
}
