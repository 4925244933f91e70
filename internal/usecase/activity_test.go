package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloce/showroom/internal/domain"
)

func strPtr(s string) *string { return &s }

func activityPage(count int, next *string, ids ...int64) *domain.ActivityPage {
	items := make([]domain.ActivityItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, domain.ActivityItem{ID: id, Product: id, Action: domain.ActionView})
	}
	return &domain.ActivityPage{Count: count, Next: next, Results: items}
}

func TestActivityFeedAccumulatesPages(t *testing.T) {
	pages := map[int]*domain.ActivityPage{
		1: activityPage(3, strPtr("http://backend/profiles/activity/?page=2"), 1, 2),
		2: activityPage(3, nil, 3),
	}
	var requested []int
	feed := NewActivityFeed(func(ctx context.Context, page int) (*domain.ActivityPage, error) {
		requested = append(requested, page)
		return pages[page], nil
	})

	assert.True(t, feed.HasMore())

	require.NoError(t, feed.FetchNext(context.Background()))
	assert.Len(t, feed.Items(), 2)
	assert.Equal(t, 3, feed.Total())
	assert.True(t, feed.HasMore())

	require.NoError(t, feed.FetchNext(context.Background()))
	assert.Len(t, feed.Items(), 3)
	assert.False(t, feed.HasMore())

	// Exhausted feeds stop calling the source.
	require.NoError(t, feed.FetchNext(context.Background()))
	assert.Equal(t, []int{1, 2}, requested)
}

func TestActivityFeedErrorKeepsCursor(t *testing.T) {
	calls := 0
	feed := NewActivityFeed(func(ctx context.Context, page int) (*domain.ActivityPage, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return activityPage(1, nil, 1), nil
	})

	require.Error(t, feed.FetchNext(context.Background()))
	assert.Empty(t, feed.Items())
	assert.True(t, feed.HasMore())

	// The failed page is retried, not skipped.
	require.NoError(t, feed.FetchNext(context.Background()))
	assert.Len(t, feed.Items(), 1)
}

func TestActivityFeedSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	feed := NewActivityFeed(func(ctx context.Context, page int) (*domain.ActivityPage, error) {
		calls++
		close(started)
		<-release
		return activityPage(1, nil, 1), nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = feed.FetchNext(context.Background())
	}()

	<-started
	// A second call while the first is in flight returns immediately
	// without touching the source.
	require.NoError(t, feed.FetchNext(context.Background()))
	close(release)
	wg.Wait()

	assert.Equal(t, 1, calls)
	assert.Len(t, feed.Items(), 1)
}

func TestPageFromNext(t *testing.T) {
	cases := []struct {
		name string
		next *string
		want int
	}{
		{"nil", nil, 0},
		{"empty", strPtr(""), 0},
		{"absolute", strPtr("http://backend/profiles/activity/?page=4"), 4},
		{"no page param", strPtr("http://backend/profiles/activity/"), 0},
		{"garbage page", strPtr("http://backend/?page=abc"), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pageFromNext(tc.next))
		})
	}
}
