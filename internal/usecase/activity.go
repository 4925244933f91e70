package usecase

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/veloce/showroom/internal/domain"
)

// ActivitySource fetches one page of a profile's activity.
type ActivitySource func(ctx context.Context, page int) (*domain.ActivityPage, error)

// ActivityFeed accumulates activity pages in fetch order. FetchNext is a
// no-op while a fetch is in flight and after the last page. Pages are not
// de-duplicated: refetching the same page appends its rows again; the
// backend paginates stably so this only matters if a caller rewinds, which
// none do.
type ActivityFeed struct {
	mu       sync.Mutex
	source   ActivitySource
	items    []domain.ActivityItem
	count    int
	nextPage int
	fetched  bool
	inFlight bool
}

func NewActivityFeed(source ActivitySource) *ActivityFeed {
	return &ActivityFeed{source: source, nextPage: 1}
}

func (f *ActivityFeed) Items() []domain.ActivityItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

// Total is the server-reported item count from the last fetched page.
func (f *ActivityFeed) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func (f *ActivityFeed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.fetched || f.nextPage != 0
}

func (f *ActivityFeed) FetchNext(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight || (f.fetched && f.nextPage == 0) {
		f.mu.Unlock()
		return nil
	}
	f.inFlight = true
	page := f.nextPage
	f.mu.Unlock()

	res, err := f.source(ctx, page)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		return err
	}
	f.fetched = true
	f.items = append(f.items, res.Results...)
	f.count = res.Count
	f.nextPage = pageFromNext(res.Next)
	return nil
}

// pageFromNext pulls the page number out of the backend's absolute next
// URL; 0 means no further page.
func pageFromNext(next *string) int {
	if next == nil || *next == "" {
		return 0
	}
	u, err := url.Parse(*next)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
