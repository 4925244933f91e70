package usecase

import (
	"slices"
	"sync"

	"github.com/veloce/showroom/internal/domain"
)

// Store is the normalized in-memory cache: one product per id and one
// profile snapshot, shared by every view so they invalidate together. It is
// a hint, not the source of truth; a full refetch always overwrites it.
type Store struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	profile  *domain.Profile
}

func NewStore() *Store {
	return &Store{products: make(map[int64]domain.Product)}
}

func (s *Store) PutProducts(ps ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range ps {
		s.products[p.ID] = p
	}
}

func (s *Store) Product(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// Products returns the cached entries for ids, preserving order and
// skipping misses.
func (s *Store) Products(ids []int64) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) SetProfile(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.profile = nil
		return
	}
	cp := *p
	cp.FavoriteCars = slices.Clone(p.FavoriteCars)
	cp.BookmarkedCars = slices.Clone(p.BookmarkedCars)
	s.profile = &cp
}

func (s *Store) Profile() (*domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, false
	}
	cp := *s.profile
	cp.FavoriteCars = slices.Clone(s.profile.FavoriteCars)
	cp.BookmarkedCars = slices.Clone(s.profile.BookmarkedCars)
	return &cp, true
}

// Member reports local membership of carID in the relation set. False when
// no profile is cached.
func (s *Store) Member(rel domain.Relation, carID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return false
	}
	return slices.Contains(s.profile.Cars(rel), carID)
}

// SetMember writes the desired membership; this is the synchronous
// optimistic-apply (and revert) step of a toggle.
func (s *Store) SetMember(rel domain.Relation, carID int64, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return
	}
	set := s.profile.Cars(rel)
	has := slices.Contains(set, carID)
	switch {
	case present && !has:
		set = append(set, carID)
	case !present && has:
		set = slices.DeleteFunc(set, func(id int64) bool { return id == carID })
	default:
		return
	}
	if rel == domain.RelationBookmark {
		s.profile.BookmarkedCars = set
	} else {
		s.profile.FavoriteCars = set
	}
}
