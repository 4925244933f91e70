package usecase

import (
	"context"
	"slices"

	"github.com/veloce/showroom/internal/domain"
)

type ProfileUC struct {
	Profiles domain.ProfileAPI
	Catalog  domain.CatalogAPI
	Store    *Store
}

// Own fetches the signed-in profile and resets the cached membership copy
// to the server's answer, reconciling any optimistic drift.
func (uc *ProfileUC) Own(ctx context.Context) (*domain.Profile, error) {
	p, err := uc.Profiles.OwnProfile(ctx)
	if err != nil {
		return nil, err
	}
	uc.Store.SetProfile(p)
	return p, nil
}

func (uc *ProfileUC) Update(ctx context.Context, upd domain.ProfileUpdate) (*domain.Profile, error) {
	p, err := uc.Profiles.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, err
	}
	uc.Store.SetProfile(p)
	return p, nil
}

// Stalk is the redacted read-only view of another user; the backend does
// the redaction, the client renders whatever comes back.
func (uc *ProfileUC) Stalk(ctx context.Context, id int64) (*domain.Profile, error) {
	return uc.Profiles.StalkProfile(ctx, id)
}

// CarsByIDs hydrates the product records behind a membership set. The
// backend has no bulk-by-id endpoint, so this pulls the full listing and
// filters, same as the original storefront did.
func (uc *ProfileUC) CarsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	all, err := uc.Catalog.ListCars(ctx)
	if err != nil {
		return nil, err
	}
	uc.Store.PutProducts(all...)
	out := make([]domain.Product, 0, len(ids))
	for _, car := range all {
		if slices.Contains(ids, car.ID) {
			out = append(out, car)
		}
	}
	return out, nil
}

// OwnFeed and StalkFeed bind an ActivityFeed to the right page source.
func (uc *ProfileUC) OwnFeed() *ActivityFeed {
	return NewActivityFeed(func(ctx context.Context, page int) (*domain.ActivityPage, error) {
		return uc.Profiles.OwnActivity(ctx, page)
	})
}

func (uc *ProfileUC) StalkFeed(id int64) *ActivityFeed {
	return NewActivityFeed(func(ctx context.Context, page int) (*domain.ActivityPage, error) {
		return uc.Profiles.ProfileActivity(ctx, id, page)
	})
}
