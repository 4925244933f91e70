package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/veloce/showroom/internal/domain"
)

// ToggleUC flips favorite/bookmark membership optimistically: the local
// state changes before the request goes out and is reverted only when the
// backend rejects the change with something other than "already done".
// One controller serves both relations; each call is an independent
// asynchronous unit and concurrent toggles on the same pair are
// last-write-wins until the next full profile fetch reconciles.
type ToggleUC struct {
	Profiles domain.ProfileAPI
	Store    *Store
}

func (uc *ToggleUC) Toggle(ctx context.Context, rel domain.Relation, carID int64) (domain.ToggleResult, error) {
	res := domain.ToggleResult{Relation: rel, CarID: carID}

	if _, ok := uc.Store.Profile(); !ok {
		p, err := uc.Profiles.OwnProfile(ctx)
		if err != nil {
			return res, err
		}
		uc.Store.SetProfile(p)
	}

	was := uc.Store.Member(rel, carID)
	uc.Store.SetMember(rel, carID, !was)

	var err error
	if was {
		err = uc.Profiles.RemoveRelation(ctx, rel, carID)
	} else {
		err = uc.Profiles.AddRelation(ctx, rel, carID)
	}

	switch {
	case err == nil:
		res.Outcome = domain.ToggleApplied
		res.Present = !was
		res.Level = domain.NoticeSuccess
		if was {
			res.Message = fmt.Sprintf("Removed from %s", rel.Noun())
		} else {
			res.Message = fmt.Sprintf("Added to %s", rel.Noun())
		}
		return res, nil

	case isAlreadyInDesiredState(err):
		// The backend already holds what the optimistic flip produced;
		// keep it and tell the user nothing went wrong.
		res.Outcome = domain.ToggleKeptOptimistic
		res.Present = !was
		res.Level = domain.NoticeInfo
		res.Message = fmt.Sprintf("Your %s were already up to date", rel.Noun())
		return res, nil

	default:
		uc.Store.SetMember(rel, carID, was)
		res.Outcome = domain.ToggleRolledBack
		res.Present = was
		res.Level = domain.NoticeError
		res.Message = fmt.Sprintf("Failed to update %s", rel.Noun())
		return res, err
	}
}

func isAlreadyInDesiredState(err error) bool {
	var reqErr *domain.RequestError
	return errors.As(err, &reqErr) && reqErr.AlreadyInDesiredState()
}
