package user

import (
	"context"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/store"
)

type Service struct {
	users store.Repository[store.User]
	pins  store.Repository[store.Pin]
}

func NewService(s *store.Store) *Service {
	return &Service{users: s.Users, pins: s.Pins}
}

// Upsert creates the user or merges the request into the one already
// registered under the uid. created reports which happened.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (u store.User, created bool, err error) {
	existing, found, err := s.GetByUID(ctx, req.UID)
	if err != nil {
		return store.User{}, false, err
	}
	if !found {
		u, err = s.users.Create(ctx, store.User{
			UID:           req.UID,
			Username:      req.Username,
			CompletedPins: store.Dedupe(req.CompletedPins),
			TotalPhotos:   deref(req.TotalPhotos),
			TotalRatings:  deref(req.TotalRatings),
		})
		if err == nil {
			return u, true, nil
		}
		if !apperr.Is(err, apperr.KindConflict) {
			return store.User{}, false, err
		}
		// lost a sign-in race for the same uid; merge into the winner
		existing, found, err = s.GetByUID(ctx, req.UID)
		if err != nil {
			return store.User{}, false, err
		}
		if !found {
			return store.User{}, false, apperr.Conflict("User with this uid already exists")
		}
	}

	u, ok, err := s.users.Update(ctx, existing.ID, store.PatchFunc[store.User](func(u *store.User) error {
		if req.Username != "" {
			u.Username = req.Username
		}
		u.CompletedPins = store.Dedupe(append(u.CompletedPins, req.CompletedPins...))
		if req.TotalPhotos != nil {
			u.TotalPhotos = *req.TotalPhotos
		}
		if req.TotalRatings != nil {
			u.TotalRatings = *req.TotalRatings
		}
		return nil
	}))
	if !ok && err == nil {
		return store.User{}, false, apperr.NotFound("User")
	}
	if err != nil {
		return store.User{}, false, err
	}
	return u, false, nil
}

func (s *Service) Get(ctx context.Context, id string) (store.User, error) {
	u, ok, err := s.users.Get(ctx, id)
	if err != nil {
		return store.User{}, err
	}
	if !ok {
		return store.User{}, apperr.NotFound("User")
	}
	return u, nil
}

func (s *Service) GetByUID(ctx context.Context, uid string) (store.User, bool, error) {
	users, err := s.users.List(ctx, store.Where("uid", uid))
	if err != nil || len(users) == 0 {
		return store.User{}, false, err
	}
	return users[0], true, nil
}

func (s *Service) Update(ctx context.Context, id string, patch store.UserPatch) (store.User, error) {
	u, ok, err := s.users.Update(ctx, id, patch)
	if !ok && err == nil {
		return store.User{}, apperr.NotFound("User")
	}
	return u, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("User")
	}
	return nil
}

// Completed returns the user's completed pins in the order they were
// completed. Pins deleted since are skipped.
func (s *Service) Completed(ctx context.Context, id string) ([]store.Pin, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pins := make([]store.Pin, 0, len(u.CompletedPins))
	for _, pinID := range u.CompletedPins {
		p, ok, err := s.pins.Get(ctx, pinID)
		if err != nil {
			return nil, err
		}
		if ok {
			pins = append(pins, p)
		}
	}
	return pins, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
