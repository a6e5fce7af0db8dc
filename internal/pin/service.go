package pin

import (
	"context"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/catalog"
	"backend-trailhub/internal/logger"
	"backend-trailhub/internal/metrics"
	"backend-trailhub/internal/shared/geo"
	"backend-trailhub/internal/store"

	"go.uber.org/zap"
)

const EventPinComplete = "pin_complete"

type Service struct {
	pins    store.Repository[store.Pin]
	users   store.Repository[store.User]
	cache   *catalog.Cache
	tracker Tracker
	log     *zap.Logger
}

func NewService(s *store.Store, cache *catalog.Cache, tracker Tracker, log *zap.Logger) *Service {
	return &Service{
		pins:    s.Pins,
		users:   s.Users,
		cache:   cache,
		tracker: tracker,
		log:     logger.OrNop(log),
	}
}

// List returns pins in insertion order, optionally narrowed to a category.
// The unfiltered list is served from the catalog cache when one is set up.
func (s *Service) List(ctx context.Context, category string) ([]store.Pin, error) {
	if category != "" {
		if !validCategory(store.Category(category)) {
			return nil, apperr.Invalid("category", "oneof", "must be one of: trail-challenge vendor facility special-event")
		}
		return s.pins.List(ctx, store.Where("category", category))
	}

	if !s.cache.Enabled() {
		return s.pins.List(ctx)
	}
	if pins, ok, _ := s.cache.Pins(ctx); ok {
		metrics.RecordCatalogCache(true)
		return pins, nil
	}
	metrics.RecordCatalogCache(false)

	gen, genErr := s.cache.Generation(ctx)
	pins, err := s.pins.List(ctx)
	if err != nil {
		return nil, err
	}
	if genErr == nil {
		_ = s.cache.SetPins(ctx, gen, pins)
	}
	return pins, nil
}

func (s *Service) Get(ctx context.Context, id string) (store.Pin, error) {
	p, ok, err := s.pins.Get(ctx, id)
	if err != nil {
		return store.Pin{}, err
	}
	if !ok {
		return store.Pin{}, apperr.NotFound("Pin")
	}
	return p, nil
}

// Create adds an admin-authored pin. It must lie inside the festival
// grounds.
func (s *Service) Create(ctx context.Context, req CreateRequest) (store.Pin, error) {
	if !catalog.FestivalBounds.Contains(geo.Point{Lat: req.Lat, Lng: req.Lng}) {
		return store.Pin{}, apperr.Invalid("lat", "bounds", "pin must lie inside the festival grounds")
	}
	p, err := s.pins.Create(ctx, req.toPin())
	if err != nil {
		return store.Pin{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch store.PinPatch) (store.Pin, error) {
	p, ok, err := s.pins.Update(ctx, id, patch)
	if !ok && err == nil {
		return store.Pin{}, apperr.NotFound("Pin")
	}
	if err != nil {
		return store.Pin{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.pins.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Pin")
	}
	s.invalidate(ctx)
	return nil
}

// CheckIn completes a trail pin for a user. The first check-in of a pin by
// a user wins; repeating it is a conflict and changes nothing.
func (s *Service) CheckIn(ctx context.Context, pinID string, req CheckInRequest) (CheckInResult, error) {
	p, err := s.Get(ctx, pinID)
	if err != nil {
		return CheckInResult{}, err
	}
	if !p.IsTrail() {
		return CheckInResult{}, apperr.Invalid("pinId", "trail", "only trail challenge pins can be checked in")
	}

	user, ok, err := s.users.Update(ctx, req.UserID, store.PatchFunc[store.User](func(u *store.User) error {
		if u.HasCompleted(pinID) {
			return apperr.Conflict("Pin already completed by this user")
		}
		u.CompletedPins = append(u.CompletedPins, pinID)
		u.TotalPhotos++
		return nil
	}))
	if !ok && err == nil {
		return CheckInResult{}, apperr.NotFound("User")
	}
	if err != nil {
		return CheckInResult{}, err
	}

	if !p.Completed {
		done := true
		p, err = s.Update(ctx, pinID, store.PinPatch{Completed: &done})
		if err != nil {
			return CheckInResult{}, err
		}
	}

	metrics.CheckIns.Inc()
	if s.tracker != nil {
		data := map[string]any{"pinId": pinID, "userId": req.UserID, "photoUrl": req.PhotoURL}
		if _, err := s.tracker.Track(ctx, EventPinComplete, data); err != nil {
			s.log.Warn("check-in event not recorded", zap.String("pin_id", pinID), zap.Error(err))
		}
	}
	return CheckInResult{Pin: p, User: user}, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("catalog cache not invalidated", zap.Error(err))
	}
}

func validCategory(c store.Category) bool {
	switch c {
	case store.CategoryTrail, store.CategoryVendor, store.CategoryFacility, store.CategoryEvent:
		return true
	}
	return false
}
