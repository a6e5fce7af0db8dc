package rating

import (
	"context"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/logger"
	"backend-trailhub/internal/store"

	"go.uber.org/zap"
)

type Service struct {
	ratings store.Repository[store.Rating]
	users   store.Repository[store.User]
	log     *zap.Logger
}

func NewService(s *store.Store, log *zap.Logger) *Service {
	return &Service{ratings: s.Ratings, users: s.Users, log: logger.OrNop(log)}
}

// Create stores the rating and bumps the author's rating count when the
// author is a known user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (store.Rating, error) {
	r, err := s.ratings.Create(ctx, store.Rating{
		UserID:     req.UserID,
		PinID:      req.PinID,
		Score:      req.Rating,
		Review:     req.Review,
		VendorName: req.VendorName,
	})
	if err != nil {
		return store.Rating{}, err
	}

	_, _, err = s.users.Update(ctx, req.UserID, store.PatchFunc[store.User](func(u *store.User) error {
		u.TotalRatings++
		return nil
	}))
	if err != nil {
		s.log.Warn("rating count not updated", zap.String("user_id", req.UserID), zap.Error(err))
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]store.Rating, error) {
	return s.ratings.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]store.Rating, error) {
	return s.ratings.List(ctx, store.Where("userId", userID))
}

func (s *Service) ListByPin(ctx context.Context, pinID string) ([]store.Rating, error) {
	return s.ratings.List(ctx, store.Where("pinId", pinID))
}

func (s *Service) Get(ctx context.Context, id string) (store.Rating, error) {
	r, ok, err := s.ratings.Get(ctx, id)
	if err != nil {
		return store.Rating{}, err
	}
	if !ok {
		return store.Rating{}, apperr.NotFound("Rating")
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id string, patch store.RatingPatch) (store.Rating, error) {
	r, ok, err := s.ratings.Update(ctx, id, patch)
	if !ok && err == nil {
		return store.Rating{}, apperr.NotFound("Rating")
	}
	return r, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.ratings.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Rating")
	}
	return nil
}
