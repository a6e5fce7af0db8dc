package analytics

import (
	"context"
	"sync"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/logger"
	"backend-trailhub/internal/metrics"
	"backend-trailhub/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const activeUsersKey = "analytics:active_users"

// Service owns the dashboard counters and the generic event log. Tracked
// events bump a single shared counter row, created on first use.
type Service struct {
	counters store.Repository[store.Analytics]
	events   store.Repository[store.Event]
	posts    store.Repository[store.Post]
	ratings  store.Repository[store.Rating]
	redis    *redis.Client
	log      *zap.Logger

	mu        sync.Mutex
	counterID string
}

func NewService(s *store.Store, redisClient *redis.Client, log *zap.Logger) *Service {
	return &Service{
		counters: s.Analytics,
		events:   s.Events,
		posts:    s.Posts,
		ratings:  s.Ratings,
		redis:    redisClient,
		log:      logger.OrNop(log),
	}
}

func (s *Service) CreateCounter(ctx context.Context, req CreateRequest) (store.Analytics, error) {
	return s.counters.Create(ctx, store.Analytics{
		PageViews:    req.PageViews,
		ActiveUsers:  req.ActiveUsers,
		QRScans:      req.QRScans,
		PhotoUploads: req.PhotoUploads,
	})
}

func (s *Service) ListCounters(ctx context.Context) ([]store.Analytics, error) {
	return s.counters.List(ctx)
}

func (s *Service) GetCounter(ctx context.Context, id string) (store.Analytics, error) {
	a, ok, err := s.counters.Get(ctx, id)
	if err != nil {
		return store.Analytics{}, err
	}
	if !ok {
		return store.Analytics{}, apperr.NotFound("Analytics")
	}
	return a, nil
}

func (s *Service) UpdateCounter(ctx context.Context, id string, patch store.AnalyticsPatch) (store.Analytics, error) {
	a, ok, err := s.counters.Update(ctx, id, patch)
	if !ok && err == nil {
		return store.Analytics{}, apperr.NotFound("Analytics")
	}
	return a, err
}

// Events lists the event log in arrival order, optionally by type.
func (s *Service) Events(ctx context.Context, eventType string) ([]store.Event, error) {
	if eventType == "" {
		return s.events.List(ctx)
	}
	return s.events.List(ctx, store.Where("eventType", eventType))
}

// Track appends an event to the log and moves the matching counter. A
// counter failure is logged; the event itself is already recorded.
func (s *Service) Track(ctx context.Context, eventType string, data map[string]any) (store.Event, error) {
	if data == nil {
		data = map[string]any{}
	}
	ev, err := s.events.Create(ctx, store.Event{EventType: eventType, Data: data})
	if err != nil {
		return store.Event{}, err
	}
	metrics.RecordEvent(eventType)

	active, countActive := s.countActiveUser(ctx, data)
	bump := counterBump(eventType)
	if bump == nil && !countActive {
		return ev, nil
	}
	if err := s.bumpCounter(ctx, func(a *store.Analytics) {
		if bump != nil {
			bump(a)
		}
		if countActive {
			a.ActiveUsers = active
		}
	}); err != nil {
		s.log.Warn("analytics counter not updated", zap.String("event_type", eventType), zap.Error(err))
	}
	return ev, nil
}

func counterBump(eventType string) func(*store.Analytics) {
	switch eventType {
	case EventPageView:
		return func(a *store.Analytics) { a.PageViews++ }
	case EventQRScan:
		return func(a *store.Analytics) { a.QRScans++ }
	case EventPhotoUpload:
		return func(a *store.Analytics) { a.PhotoUploads++ }
	}
	return nil
}

// countActiveUser folds the event's userId into a redis HyperLogLog and
// returns the distinct estimate. Without redis or a userId it reports false.
func (s *Service) countActiveUser(ctx context.Context, data map[string]any) (int, bool) {
	userID, _ := data["userId"].(string)
	if s.redis == nil || userID == "" {
		return 0, false
	}
	if err := s.redis.PFAdd(ctx, activeUsersKey, userID).Err(); err != nil {
		s.log.Warn("active user not recorded", zap.Error(err))
		return 0, false
	}
	n, err := s.redis.PFCount(ctx, activeUsersKey).Result()
	if err != nil {
		s.log.Warn("active users not counted", zap.Error(err))
		return 0, false
	}
	return int(n), true
}

func (s *Service) bumpCounter(ctx context.Context, apply func(*store.Analytics)) error {
	patch := store.PatchFunc[store.Analytics](func(a *store.Analytics) error {
		apply(a)
		return nil
	})
	for attempt := 0; attempt < 2; attempt++ {
		id, err := s.ensureCounter(ctx)
		if err != nil {
			return err
		}
		_, ok, err := s.counters.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		// the counter row went away; pick or create another one
		s.mu.Lock()
		s.counterID = ""
		s.mu.Unlock()
	}
	return apperr.Internal("analytics counter unavailable", nil)
}

func (s *Service) ensureCounter(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counterID != "" {
		return s.counterID, nil
	}

	existing, err := s.counters.List(ctx)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		s.counterID = existing[0].ID
		return s.counterID, nil
	}
	created, err := s.counters.Create(ctx, store.Analytics{})
	if err != nil {
		return "", err
	}
	s.counterID = created.ID
	return s.counterID, nil
}
