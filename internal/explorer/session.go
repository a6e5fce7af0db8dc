package explorer

import (
	"context"
	"sync"
	"time"

	"backend-trailhub/internal/apiclient"
	"backend-trailhub/internal/config"
	"backend-trailhub/internal/logger"
	"backend-trailhub/internal/pin"
	"backend-trailhub/internal/store"
	"backend-trailhub/internal/user"

	"go.uber.org/zap"
)

const (
	eventPinClick = "pin_click"
	eventPageView = "page_view"
	eventPostLike = "post_like"
	trackTimeout  = 5 * time.Second
)

// API is the part of the trailhub client a session needs.
type API interface {
	ListPins(ctx context.Context, category store.Category) ([]store.Pin, error)
	UpsertUser(ctx context.Context, req user.UpsertRequest) (store.User, error)
	CheckIn(ctx context.Context, pinID string, req pin.CheckInRequest) (pin.CheckInResult, error)
	LikePost(ctx context.Context, id string) (store.Post, error)
	Track(ctx context.Context, eventType string, data map[string]any) error
}

// Session is one visitor's view of the festival map. The local pin list is a
// cache of the server's; it only changes from responses and is re-fetched
// on Refresh.
type Session struct {
	api   API
	coord *Coordinator
	log   *zap.Logger

	// submitTimeout bounds each modal submission.
	submitTimeout time.Duration

	mu   sync.Mutex
	user store.User

	tracking sync.WaitGroup
}

// NewSession wires a coordinator for view to api. onCelebrate may be nil.
func NewSession(api API, view MapView, onCelebrate func(Progress), log *zap.Logger) *Session {
	s := &Session{api: api, log: logger.OrNop(log)}
	s.coord = NewCoordinator(view, Hooks{
		OnInspect:   s.trackPinClick,
		OnCelebrate: onCelebrate,
	})
	return s
}

// NewSessionFromConfig builds the trailhub client from cfg and a session on
// top of it. The client is returned for the modals, which run under
// SubmitTimeout.
func NewSessionFromConfig(cfg config.Config, view MapView, onCelebrate func(Progress), log *zap.Logger) (*Session, *apiclient.Client) {
	opts := []apiclient.Option{apiclient.WithLogger(log)}
	if cfg.SubmitTimeout > 0 {
		opts = append(opts, apiclient.WithTimeout(cfg.SubmitTimeout))
	}
	client := apiclient.New(cfg.APIBaseURL, opts...)
	s := NewSession(client, view, onCelebrate, log)
	s.submitTimeout = cfg.SubmitTimeout
	return s, client
}

func (s *Session) Coordinator() *Coordinator {
	return s.coord
}

// SubmitTimeout is the per-submission timeout handed to the modals. Zero
// leaves the modal default in place.
func (s *Session) SubmitTimeout() time.Duration {
	return s.submitTimeout
}

func (s *Session) SignIn(ctx context.Context, uid, username string) (store.User, error) {
	u, err := s.api.UpsertUser(ctx, user.UpsertRequest{UID: uid, Username: username})
	if err != nil {
		return store.User{}, err
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	return u, nil
}

func (s *Session) User() store.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Refresh re-fetches the pin list and hands it to the coordinator. Each
// successful refresh is a map page view.
func (s *Session) Refresh(ctx context.Context) error {
	pins, err := s.api.ListPins(ctx, "")
	if err != nil {
		return err
	}
	s.coord.SetPins(pins)
	s.track(eventPageView, map[string]any{"page": "map"})
	return nil
}

// LikePost likes a community post and tracks the like.
func (s *Session) LikePost(ctx context.Context, postID string) (store.Post, error) {
	p, err := s.api.LikePost(ctx, postID)
	if err != nil {
		return store.Post{}, err
	}
	s.track(eventPostLike, map[string]any{"postId": postID})
	return p, nil
}

func (s *Session) Click(pinID string) (Outcome, error) {
	return s.coord.Click(pinID)
}

// ApplyCheckIn reconciles the local state with a successful check-in
// response.
func (s *Session) ApplyCheckIn(res pin.CheckInResult) {
	s.mu.Lock()
	if res.User.ID != "" {
		s.user = res.User
	}
	s.mu.Unlock()
	if err := s.coord.ApplyPin(res.Pin); err != nil {
		s.log.Debug("check-in for pin outside the local list", zap.String("pin_id", res.Pin.ID))
	}
}

// CheckIn completes pinID for the signed in user. Local state changes only
// after the server accepted the check-in.
func (s *Session) CheckIn(ctx context.Context, pinID, photoURL string) (pin.CheckInResult, error) {
	res, err := s.api.CheckIn(ctx, pinID, pin.CheckInRequest{UserID: s.User().ID, PhotoURL: photoURL})
	if err != nil {
		return pin.CheckInResult{}, err
	}
	s.ApplyCheckIn(res)
	return res, nil
}

func (s *Session) trackPinClick(p store.Pin) {
	s.track(eventPinClick, map[string]any{"pinId": p.ID, "category": string(p.Category)})
}

// track records an event in the background; a tracking failure never
// blocks the caller.
func (s *Session) track(eventType string, data map[string]any) {
	if uid := s.User().ID; uid != "" {
		data["userId"] = uid
	}
	s.tracking.Add(1)
	go func() {
		defer s.tracking.Done()
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		if err := s.api.Track(ctx, eventType, data); err != nil {
			s.log.Warn("event not tracked", zap.String("event_type", eventType), zap.Error(err))
		}
	}()
}

// Close waits for background tracking calls to finish.
func (s *Session) Close() {
	s.tracking.Wait()
}
