package modal

import (
	"context"
	"sync"
	"time"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/rating"
	"backend-trailhub/internal/store"
)

type RatingState int

const (
	RatingEditing RatingState = iota
	RatingSubmitting
	RatingSubmitted
	RatingFailed
)

func (s RatingState) String() string {
	switch s {
	case RatingSubmitting:
		return "submitting"
	case RatingSubmitted:
		return "submitted"
	case RatingFailed:
		return "failed"
	default:
		return "editing"
	}
}

const eventVendorRating = "vendor_rating"

type RatingAPI interface {
	CreateRating(ctx context.Context, req rating.CreateRequest) (store.Rating, error)
	Track(ctx context.Context, eventType string, data map[string]any) error
}

type Rating struct {
	api     RatingAPI
	pin     store.Pin
	userID  string
	timeout time.Duration

	mu     sync.Mutex
	state  RatingState
	stars  int
	review string
	err    error
	closed bool
	result store.Rating
}

func NewRating(api RatingAPI, p store.Pin, userID string, timeout time.Duration) *Rating {
	return &Rating{api: api, pin: p, userID: userID, timeout: orDefault(timeout)}
}

func (m *Rating) SetStars(n int) error {
	if n < 1 || n > 5 {
		return apperr.Invalid("rating", "range", "must be between 1 and 5")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableLocked(); err != nil {
		return err
	}
	m.stars = n
	return nil
}

func (m *Rating) SetReview(review string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableLocked(); err != nil {
		return err
	}
	m.review = review
	return nil
}

func (m *Rating) CanSubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editableLocked() == nil && m.stars > 0
}

func (m *Rating) Submit(ctx context.Context) (store.Rating, error) {
	m.mu.Lock()
	if err := m.editableLocked(); err != nil {
		m.mu.Unlock()
		return store.Rating{}, err
	}
	if m.stars == 0 {
		m.mu.Unlock()
		return store.Rating{}, ErrNotReady
	}
	m.state = RatingSubmitting
	req := rating.CreateRequest{
		UserID:     m.userID,
		PinID:      m.pin.ID,
		Rating:     m.stars,
		Review:     m.review,
		VendorName: m.pin.VendorName,
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	r, err := m.api.CreateRating(ctx, req)
	if err == nil {
		// best effort, the rating is already stored
		_ = m.api.Track(ctx, eventVendorRating, map[string]any{
			"pinId":      req.PinID,
			"userId":     req.UserID,
			"rating":     req.Rating,
			"vendorName": req.VendorName,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return store.Rating{}, ErrClosed
	}
	if err != nil {
		m.state = RatingFailed
		m.err = err
		return store.Rating{}, err
	}
	m.state = RatingSubmitted
	m.err = nil
	m.result = r
	return r, nil
}

// ShareDraft offers the submitted rating for the community feed.
func (m *Rating) ShareDraft(api PostAPI, author string) (*Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != RatingSubmitted {
		return nil, ErrNotReady
	}
	return NewShare(api, ShareInput{
		Kind:     store.PostRating,
		UserID:   m.userID,
		Author:   author,
		Location: m.pin.Name,
		PinID:    m.pin.ID,
		Stars:    m.result.Score,
		Message:  m.result.Review,
	}, m.timeout), nil
}

func (m *Rating) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *Rating) State() RatingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Rating) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Input returns the entered stars and review.
func (m *Rating) Input() (int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stars, m.review
}

func (m *Rating) editableLocked() error {
	switch {
	case m.closed:
		return ErrClosed
	case m.state == RatingSubmitting:
		return ErrBusy
	case m.state == RatingSubmitted:
		return ErrFinished
	}
	return nil
}
