package modal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"backend-trailhub/internal/post"
	"backend-trailhub/internal/store"
)

const (
	DefaultAuthor  = "Nature Explorer"
	CommunityRoute = "/community"
)

type ShareState int

const (
	ShareComposing ShareState = iota
	SharePosting
	SharePosted
	ShareFailed
)

func (s ShareState) String() string {
	switch s {
	case SharePosting:
		return "posting"
	case SharePosted:
		return "posted"
	case ShareFailed:
		return "failed"
	default:
		return "composing"
	}
}

type PostAPI interface {
	CreatePost(ctx context.Context, req post.CreateRequest) (store.Post, error)
}

type ShareInput struct {
	Kind     store.PostKind
	UserID   string
	Author   string
	Location string
	PinID    string
	Stars    int
	Message  string
	PhotoURL string

	// achievement posts only
	Completed int
	Total     int
}

// Preview is what the share card shows before posting.
type Preview struct {
	Author   string
	Stars    string
	Message  string
	PhotoURL string
}

type Share struct {
	api     PostAPI
	timeout time.Duration

	mu     sync.Mutex
	in     ShareInput
	state  ShareState
	err    error
	closed bool
	posted store.Post
}

func NewShare(api PostAPI, in ShareInput, timeout time.Duration) *Share {
	if strings.TrimSpace(in.Author) == "" {
		in.Author = DefaultAuthor
	}
	return &Share{api: api, in: in, timeout: orDefault(timeout)}
}

func (m *Share) SetMessage(msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableLocked(); err != nil {
		return err
	}
	m.in.Message = msg
	return nil
}

func (m *Share) SetPhotoURL(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableLocked(); err != nil {
		return err
	}
	m.in.PhotoURL = url
	return nil
}

func (m *Share) Preview() Preview {
	m.mu.Lock()
	defer m.mu.Unlock()
	return preview(m.in)
}

func preview(in ShareInput) Preview {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		msg = defaultMessage(in)
	}
	return Preview{
		Author:   in.Author,
		Stars:    stars(in.Stars),
		Message:  msg,
		PhotoURL: in.PhotoURL,
	}
}

func defaultMessage(in ShareInput) string {
	switch in.Kind {
	case store.PostCompletion:
		return fmt.Sprintf("Just completed the %s challenge at the gardens festival! What an amazing way to explore the gardens.", in.Location)
	case store.PostAchievement:
		return fmt.Sprintf("Just completed the entire trail challenge! %d/%d challenges conquered!", in.Completed, in.Total)
	default:
		return fmt.Sprintf("Just visited %s at the gardens festival!", in.Location)
	}
}

func stars(n int) string {
	if n <= 0 {
		return ""
	}
	n = min(n, 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// Post writes the preview to the community feed. On success the modal is
// finished and the caller navigates to the returned route.
func (m *Share) Post(ctx context.Context) (store.Post, string, error) {
	m.mu.Lock()
	if err := m.editableLocked(); err != nil {
		m.mu.Unlock()
		return store.Post{}, "", err
	}
	m.state = SharePosting
	in := m.in
	m.mu.Unlock()

	pv := preview(in)
	req := post.CreateRequest{
		UserID:   in.UserID,
		Kind:     in.Kind,
		Content:  pv.Message,
		Location: in.Location,
		ImageURL: in.PhotoURL,
		PinID:    in.PinID,
	}
	if in.Stars > 0 {
		s := in.Stars
		req.Rating = &s
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	p, err := m.api.CreatePost(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return store.Post{}, "", ErrClosed
	}
	if err != nil {
		m.state = ShareFailed
		m.err = err
		return store.Post{}, "", err
	}
	m.state = SharePosted
	m.err = nil
	m.posted = p
	return p, CommunityRoute, nil
}

func (m *Share) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *Share) State() ShareState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Share) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Share) Input() ShareInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.in
}

func (m *Share) editableLocked() error {
	switch {
	case m.closed:
		return ErrClosed
	case m.state == SharePosting:
		return ErrBusy
	case m.state == SharePosted:
		return ErrFinished
	}
	return nil
}
