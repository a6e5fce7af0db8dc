package upload

import (
	"context"
	"path"
	"regexp"
	"strings"
	"time"

	"backend-trailhub/internal/store"

	"github.com/google/uuid"
)

const (
	eventPhotoUpload = "photo_upload"
	urlTTL           = 15 * time.Minute
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Tracker records the upload in the analytics log.
type Tracker interface {
	Track(ctx context.Context, eventType string, data map[string]any) (store.Event, error)
}

type Upload struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Request struct {
	UserID   string `json:"userId" validate:"required"`
	FileName string `json:"fileName"`
	PinID    string `json:"pinId"`
}

// Service hands out object URLs for check-in photos. The bytes go straight
// to object storage; only the reference passes through the API.
type Service struct {
	baseURL string
	tracker Tracker
}

func NewService(baseURL string, tracker Tracker) *Service {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Service{baseURL: baseURL, tracker: tracker}
}

func (s *Service) Reserve(ctx context.Context, req Request) (Upload, error) {
	id := uuid.NewString()
	name := cleanName(req.FileName)
	u := Upload{
		ID:        id,
		URL:       s.baseURL + id + "-" + name,
		ExpiresAt: time.Now().Add(urlTTL),
	}
	if s.tracker != nil {
		data := map[string]any{"userId": req.UserID, "url": u.URL}
		if req.PinID != "" {
			data["pinId"] = req.PinID
		}
		if _, err := s.tracker.Track(ctx, eventPhotoUpload, data); err != nil {
			return Upload{}, err
		}
	}
	return u, nil
}

func cleanName(name string) string {
	name = unsafeName.ReplaceAllString(path.Base(strings.TrimSpace(name)), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "photo.jpg"
	}
	return name
}
