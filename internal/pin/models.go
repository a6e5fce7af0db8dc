package pin

import (
	"context"

	"backend-trailhub/internal/store"
)

// CreateRequest is the admin payload for a new pin. The server assigns the
// id and creation time.
type CreateRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Lat         float64        `json:"lat" validate:"latitude"`
	Lng         float64        `json:"lng" validate:"longitude"`
	Category    store.Category `json:"category" validate:"required,oneof=trail-challenge vendor facility special-event"`
	VendorName  string         `json:"vendorName"`
	Media       []store.Media  `json:"media" validate:"dive"`
	FunFact     string         `json:"funFact"`
}

func (r CreateRequest) toPin() store.Pin {
	return store.Pin{
		Name:        r.Name,
		Description: r.Description,
		Lat:         r.Lat,
		Lng:         r.Lng,
		Category:    r.Category,
		VendorName:  r.VendorName,
		Media:       r.Media,
		FunFact:     r.FunFact,
	}
}

type CheckInRequest struct {
	UserID   string `json:"userId" validate:"required"`
	PhotoURL string `json:"photoUrl" validate:"required"`
}

// CheckInResult carries both entities touched by a check-in so the client
// can reconcile its cache from one response.
type CheckInResult struct {
	Pin  store.Pin  `json:"pin"`
	User store.User `json:"user"`
}

// Tracker appends interaction events to the analytics log.
type Tracker interface {
	Track(ctx context.Context, eventType string, data map[string]any) (store.Event, error)
}
