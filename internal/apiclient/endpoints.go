package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"backend-trailhub/internal/analytics"
	"backend-trailhub/internal/pin"
	"backend-trailhub/internal/post"
	"backend-trailhub/internal/rating"
	"backend-trailhub/internal/store"
	"backend-trailhub/internal/upload"
	"backend-trailhub/internal/user"
)

func (c *Client) ListPins(ctx context.Context, category store.Category) ([]store.Pin, error) {
	path := "/api/pins"
	if category != "" {
		path += "?category=" + url.QueryEscape(string(category))
	}
	var out struct {
		Pins []store.Pin `json:"pins"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Pins, err
}

func (c *Client) GetPin(ctx context.Context, id string) (store.Pin, error) {
	var out struct {
		Pin store.Pin `json:"pin"`
	}
	err := c.do(ctx, http.MethodGet, "/api/pins/"+escape(id), nil, &out)
	return out.Pin, err
}

func (c *Client) UpdatePin(ctx context.Context, id string, patch store.PinPatch) (store.Pin, error) {
	var out struct {
		Pin store.Pin `json:"pin"`
	}
	err := c.do(ctx, http.MethodPatch, "/api/pins/"+escape(id), patch, &out)
	return out.Pin, err
}

func (c *Client) CheckIn(ctx context.Context, pinID string, req pin.CheckInRequest) (pin.CheckInResult, error) {
	var out pin.CheckInResult
	err := c.do(ctx, http.MethodPost, "/api/pins/"+escape(pinID)+"/checkin", req, &out)
	return out, err
}

func (c *Client) UpsertUser(ctx context.Context, req user.UpsertRequest) (store.User, error) {
	var out struct {
		User store.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/users", req, &out)
	return out.User, err
}

func (c *Client) GetUserByUID(ctx context.Context, uid string) (store.User, error) {
	var out struct {
		User store.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users/uid/"+escape(uid), nil, &out)
	return out.User, err
}

func (c *Client) CompletedPins(ctx context.Context, userID string) ([]store.Pin, error) {
	var out struct {
		Pins []store.Pin `json:"pins"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users/"+escape(userID)+"/completed", nil, &out)
	return out.Pins, err
}

func (c *Client) ListPosts(ctx context.Context) ([]store.Post, error) {
	var out struct {
		Posts []store.Post `json:"posts"`
	}
	err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out)
	return out.Posts, err
}

func (c *Client) CreatePost(ctx context.Context, req post.CreateRequest) (store.Post, error) {
	var out struct {
		Post store.Post `json:"post"`
	}
	err := c.do(ctx, http.MethodPost, "/api/posts", req, &out)
	return out.Post, err
}

func (c *Client) LikePost(ctx context.Context, id string) (store.Post, error) {
	var out struct {
		Post store.Post `json:"post"`
	}
	err := c.do(ctx, http.MethodPost, "/api/posts/"+escape(id)+"/like", nil, &out)
	return out.Post, err
}

func (c *Client) CreateRating(ctx context.Context, req rating.CreateRequest) (store.Rating, error) {
	var out struct {
		Rating store.Rating `json:"rating"`
	}
	err := c.do(ctx, http.MethodPost, "/api/ratings", req, &out)
	return out.Rating, err
}

func (c *Client) PinRatings(ctx context.Context, pinID string) ([]store.Rating, error) {
	var out struct {
		Ratings []store.Rating `json:"ratings"`
	}
	err := c.do(ctx, http.MethodGet, "/api/ratings/pin/"+escape(pinID), nil, &out)
	return out.Ratings, err
}

// Track appends an analytics event. Callers usually ignore the error;
// tracking never blocks an interaction.
func (c *Client) Track(ctx context.Context, eventType string, data map[string]any) error {
	return c.do(ctx, http.MethodPost, "/api/track", analytics.TrackRequest{EventType: eventType, Data: data}, nil)
}

func (c *Client) ReserveUpload(ctx context.Context, req upload.Request) (upload.Upload, error) {
	var out struct {
		Upload upload.Upload `json:"upload"`
	}
	err := c.do(ctx, http.MethodPost, "/api/uploads", req, &out)
	return out.Upload, err
}
