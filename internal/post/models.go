package post

import "backend-trailhub/internal/store"

type CreateRequest struct {
	UserID   string         `json:"userId" validate:"required"`
	Kind     store.PostKind `json:"kind" validate:"required,oneof=completion rating achievement"`
	Content  string         `json:"content" validate:"required"`
	Location string         `json:"location"`
	ImageURL string         `json:"imageUrl"`
	PinID    string         `json:"pinId"`
	Rating   *int           `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (r CreateRequest) toPost() store.Post {
	return store.Post{
		UserID:   r.UserID,
		Kind:     r.Kind,
		Content:  r.Content,
		Location: r.Location,
		ImageURL: r.ImageURL,
		PinID:    r.PinID,
		Rating:   r.Rating,
	}
}
