package store

import (
	"slices"
	"time"

	"backend-trailhub/internal/apperr"
)

type Category string

const (
	CategoryTrail    Category = "trail-challenge"
	CategoryVendor   Category = "vendor"
	CategoryFacility Category = "facility"
	CategoryEvent    Category = "special-event"
)

type PostKind string

const (
	PostCompletion  PostKind = "completion"
	PostRating      PostKind = "rating"
	PostAchievement PostKind = "achievement"
)

type Media struct {
	Kind        string `json:"kind" validate:"required,oneof=image video audio"`
	URL         string `json:"url" validate:"required"`
	Caption     string `json:"caption,omitempty"`
	DurationSec int    `json:"durationSec,omitempty" validate:"gte=0"`
}

type Pin struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Lat         float64   `json:"lat" validate:"latitude"`
	Lng         float64   `json:"lng" validate:"longitude"`
	Category    Category  `json:"category" validate:"required,oneof=trail-challenge vendor facility special-event"`
	Completed   bool      `json:"completed"`
	VendorName  string    `json:"vendorName,omitempty"`
	Media       []Media   `json:"media,omitempty" validate:"dive"`
	FunFact     string    `json:"funFact,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p Pin) IsTrail() bool {
	return p.Category == CategoryTrail
}

type User struct {
	ID            string    `json:"id"`
	UID           string    `json:"uid" validate:"required"`
	Username      string    `json:"username,omitempty"`
	CompletedPins []string  `json:"completedPins"`
	TotalPhotos   int       `json:"totalPhotos" validate:"gte=0"`
	TotalRatings  int       `json:"totalRatings" validate:"gte=0"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasCompleted reports whether pinID is already in the user's completed set.
func (u User) HasCompleted(pinID string) bool {
	return slices.Contains(u.CompletedPins, pinID)
}

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId" validate:"required"`
	Kind      PostKind  `json:"kind" validate:"required,oneof=completion rating achievement"`
	Content   string    `json:"content" validate:"required"`
	Location  string    `json:"location,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	PinID     string    `json:"pinId,omitempty"`
	Rating    *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Likes     int       `json:"likes" validate:"gte=0"`
	CreatedAt time.Time `json:"createdAt"`
}

type Rating struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId" validate:"required"`
	PinID      string    `json:"pinId" validate:"required"`
	Score      int       `json:"rating" validate:"min=1,max=5"`
	Review     string    `json:"review,omitempty"`
	VendorName string    `json:"vendorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Analytics struct {
	ID           string    `json:"id"`
	PageViews    int       `json:"pageViews" validate:"gte=0"`
	ActiveUsers  int       `json:"activeUsers" validate:"gte=0"`
	QRScans      int       `json:"qrScans" validate:"gte=0"`
	PhotoUploads int       `json:"photoUploads" validate:"gte=0"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Event is one entry of the generic tracking log.
type Event struct {
	ID        string         `json:"id"`
	EventType string         `json:"eventType" validate:"required,max=64"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PinPatch carries the fields of a partial pin update. Nil fields are left
// untouched.
type PinPatch struct {
	Name        *string   `json:"name" validate:"omitempty,min=1"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Lat         *float64  `json:"lat" validate:"omitempty,latitude"`
	Lng         *float64  `json:"lng" validate:"omitempty,longitude"`
	Category    *Category `json:"category"`
	Completed   *bool     `json:"completed"`
	VendorName  *string   `json:"vendorName"`
	Media       *[]Media  `json:"media"`
	FunFact     *string   `json:"funFact"`
}

func (p PinPatch) Apply(pin *Pin) error {
	if p.Category != nil && *p.Category != pin.Category {
		return apperr.Invalid("category", "immutable", "cannot be changed after creation")
	}
	setIf(&pin.Name, p.Name)
	setIf(&pin.Description, p.Description)
	setIf(&pin.Lat, p.Lat)
	setIf(&pin.Lng, p.Lng)
	setIf(&pin.Completed, p.Completed)
	setIf(&pin.VendorName, p.VendorName)
	setIf(&pin.FunFact, p.FunFact)
	if p.Media != nil {
		pin.Media = slices.Clone(*p.Media)
	}
	return nil
}

type UserPatch struct {
	Username      *string   `json:"username"`
	CompletedPins *[]string `json:"completedPins"`
	TotalPhotos   *int      `json:"totalPhotos" validate:"omitempty,gte=0"`
	TotalRatings  *int      `json:"totalRatings" validate:"omitempty,gte=0"`
}

func (p UserPatch) Apply(u *User) error {
	setIf(&u.Username, p.Username)
	setIf(&u.TotalPhotos, p.TotalPhotos)
	setIf(&u.TotalRatings, p.TotalRatings)
	if p.CompletedPins != nil {
		u.CompletedPins = Dedupe(*p.CompletedPins)
	}
	return nil
}

type PostPatch struct {
	Content  *string `json:"content" validate:"omitempty,min=1"`
	Location *string `json:"location"`
	ImageURL *string `json:"imageUrl"`
	Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Likes    *int    `json:"likes" validate:"omitempty,gte=0"`
}

func (p PostPatch) Apply(post *Post) error {
	setIf(&post.Content, p.Content)
	setIf(&post.Location, p.Location)
	setIf(&post.ImageURL, p.ImageURL)
	setIf(&post.Likes, p.Likes)
	if p.Rating != nil {
		r := *p.Rating
		post.Rating = &r
	}
	return nil
}

type RatingPatch struct {
	Score      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Review     *string `json:"review"`
	VendorName *string `json:"vendorName"`
}

func (p RatingPatch) Apply(r *Rating) error {
	setIf(&r.Score, p.Score)
	setIf(&r.Review, p.Review)
	setIf(&r.VendorName, p.VendorName)
	return nil
}

type AnalyticsPatch struct {
	PageViews    *int `json:"pageViews" validate:"omitempty,gte=0"`
	ActiveUsers  *int `json:"activeUsers" validate:"omitempty,gte=0"`
	QRScans      *int `json:"qrScans" validate:"omitempty,gte=0"`
	PhotoUploads *int `json:"photoUploads" validate:"omitempty,gte=0"`
}

func (p AnalyticsPatch) Apply(a *Analytics) error {
	setIf(&a.PageViews, p.PageViews)
	setIf(&a.ActiveUsers, p.ActiveUsers)
	setIf(&a.QRScans, p.QRScans)
	setIf(&a.PhotoUploads, p.PhotoUploads)
	return nil
}

// Dedupe drops repeated ids, keeping the first occurrence of each.
func Dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func setIf[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
