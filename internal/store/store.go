// Package store is the entity store: create/read/update/delete per entity
// kind, backed by memory or postgres.
package store

import (
	"context"
	"maps"
	"slices"
	"time"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/validate"

	"github.com/google/uuid"
)

// Repository is the CRUD contract for one entity kind. Absence is reported
// through the bool results, never as an error.
type Repository[T any] interface {
	Create(ctx context.Context, v T) (T, error)
	Get(ctx context.Context, id string) (T, bool, error)
	List(ctx context.Context, filters ...Filter) ([]T, error)
	Update(ctx context.Context, id string, patch Patch[T]) (T, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Patch mutates a copy of the stored entity. Returning an error refuses the
// update and leaves the stored entity as it was.
type Patch[T any] interface {
	Apply(v *T) error
}

type PatchFunc[T any] func(v *T) error

func (f PatchFunc[T]) Apply(v *T) error {
	return f(v)
}

// Filter is a field-equality predicate on the entity's json field name.
type Filter struct {
	Field string
	Value string
}

func Where(field, value string) Filter {
	return Filter{Field: field, Value: value}
}

type Store struct {
	Pins      Repository[Pin]
	Users     Repository[User]
	Posts     Repository[Post]
	Ratings   Repository[Rating]
	Analytics Repository[Analytics]
	Events    Repository[Event]
}

// kind describes how the generic tables handle one entity type.
type kind[T any] struct {
	name        string
	id          func(*T) *string
	created     func(*T) *time.Time
	updated     func(*T) *time.Time
	field       func(*T, string) (string, bool)
	unique      string
	newestFirst bool
	clone       func(T) T
}

// prepare assigns an id when missing, stamps timestamps and validates.
func (k kind[T]) prepare(v *T, now time.Time) error {
	if id := k.id(v); *id == "" {
		*id = uuid.NewString()
	}
	if k.created != nil {
		*k.created(v) = now
	}
	if k.updated != nil {
		*k.updated(v) = now
	}
	return validate.Struct(*v)
}

// patch applies p to a copy of current and validates the result.
func (k kind[T]) patch(current T, p Patch[T], now time.Time) (T, error) {
	next := k.clone(current)
	if err := p.Apply(&next); err != nil {
		return current, err
	}
	// identity and creation time are server-owned
	*k.id(&next) = *k.id(&current)
	if k.created != nil {
		*k.created(&next) = *k.created(&current)
	}
	if k.updated != nil {
		*k.updated(&next) = now
	}
	if err := validate.Struct(next); err != nil {
		return current, err
	}
	return next, nil
}

func (k kind[T]) matches(v *T, filters []Filter) (bool, error) {
	for _, f := range filters {
		got, ok := k.field(v, f.Field)
		if !ok {
			return false, apperr.Invalid(f.Field, "filter", "is not a filterable field")
		}
		if got != f.Value {
			return false, nil
		}
	}
	return true, nil
}

var pinKind = kind[Pin]{
	name:    "Pin",
	id:      func(p *Pin) *string { return &p.ID },
	created: func(p *Pin) *time.Time { return &p.CreatedAt },
	field: func(p *Pin, f string) (string, bool) {
		switch f {
		case "id":
			return p.ID, true
		case "category":
			return string(p.Category), true
		}
		return "", false
	},
	clone: func(p Pin) Pin {
		p.Media = slices.Clone(p.Media)
		return p
	},
}

var userKind = kind[User]{
	name:    "User",
	id:      func(u *User) *string { return &u.ID },
	created: func(u *User) *time.Time { return &u.CreatedAt },
	field: func(u *User, f string) (string, bool) {
		switch f {
		case "id":
			return u.ID, true
		case "uid":
			return u.UID, true
		}
		return "", false
	},
	unique: "uid",
	clone: func(u User) User {
		u.CompletedPins = slices.Clone(u.CompletedPins)
		if u.CompletedPins == nil {
			u.CompletedPins = []string{}
		}
		return u
	},
}

var postKind = kind[Post]{
	name:    "Post",
	id:      func(p *Post) *string { return &p.ID },
	created: func(p *Post) *time.Time { return &p.CreatedAt },
	field: func(p *Post, f string) (string, bool) {
		switch f {
		case "id":
			return p.ID, true
		case "userId":
			return p.UserID, true
		case "pinId":
			return p.PinID, true
		case "kind":
			return string(p.Kind), true
		}
		return "", false
	},
	newestFirst: true,
	clone: func(p Post) Post {
		if p.Rating != nil {
			r := *p.Rating
			p.Rating = &r
		}
		return p
	},
}

var ratingKind = kind[Rating]{
	name:    "Rating",
	id:      func(r *Rating) *string { return &r.ID },
	created: func(r *Rating) *time.Time { return &r.CreatedAt },
	field: func(r *Rating, f string) (string, bool) {
		switch f {
		case "id":
			return r.ID, true
		case "userId":
			return r.UserID, true
		case "pinId":
			return r.PinID, true
		}
		return "", false
	},
	newestFirst: true,
	clone:       func(r Rating) Rating { return r },
}

var analyticsKind = kind[Analytics]{
	name:    "Analytics",
	id:      func(a *Analytics) *string { return &a.ID },
	updated: func(a *Analytics) *time.Time { return &a.UpdatedAt },
	field: func(a *Analytics, f string) (string, bool) {
		if f == "id" {
			return a.ID, true
		}
		return "", false
	},
	clone: func(a Analytics) Analytics { return a },
}

var eventKind = kind[Event]{
	name:    "Event",
	id:      func(e *Event) *string { return &e.ID },
	created: func(e *Event) *time.Time { return &e.CreatedAt },
	field: func(e *Event, f string) (string, bool) {
		switch f {
		case "id":
			return e.ID, true
		case "eventType":
			return e.EventType, true
		}
		return "", false
	},
	clone: func(e Event) Event {
		e.Data = maps.Clone(e.Data)
		if e.Data == nil {
			e.Data = map[string]any{}
		}
		return e
	},
}
