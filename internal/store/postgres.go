package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/db"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// NewPostgres returns a store backed by the given pool.
func NewPostgres(q db.Querier) *Store {
	return &Store{
		Pins:      &pgTable[Pin]{q: q, kind: pinKind, def: pinTable, now: time.Now},
		Users:     &pgTable[User]{q: q, kind: userKind, def: userTable, now: time.Now},
		Posts:     &pgTable[Post]{q: q, kind: postKind, def: postTable, now: time.Now},
		Ratings:   &pgTable[Rating]{q: q, kind: ratingKind, def: ratingTable, now: time.Now},
		Analytics: &pgTable[Analytics]{q: q, kind: analyticsKind, def: analyticsTable, now: time.Now},
		Events:    &pgTable[Event]{q: q, kind: eventKind, def: eventTable, now: time.Now},
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// tableDef maps one entity onto its table. columns[0] is always id and
// values returns arguments in column order.
type tableDef[T any] struct {
	table   string
	columns []string
	values  func(*T) ([]any, error)
	scan    func(scanner) (T, error)
	filters map[string]string
	orderBy string
}

type pgTable[T any] struct {
	q    db.Querier
	kind kind[T]
	def  tableDef[T]
	now  func() time.Time
}

func (t *pgTable[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.def.columns, ", ") + " FROM " + t.def.table
}

func (t *pgTable[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	v = t.kind.clone(v)
	if err := t.kind.prepare(&v, t.now()); err != nil {
		return zero, err
	}
	args, err := t.def.values(&v)
	if err != nil {
		return zero, apperr.Internal("encode "+t.kind.name, err)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.def.table, strings.Join(t.def.columns, ", "), strings.Join(placeholders, ", "))
	if _, err := t.q.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return zero, apperr.Conflict(t.kind.name + " already exists")
		}
		return zero, apperr.Internal("insert "+t.kind.name, err)
	}
	return v, nil
}

func (t *pgTable[T]) Get(ctx context.Context, id string) (T, bool, error) {
	v, err := t.def.scan(t.q.QueryRow(ctx, t.selectSQL()+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return v, false, nil
	}
	if err != nil {
		return v, false, apperr.Internal("get "+t.kind.name, err)
	}
	return v, true, nil
}

func (t *pgTable[T]) List(ctx context.Context, filters ...Filter) ([]T, error) {
	sql := t.selectSQL()
	args := make([]any, 0, len(filters))
	conds := make([]string, 0, len(filters))
	for _, f := range filters {
		col, ok := t.def.filters[f.Field]
		if !ok {
			return nil, apperr.Invalid(f.Field, "filter", "is not a filterable field")
		}
		args = append(args, f.Value)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY " + t.def.orderBy

	rows, err := t.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Internal("list "+t.kind.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := t.def.scan(rows)
		if err != nil {
			return nil, apperr.Internal("scan "+t.kind.name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("list "+t.kind.name, err)
	}
	return out, nil
}

// Update locks the row for the duration of the patch so concurrent updates
// to the same entity serialize.
func (t *pgTable[T]) Update(ctx context.Context, id string, patch Patch[T]) (T, bool, error) {
	var zero T
	tx, err := t.q.Begin(ctx)
	if err != nil {
		return zero, false, apperr.Internal("begin update "+t.kind.name, err)
	}

	current, err := t.def.scan(tx.QueryRow(ctx, t.selectSQL()+" WHERE id = $1 FOR UPDATE", id))
	if errors.Is(err, pgx.ErrNoRows) {
		_ = tx.Rollback(ctx)
		return zero, false, nil
	}
	if err != nil {
		_ = tx.Rollback(ctx)
		return zero, false, apperr.Internal("lock "+t.kind.name, err)
	}

	next, err := t.kind.patch(current, patch, t.now())
	if err != nil {
		_ = tx.Rollback(ctx)
		return zero, true, err
	}
	args, err := t.def.values(&next)
	if err != nil {
		_ = tx.Rollback(ctx)
		return zero, true, apperr.Internal("encode "+t.kind.name, err)
	}

	sets := make([]string, 0, len(t.def.columns)-1)
	for i, col := range t.def.columns[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", t.def.table, strings.Join(sets, ", "))
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		_ = tx.Rollback(ctx)
		return zero, true, apperr.Internal("update "+t.kind.name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, true, apperr.Internal("commit "+t.kind.name, err)
	}
	return next, true, nil
}

func (t *pgTable[T]) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := t.q.Exec(ctx, "DELETE FROM "+t.def.table+" WHERE id = $1", id)
	if err != nil {
		return false, apperr.Internal("delete "+t.kind.name, err)
	}
	return tag.RowsAffected() > 0, nil
}

var pinTable = tableDef[Pin]{
	table:   "pins",
	columns: []string{"id", "name", "description", "lat", "lng", "category", "completed", "vendor_name", "media", "fun_fact", "created_at"},
	values: func(p *Pin) ([]any, error) {
		media, err := marshalOr(p.Media, "[]")
		if err != nil {
			return nil, err
		}
		return []any{p.ID, p.Name, p.Description, p.Lat, p.Lng, string(p.Category), p.Completed, p.VendorName, media, p.FunFact, p.CreatedAt}, nil
	},
	scan: func(s scanner) (Pin, error) {
		var p Pin
		var category string
		var media []byte
		if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Lat, &p.Lng, &category, &p.Completed, &p.VendorName, &media, &p.FunFact, &p.CreatedAt); err != nil {
			return Pin{}, err
		}
		p.Category = Category(category)
		if err := unmarshalIf(media, &p.Media); err != nil {
			return Pin{}, err
		}
		return p, nil
	},
	filters: map[string]string{"id": "id", "category": "category"},
	orderBy: "seq",
}

var userTable = tableDef[User]{
	table:   "users",
	columns: []string{"id", "uid", "username", "completed_pins", "total_photos", "total_ratings", "created_at"},
	values: func(u *User) ([]any, error) {
		pins, err := marshalOr(u.CompletedPins, "[]")
		if err != nil {
			return nil, err
		}
		return []any{u.ID, u.UID, u.Username, pins, u.TotalPhotos, u.TotalRatings, u.CreatedAt}, nil
	},
	scan: func(s scanner) (User, error) {
		var u User
		var pins []byte
		if err := s.Scan(&u.ID, &u.UID, &u.Username, &pins, &u.TotalPhotos, &u.TotalRatings, &u.CreatedAt); err != nil {
			return User{}, err
		}
		u.CompletedPins = []string{}
		if err := unmarshalIf(pins, &u.CompletedPins); err != nil {
			return User{}, err
		}
		return u, nil
	},
	filters: map[string]string{"id": "id", "uid": "uid"},
	orderBy: "seq",
}

var postTable = tableDef[Post]{
	table:   "posts",
	columns: []string{"id", "user_id", "kind", "content", "location", "image_url", "pin_id", "rating", "likes", "created_at"},
	values: func(p *Post) ([]any, error) {
		rating := 0
		if p.Rating != nil {
			rating = *p.Rating
		}
		return []any{p.ID, p.UserID, string(p.Kind), p.Content, p.Location, p.ImageURL, p.PinID, rating, p.Likes, p.CreatedAt}, nil
	},
	scan: func(s scanner) (Post, error) {
		var p Post
		var kindText string
		var rating int
		if err := s.Scan(&p.ID, &p.UserID, &kindText, &p.Content, &p.Location, &p.ImageURL, &p.PinID, &rating, &p.Likes, &p.CreatedAt); err != nil {
			return Post{}, err
		}
		p.Kind = PostKind(kindText)
		// 0 is stored for posts without a rating
		if rating > 0 {
			p.Rating = &rating
		}
		return p, nil
	},
	filters: map[string]string{"id": "id", "userId": "user_id", "pinId": "pin_id", "kind": "kind"},
	orderBy: "created_at DESC, seq DESC",
}

var ratingTable = tableDef[Rating]{
	table:   "ratings",
	columns: []string{"id", "user_id", "pin_id", "rating", "review", "vendor_name", "created_at"},
	values: func(r *Rating) ([]any, error) {
		return []any{r.ID, r.UserID, r.PinID, r.Score, r.Review, r.VendorName, r.CreatedAt}, nil
	},
	scan: func(s scanner) (Rating, error) {
		var r Rating
		err := s.Scan(&r.ID, &r.UserID, &r.PinID, &r.Score, &r.Review, &r.VendorName, &r.CreatedAt)
		return r, err
	},
	filters: map[string]string{"id": "id", "userId": "user_id", "pinId": "pin_id"},
	orderBy: "created_at DESC, seq DESC",
}

var analyticsTable = tableDef[Analytics]{
	table:   "analytics",
	columns: []string{"id", "page_views", "active_users", "qr_scans", "photo_uploads", "updated_at"},
	values: func(a *Analytics) ([]any, error) {
		return []any{a.ID, a.PageViews, a.ActiveUsers, a.QRScans, a.PhotoUploads, a.UpdatedAt}, nil
	},
	scan: func(s scanner) (Analytics, error) {
		var a Analytics
		err := s.Scan(&a.ID, &a.PageViews, &a.ActiveUsers, &a.QRScans, &a.PhotoUploads, &a.UpdatedAt)
		return a, err
	},
	filters: map[string]string{"id": "id"},
	orderBy: "seq",
}

var eventTable = tableDef[Event]{
	table:   "events",
	columns: []string{"id", "event_type", "data", "created_at"},
	values: func(e *Event) ([]any, error) {
		data, err := marshalOr(e.Data, "{}")
		if err != nil {
			return nil, err
		}
		return []any{e.ID, e.EventType, data, e.CreatedAt}, nil
	},
	scan: func(s scanner) (Event, error) {
		var e Event
		var data []byte
		if err := s.Scan(&e.ID, &e.EventType, &data, &e.CreatedAt); err != nil {
			return Event{}, err
		}
		e.Data = map[string]any{}
		if err := unmarshalIf(data, &e.Data); err != nil {
			return Event{}, err
		}
		return e, nil
	},
	filters: map[string]string{"id": "id", "eventType": "event_type"},
	orderBy: "seq",
}

// marshalOr encodes v for a JSONB column, using fallback for empty values.
func marshalOr[V any](v V, fallback string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte(fallback), nil
	}
	return b, nil
}

func unmarshalIf(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
