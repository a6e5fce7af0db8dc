package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-trailhub/internal/shared/geo"
	"backend-trailhub/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSeedPinsShape(t *testing.T) {
	pins := Pins()
	if len(pins) != 20 {
		t.Fatalf("expected 20 pins, got %d", len(pins))
	}
	if TrailCount() != 6 {
		t.Fatalf("expected 6 trail pins, got %d", TrailCount())
	}

	seen := map[string]bool{}
	for _, p := range pins {
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
		if !FestivalBounds.Contains(geo.Point{Lat: p.Lat, Lng: p.Lng}) {
			t.Fatalf("pin %s outside festival bounds", p.ID)
		}
		if p.Category == store.CategoryVendor && p.VendorName == "" {
			t.Fatalf("vendor %s missing vendor name", p.ID)
		}
		if p.Completed {
			t.Fatalf("seed pin %s should start incomplete", p.ID)
		}
	}
}

func TestPinsReturnsCopies(t *testing.T) {
	pins := Pins()
	pins[0].Media[0].URL = "changed"
	if Pins()[0].Media[0].URL == "changed" {
		t.Fatalf("seed data mutated through Pins()")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	created, err := Seed(ctx, s.Pins, nil)
	if err != nil || created != 20 {
		t.Fatalf("first seed: created=%d err=%v", created, err)
	}

	done := true
	if _, _, err := s.Pins.Update(ctx, "p1", store.PinPatch{Completed: &done}); err != nil {
		t.Fatalf("complete p1: %v", err)
	}

	created, err = Seed(ctx, s.Pins, nil)
	if err != nil || created != 0 {
		t.Fatalf("second seed: created=%d err=%v", created, err)
	}
	p1, _, _ := s.Pins.Get(ctx, "p1")
	if !p1.Completed {
		t.Fatalf("reseeding must keep completion state")
	}

	list, _ := s.Pins.List(ctx)
	if list[0].ID != "p1" || list[19].ID != "p20" {
		t.Fatalf("expected catalog order, got %s..%s", list[0].ID, list[19].ID)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewCache(client, time.Minute, nil)
	ctx := context.Background()

	if _, ok, err := cache.Pins(ctx); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	if err := cache.SetPins(ctx, 0, Pins()); err != nil {
		t.Fatalf("set pins: %v", err)
	}
	pins, ok, err := cache.Pins(ctx)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if len(pins) != 20 || pins[2].VendorName != "Satay King" {
		t.Fatalf("unexpected cached pins")
	}
	if ttl := mr.TTL(pinsKey); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Pins(ctx); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	_ = mr.Set(pinsKey, "{not json")

	cache := NewCache(client, time.Minute, nil)
	if _, ok, err := cache.Pins(context.Background()); ok || err != nil {
		t.Fatalf("expected corrupt entry to read as a miss, ok=%v err=%v", ok, err)
	}
}

func TestCacheWithoutRedis(t *testing.T) {
	cache := NewCache(nil, time.Minute, nil)
	ctx := context.Background()
	if _, ok, err := cache.Pins(ctx); ok || err != nil {
		t.Fatalf("expected silent miss")
	}
	if cache.Enabled() {
		t.Fatalf("cache without a client must report disabled")
	}
	if err := cache.SetPins(ctx, 0, Pins()); err != nil {
		t.Fatalf("expected no-op set")
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("expected no-op invalidate")
	}
}

func TestCacheSkipsWriteAfterInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewCache(client, time.Minute, nil)
	ctx := context.Background()

	gen, err := cache.Generation(ctx)
	if err != nil || gen != 0 {
		t.Fatalf("expected generation 0, got %d %v", gen, err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if err := cache.SetPins(ctx, gen, Pins()); !errors.Is(err, ErrStale) {
		t.Fatalf("expected stale write to be refused, got %v", err)
	}
	if mr.Exists(pinsKey) {
		t.Fatalf("stale list must not be cached")
	}

	fresh, _ := cache.Generation(ctx)
	if fresh != 1 {
		t.Fatalf("expected generation 1, got %d", fresh)
	}
	if err := cache.SetPins(ctx, fresh, Pins()); err != nil {
		t.Fatalf("set with current generation: %v", err)
	}
	if !mr.Exists(pinsKey) {
		t.Fatalf("expected list cached at current generation")
	}
}
