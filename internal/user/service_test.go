package user

import (
	"context"
	"sync"
	"testing"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/catalog"
	"backend-trailhub/internal/store"
)

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s := store.NewMemory()
	if _, err := catalog.Seed(context.Background(), s.Pins, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewService(s), s
}

func TestUpsertCreatesThenMerges(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, created, err := svc.Upsert(ctx, UpsertRequest{UID: "auth-1", Username: "ana", CompletedPins: []string{"p1", "p1"}})
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}
	if len(u.CompletedPins) != 1 {
		t.Fatalf("expected deduped pins, got %v", u.CompletedPins)
	}

	photos := 4
	merged, created, err := svc.Upsert(ctx, UpsertRequest{UID: "auth-1", CompletedPins: []string{"p2", "p1"}, TotalPhotos: &photos})
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}
	if merged.ID != u.ID {
		t.Fatalf("expected same user to be merged")
	}
	if merged.Username != "ana" {
		t.Fatalf("empty username must not clear the stored one")
	}
	if len(merged.CompletedPins) != 2 || merged.CompletedPins[1] != "p2" || merged.TotalPhotos != 4 {
		t.Fatalf("unexpected merge result %+v", merged)
	}
}

func TestUpsertConcurrentSameUID(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.Upsert(ctx, UpsertRequest{UID: "auth-race"}); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	users, _ := s.Users.List(ctx, store.Where("uid", "auth-race"))
	if len(users) != 1 {
		t.Fatalf("expected exactly one user per uid, got %d", len(users))
	}
}

func TestLookupsAndDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	u, _, _ := svc.Upsert(ctx, UpsertRequest{UID: "auth-1"})

	got, ok, err := svc.GetByUID(ctx, "auth-1")
	if err != nil || !ok || got.ID != u.ID {
		t.Fatalf("get by uid: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := svc.GetByUID(ctx, "nobody"); ok {
		t.Fatalf("expected unknown uid to be absent")
	}
	if _, err := svc.Get(ctx, "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, u.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCompletedInCompletionOrder(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()
	u, _, _ := svc.Upsert(ctx, UpsertRequest{UID: "auth-1", CompletedPins: []string{"p5", "p1", "gone"}})

	pins, err := svc.Completed(ctx, u.ID)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(pins) != 2 || pins[0].ID != "p5" || pins[1].ID != "p1" {
		t.Fatalf("unexpected completed pins %+v", pins)
	}

	if _, err := s.Pins.Delete(ctx, "p5"); err != nil {
		t.Fatalf("delete pin: %v", err)
	}
	pins, _ = svc.Completed(ctx, u.ID)
	if len(pins) != 1 {
		t.Fatalf("expected deleted pin to be skipped")
	}
}

func TestUpdateDedupesAndValidates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	u, _, _ := svc.Upsert(ctx, UpsertRequest{UID: "auth-1"})

	pins := []string{"p1", "p2", "p1"}
	updated, err := svc.Update(ctx, u.ID, store.UserPatch{CompletedPins: &pins})
	if err != nil || len(updated.CompletedPins) != 2 {
		t.Fatalf("update: %v %v", updated.CompletedPins, err)
	}
	if _, err := svc.Update(ctx, "missing", store.UserPatch{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
