package catalog

import (
	"context"
	"fmt"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/store"

	"go.uber.org/zap"
)

// Seed writes every catalog pin that the repository does not hold yet and
// returns how many were created. Existing pins are left as they are so a
// restart never resets completion state.
func Seed(ctx context.Context, pins store.Repository[store.Pin], log *zap.Logger) (int, error) {
	created := 0
	for _, p := range Pins() {
		_, exists, err := pins.Get(ctx, p.ID)
		if err != nil {
			return created, fmt.Errorf("seed pin %s: %w", p.ID, err)
		}
		if exists {
			continue
		}
		if _, err := pins.Create(ctx, p); err != nil {
			if apperr.Is(err, apperr.KindConflict) {
				continue
			}
			return created, fmt.Errorf("seed pin %s: %w", p.ID, err)
		}
		created++
	}
	if log != nil {
		log.Info("catalog seeded", zap.Int("created", created), zap.Int("total", len(seed)))
	}
	return created, nil
}
