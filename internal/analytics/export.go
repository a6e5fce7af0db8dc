package analytics

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"
)

var exportHeader = []string{"Type", "ID", "User/Vendor", "Location", "Rating", "Content", "Created At"}

// Export writes every post and rating as CSV rows under one header and
// records a csv_export event with the row count.
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return 0, err
	}
	ratings, err := s.ratings.List(ctx)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}
	for _, p := range posts {
		score := ""
		if p.Rating != nil {
			score = strconv.Itoa(*p.Rating)
		}
		row := []string{"Post", p.ID, p.UserID, p.Location, score, p.Content, p.CreatedAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	for _, r := range ratings {
		who := r.VendorName
		if who == "" {
			who = r.UserID
		}
		row := []string{"Rating", r.ID, who, "", strconv.Itoa(r.Score), r.Review, r.CreatedAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	n := len(posts) + len(ratings)
	if _, err := s.Track(ctx, EventCSVExport, map[string]any{"recordCount": n}); err != nil {
		s.log.Warn("csv export not tracked", zap.Error(err))
	}
	return n, nil
}
