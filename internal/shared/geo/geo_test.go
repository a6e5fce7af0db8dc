package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceKmSamePoint(t *testing.T) {
	p := Point{Lat: 1.3387, Lng: 103.7258}
	if DistanceKm(p, p) != 0 {
		t.Fatalf("expected zero distance")
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf(Point{1.3405, 103.7240}, Point{1.3380, 103.7270})
	if b.SouthWest != (Point{1.3380, 103.7240}) || b.NorthEast != (Point{1.3405, 103.7270}) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	if !b.Contains(Point{1.339, 103.725}) {
		t.Fatalf("expected point inside")
	}
	if b.Contains(Point{1.35, 103.725}) {
		t.Fatalf("expected point outside")
	}
	if (BoundsOf() != Bounds{}) {
		t.Fatalf("expected zero bounds")
	}
}
