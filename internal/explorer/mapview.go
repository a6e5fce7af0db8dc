package explorer

import (
	"backend-trailhub/internal/shared/geo"
)

// MapView is the rendering surface the coordinator drives. Implementations
// wrap whatever map widget the client uses.
type MapView interface {
	PlaceMarker(id string, at geo.Point, style MarkerStyle)
	RestyleMarker(id string, style MarkerStyle)
	RemoveMarker(id string)
	// ShowRoute draws the line between the endpoints and the distinct
	// start and end markers.
	ShowRoute(r Route)
	ClearRoute()
	FitBounds(b geo.Bounds)
}

// Route is a straight line between two pins. No path finding is done.
type Route struct {
	StartID    string
	EndID      string
	Start      geo.Point
	End        geo.Point
	DistanceKm float64
}

func newRoute(start, end geo.Point, startID, endID string) Route {
	return Route{
		StartID:    startID,
		EndID:      endID,
		Start:      start,
		End:        end,
		DistanceKm: geo.DistanceKm(start, end),
	}
}

func (r Route) Bounds() geo.Bounds {
	return geo.BoundsOf(r.Start, r.End)
}
