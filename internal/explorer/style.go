package explorer

import "backend-trailhub/internal/store"

// MarkerStyle is how a pin is drawn on the map.
type MarkerStyle struct {
	Color     string
	Icon      string
	Completed bool
}

const (
	colorCompleted = "#ffc107"
	colorVendor    = "#ff6b35"
	colorFacility  = "#8b5cf6"
	colorEvent     = "#2563eb"
	colorTrail     = "#00703c"
)

// StyleFor picks the marker style for p. A completed pin wins over its
// category color.
func StyleFor(p store.Pin) MarkerStyle {
	if p.Completed {
		return MarkerStyle{Color: colorCompleted, Icon: "check", Completed: true}
	}
	switch p.Category {
	case store.CategoryVendor:
		return MarkerStyle{Color: colorVendor, Icon: "utensils"}
	case store.CategoryFacility:
		return MarkerStyle{Color: colorFacility, Icon: "info"}
	case store.CategoryEvent:
		return MarkerStyle{Color: colorEvent, Icon: "star"}
	default:
		return MarkerStyle{Color: colorTrail, Icon: "leaf"}
	}
}
