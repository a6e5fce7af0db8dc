// Package explorer holds the client-side map logic: marker bookkeeping, the
// inspect and route-planning click modes and the trail completion cascade.
package explorer

import (
	"errors"
	"slices"
	"sync"

	"backend-trailhub/internal/shared/geo"
	"backend-trailhub/internal/store"
)

var ErrUnknownPin = errors.New("explorer: unknown pin")

type Mode int

const (
	ModeInspect Mode = iota
	ModeRoutePlanning
)

func (m Mode) String() string {
	if m == ModeRoutePlanning {
		return "route-planning"
	}
	return "inspect"
}

type RouteStage int

const (
	StageAwaitingStart RouteStage = iota
	StageAwaitingEnd
	StageRouteActive
)

func (s RouteStage) String() string {
	switch s {
	case StageAwaitingEnd:
		return "awaiting-end"
	case StageRouteActive:
		return "route-active"
	default:
		return "awaiting-start"
	}
}

// Action is what a pin click resolved to.
type Action int

const (
	ActionNone Action = iota
	ActionOpenDetail
	ActionRouteStart
	ActionRouteDrawn
)

type Outcome struct {
	Action Action
	Pin    store.Pin
	Route  *Route
}

// Progress counts completed trail-challenge pins.
type Progress struct {
	Completed int
	Total     int
}

func (p Progress) AllDone() bool {
	return p.Total > 0 && p.Completed == p.Total
}

type Hooks struct {
	// OnInspect runs for every click that opens a pin's detail view.
	OnInspect func(store.Pin)
	// OnCelebrate runs once each time the last trail pin is completed.
	OnCelebrate func(Progress)
}

type Coordinator struct {
	mu    sync.Mutex
	view  MapView
	hooks Hooks

	order   []string
	pins    map[string]store.Pin
	markers map[string]MarkerStyle

	mode    Mode
	stage   RouteStage
	startID string
	route   *Route

	celebrated bool
}

func NewCoordinator(view MapView, hooks Hooks) *Coordinator {
	return &Coordinator{
		view:    view,
		hooks:   hooks,
		pins:    map[string]store.Pin{},
		markers: map[string]MarkerStyle{},
	}
}

// SetPins replaces the pin list. Markers are restyled in place when the set
// of pin ids is unchanged and rebuilt otherwise. It reports whether a
// rebuild happened.
func (c *Coordinator) SetPins(pins []store.Pin) bool {
	c.mu.Lock()
	ids := make([]string, 0, len(pins))
	for _, p := range pins {
		ids = append(ids, p.ID)
	}
	rebuild := !sameIDs(c.order, ids)

	flipped := false
	if rebuild {
		for _, id := range c.order {
			c.view.RemoveMarker(id)
		}
		c.markers = make(map[string]MarkerStyle, len(pins))
		prev := c.pins
		c.pins = make(map[string]store.Pin, len(pins))
		for _, p := range pins {
			if old, ok := prev[p.ID]; ok && completedTrail(old, p) {
				flipped = true
			}
			c.pins[p.ID] = p
			style := StyleFor(p)
			c.markers[p.ID] = style
			c.view.PlaceMarker(p.ID, geo.Point{Lat: p.Lat, Lng: p.Lng}, style)
		}
		c.order = ids
		c.dropRouteToMissingPins()
	} else {
		for _, p := range pins {
			if c.applyLocked(p) {
				flipped = true
			}
		}
		c.order = ids
	}
	celebrate, progress := c.cascadeLocked(flipped)
	c.mu.Unlock()

	c.fireCelebrate(celebrate, progress)
	return rebuild
}

// ApplyPin updates one known pin in place, typically from an API response.
func (c *Coordinator) ApplyPin(p store.Pin) error {
	c.mu.Lock()
	if _, ok := c.pins[p.ID]; !ok {
		c.mu.Unlock()
		return ErrUnknownPin
	}
	flipped := c.applyLocked(p)
	celebrate, progress := c.cascadeLocked(flipped)
	c.mu.Unlock()

	c.fireCelebrate(celebrate, progress)
	return nil
}

// applyLocked stores p and restyles its marker if its look changed. It
// reports whether a trail pin became completed.
func (c *Coordinator) applyLocked(p store.Pin) bool {
	old := c.pins[p.ID]
	c.pins[p.ID] = p
	if style := StyleFor(p); c.markers[p.ID] != style {
		c.markers[p.ID] = style
		c.view.RestyleMarker(p.ID, style)
	}
	return completedTrail(old, p)
}

func completedTrail(old, cur store.Pin) bool {
	return cur.IsTrail() && cur.Completed && !old.Completed
}

// cascadeLocked decides whether the celebration fires. It fires when a
// trail pin flip brings the count to the total and it has not fired since
// the count was last below the total.
func (c *Coordinator) cascadeLocked(flipped bool) (bool, Progress) {
	progress := c.progressLocked()
	if !progress.AllDone() {
		c.celebrated = false
		return false, progress
	}
	if flipped && !c.celebrated {
		c.celebrated = true
		return true, progress
	}
	return false, progress
}

func (c *Coordinator) fireCelebrate(fire bool, p Progress) {
	if fire && c.hooks.OnCelebrate != nil {
		c.hooks.OnCelebrate(p)
	}
}

// Click resolves a pin click according to the current mode.
func (c *Coordinator) Click(pinID string) (Outcome, error) {
	c.mu.Lock()
	p, ok := c.pins[pinID]
	if !ok {
		c.mu.Unlock()
		return Outcome{}, ErrUnknownPin
	}

	if c.mode == ModeInspect || c.stage == StageRouteActive {
		c.mu.Unlock()
		if c.hooks.OnInspect != nil {
			c.hooks.OnInspect(p)
		}
		return Outcome{Action: ActionOpenDetail, Pin: p}, nil
	}
	defer c.mu.Unlock()

	switch c.stage {
	case StageAwaitingStart:
		c.startID = p.ID
		c.stage = StageAwaitingEnd
		return Outcome{Action: ActionRouteStart, Pin: p}, nil
	default:
		if p.ID == c.startID {
			return Outcome{Action: ActionNone, Pin: p}, nil
		}
		start := c.pins[c.startID]
		r := newRoute(geo.Point{Lat: start.Lat, Lng: start.Lng}, geo.Point{Lat: p.Lat, Lng: p.Lng}, start.ID, p.ID)
		c.route = &r
		c.stage = StageRouteActive
		c.view.ShowRoute(r)
		c.view.FitBounds(r.Bounds())
		out := r
		return Outcome{Action: ActionRouteDrawn, Pin: p, Route: &out}, nil
	}
}

func (c *Coordinator) EnterRoutePlanning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeRoutePlanning {
		return
	}
	c.mode = ModeRoutePlanning
	c.resetRouteLocked()
}

// NewRoute clears the current route and waits for a new start pin.
func (c *Coordinator) NewRoute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeRoutePlanning {
		return
	}
	c.resetRouteLocked()
}

func (c *Coordinator) ExitRoutePlanning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetRouteLocked()
	c.mode = ModeInspect
}

func (c *Coordinator) resetRouteLocked() {
	if c.route != nil {
		c.view.ClearRoute()
	}
	c.route = nil
	c.startID = ""
	c.stage = StageAwaitingStart
}

func (c *Coordinator) dropRouteToMissingPins() {
	if c.mode != ModeRoutePlanning {
		return
	}
	_, startOK := c.pins[c.startID]
	endOK := true
	if c.route != nil {
		_, endOK = c.pins[c.route.EndID]
	}
	if c.startID != "" && (!startOK || !endOK) {
		c.resetRouteLocked()
	}
}

func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Coordinator) Stage() RouteStage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Route returns the active route, if any.
func (c *Coordinator) Route() (Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.route == nil {
		return Route{}, false
	}
	return *c.route, true
}

func (c *Coordinator) Pin(id string) (store.Pin, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pins[id]
	return p, ok
}

// Pins returns the pins in list order.
func (c *Coordinator) Pins() []store.Pin {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]store.Pin, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.pins[id])
	}
	return out
}

func (c *Coordinator) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *Coordinator) Celebrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.celebrated
}

func (c *Coordinator) progressLocked() Progress {
	var p Progress
	for _, pin := range c.pins {
		if !pin.IsTrail() {
			continue
		}
		p.Total++
		if pin.Completed {
			p.Completed++
		}
	}
	return p
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
