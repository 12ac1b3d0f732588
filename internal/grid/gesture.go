package grid

import "math"

// DefaultDragThreshold is the pointer displacement, in pixels, beyond which
// a pressed card stops being a tap candidate and becomes a drag.
const DefaultDragThreshold = 5.0

type Point struct {
	X float64
	Y float64
}

func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Hypot(dx, dy)
}

type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureTap
	GestureDrag
)

// GestureClassifier disambiguates a tap from a drag on a session card.
// A pointer-down starts a candidate gesture; once movement exceeds the
// threshold the gesture is a drag and stays a drag, suppressing the tap
// action even if the pointer returns near its origin.
type GestureClassifier struct {
	threshold float64
	origin    Point
	pressed   bool
	dragging  bool
}

func NewGestureClassifier(threshold float64) *GestureClassifier {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &GestureClassifier{threshold: threshold}
}

func (g *GestureClassifier) PointerDown(p Point) {
	g.origin = p
	g.pressed = true
	g.dragging = false
}

// PointerMove reports whether the gesture is now a drag.
func (g *GestureClassifier) PointerMove(p Point) bool {
	if !g.pressed {
		return false
	}
	if !g.dragging && g.origin.DistanceTo(p) > g.threshold {
		g.dragging = true
	}
	return g.dragging
}

// PointerUp ends the gesture and classifies it.
func (g *GestureClassifier) PointerUp(p Point) GestureKind {
	if !g.pressed {
		return GestureNone
	}
	g.pressed = false
	if g.dragging || g.origin.DistanceTo(p) > g.threshold {
		g.dragging = false
		return GestureDrag
	}
	return GestureTap
}

func (g *GestureClassifier) Dragging() bool {
	return g.pressed && g.dragging
}
