package grid

import "testing"

func TestSmallMovementStaysATap(t *testing.T) {
	g := NewGestureClassifier(DefaultDragThreshold)
	g.PointerDown(Point{X: 100, Y: 100})
	if g.PointerMove(Point{X: 103, Y: 102}) {
		t.Fatal("movement under the threshold should not start a drag")
	}
	if kind := g.PointerUp(Point{X: 103, Y: 102}); kind != GestureTap {
		t.Fatalf("expected tap, got %v", kind)
	}
}

func TestMovementPastThresholdBecomesDrag(t *testing.T) {
	g := NewGestureClassifier(DefaultDragThreshold)
	g.PointerDown(Point{X: 100, Y: 100})
	if !g.PointerMove(Point{X: 100, Y: 110}) {
		t.Fatal("movement past the threshold should start a drag")
	}
	if kind := g.PointerUp(Point{X: 100, Y: 110}); kind != GestureDrag {
		t.Fatalf("expected drag, got %v", kind)
	}
}

func TestDragIsStickyEvenWhenPointerReturns(t *testing.T) {
	g := NewGestureClassifier(DefaultDragThreshold)
	g.PointerDown(Point{X: 100, Y: 100})
	g.PointerMove(Point{X: 120, Y: 100})
	// Back near the origin: still a drag, never a late tap.
	if !g.PointerMove(Point{X: 101, Y: 100}) {
		t.Fatal("a started drag should stay a drag")
	}
	if kind := g.PointerUp(Point{X: 101, Y: 100}); kind != GestureDrag {
		t.Fatalf("expected drag after returning to origin, got %v", kind)
	}
}

func TestPointerUpWithoutDownIsNoGesture(t *testing.T) {
	g := NewGestureClassifier(DefaultDragThreshold)
	if kind := g.PointerUp(Point{X: 50, Y: 50}); kind != GestureNone {
		t.Fatalf("expected no gesture, got %v", kind)
	}
}

func TestZeroThresholdFallsBackToDefault(t *testing.T) {
	g := NewGestureClassifier(0)
	g.PointerDown(Point{X: 0, Y: 0})
	if g.PointerMove(Point{X: 3, Y: 0}) {
		t.Fatal("default threshold should absorb a 3px wobble")
	}
}
