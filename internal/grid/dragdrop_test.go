package grid

import (
	"errors"
	"testing"
	"time"
)

type rejectingTarget struct {
	cell Slot
}

func (t rejectingTarget) Slot() Slot              { return t.cell }
func (t rejectingTarget) Accepts(DragSource) bool { return false }

func TestDropOnNewSlotReassigns(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	var gotID int64
	var gotSlot Slot

	coordinator := NewCoordinator(func(sessionID int64, to Slot) error {
		gotID = sessionID
		gotSlot = to
		return nil
	})

	src := DragSource{SessionID: 42, From: Slot{Date: day, StartTime: "07:00"}}
	target := SlotTarget{Cell: Slot{Date: day, StartTime: "09:00"}}

	if err := coordinator.Drop(src, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != 42 {
		t.Fatalf("expected session 42, got %d", gotID)
	}
	if gotSlot.StartTime != "09:00" {
		t.Fatalf("expected target slot 09:00, got %q", gotSlot.StartTime)
	}
}

func TestDropOnSameSlotIsNoOp(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	called := false

	coordinator := NewCoordinator(func(int64, Slot) error {
		called = true
		return nil
	})

	slot := Slot{Date: day, StartTime: "07:00"}
	err := coordinator.Drop(DragSource{SessionID: 42, From: slot}, SlotTarget{Cell: slot})
	if err != nil {
		t.Fatalf("same-slot drop should succeed silently, got %v", err)
	}
	if called {
		t.Fatal("same-slot drop must not reassign")
	}
}

func TestDropOnRejectingTarget(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	coordinator := NewCoordinator(func(int64, Slot) error {
		t.Fatal("rejected drop must not reassign")
		return nil
	})

	src := DragSource{SessionID: 42, From: Slot{Date: day, StartTime: "07:00"}}
	target := rejectingTarget{cell: Slot{Date: day, StartTime: "09:00"}}

	if err := coordinator.Drop(src, target); !errors.Is(err, ErrRejectedDrop) {
		t.Fatalf("expected ErrRejectedDrop, got %v", err)
	}
}

func TestDropPropagatesReassignError(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")
	coordinator := NewCoordinator(func(int64, Slot) error { return boom })

	src := DragSource{SessionID: 42, From: Slot{Date: day, StartTime: "07:00"}}
	target := SlotTarget{Cell: Slot{Date: day, StartTime: "09:00"}}

	if err := coordinator.Drop(src, target); !errors.Is(err, boom) {
		t.Fatalf("expected reassign error, got %v", err)
	}
}
