package grid

import "errors"

var ErrRejectedDrop = errors.New("drop target rejected payload")

// DragSource identifies the session card being dragged.
type DragSource struct {
	SessionID int64
	From      Slot
}

// DropTarget is a droppable grid cell. Accepts lets a target refuse a
// payload (for example a slot outside the rendered day range).
type DropTarget interface {
	Slot() Slot
	Accepts(src DragSource) bool
}

// SlotTarget is the plain drop target used by the day and week views:
// it accepts any session.
type SlotTarget struct {
	Cell Slot
}

func (t SlotTarget) Slot() Slot              { return t.Cell }
func (t SlotTarget) Accepts(DragSource) bool { return true }

// ReassignFunc moves a session to a new slot. Wired to the schedule
// service's Reassign operation.
type ReassignFunc func(sessionID int64, to Slot) error

// Coordinator resolves drops: same-slot drops are no-ops, accepted drops
// invoke the reassignment callback, rejected drops return ErrRejectedDrop.
type Coordinator struct {
	reassign ReassignFunc
}

func NewCoordinator(reassign ReassignFunc) *Coordinator {
	return &Coordinator{reassign: reassign}
}

func (c *Coordinator) Drop(src DragSource, target DropTarget) error {
	to := target.Slot()
	if src.From.Equal(to) {
		return nil
	}
	if !target.Accepts(src) {
		return ErrRejectedDrop
	}
	return c.reassign(src.SessionID, to)
}
