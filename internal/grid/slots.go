// Package grid models the scheduling grid: the fixed set of whole-hour time
// slots per day and the pointer-gesture coordination that moves a session
// from one slot to another.
package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The grid shows whole-hour slots from 05:00 through 22:00.
const (
	FirstSlotHour = 5
	LastSlotHour  = 22
)

// Slot is one droppable cell of the grid, keyed by date and start time.
type Slot struct {
	Date      time.Time
	StartTime string
}

func (s Slot) Equal(other Slot) bool {
	return s.StartTime == other.StartTime &&
		s.Date.Year() == other.Date.Year() &&
		s.Date.Month() == other.Date.Month() &&
		s.Date.Day() == other.Date.Day()
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s", s.Date.Format("2006-01-02"), s.StartTime)
}

// SlotTimes returns every start time the grid renders, in order.
func SlotTimes() []string {
	times := make([]string, 0, LastSlotHour-FirstSlotHour+1)
	for hour := FirstSlotHour; hour <= LastSlotHour; hour++ {
		times = append(times, fmt.Sprintf("%02d:00", hour))
	}
	return times
}

// ValidSlotTime reports whether value is a whole-hour "HH:00" within the grid.
func ValidSlotTime(value string) bool {
	parts := strings.Split(value, ":")
	if len(parts) != 2 || parts[1] != "00" || len(parts[0]) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	return hour >= FirstSlotHour && hour <= LastSlotHour
}
