package domain

import (
	"time"

	"github.com/avdeevsm/BMS-SlotService/pkg/types"
)

// Slot represents a single bookable time interval with a fixed capacity
// ceiling. OriginalCapacity never changes after generation except through
// a capacity resync; AvailableCapacity moves between 0 and the ceiling as
// bookings come and go.
type Slot struct {
	ID         int64
	TenantID   int64
	ShiftID    int64
	ServiceID  int64
	EmployeeID *int64 // nil for service_based slots

	SlotDate   time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	StartAtUTC time.Time
	EndAtUTC   time.Time

	OriginalCapacity  int
	AvailableCapacity int
	BookedCount       int

	IsOverbooked bool
	IsAvailable  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEmployeeBased returns true if the slot's capacity belongs to one employee
func (s *Slot) IsEmployeeBased() bool {
	return s.EmployeeID != nil
}

// IsFull returns true if no capacity remains on the slot itself,
// not counting reservation locks
func (s *Slot) IsFull() bool {
	return s.AvailableCapacity <= 0
}

// HasCapacityFor reports whether qty visitors fit into the remaining capacity
func (s *Slot) HasCapacityFor(qty int) bool {
	return s.AvailableCapacity >= qty
}

// FreeAfterLocks returns the capacity that remains once active
// reservation locks are subtracted
func (s *Slot) FreeAfterLocks(activeLockedSum int) int {
	return s.AvailableCapacity - activeLockedSum
}
