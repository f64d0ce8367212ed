package domain

import (
	"fmt"
	"time"

	"github.com/avdeevsm/BMS-SlotService/pkg/types"
)

// CapacityMode determines whether slot capacity is pooled at the service
// level or partitioned per assigned employee
type CapacityMode string

const (
	CapacityModeServiceBased  CapacityMode = "service_based"
	CapacityModeEmployeeBased CapacityMode = "employee_based"
)

// Shift represents a recurring weekly time window from which slots are
// generated. Shifts are configured by the admin surface and are read-only
// to this service.
type Shift struct {
	ID        int64
	TenantID  int64
	ServiceID int64
	Weekdays  []int // 0=Sunday ... 6=Saturday, time.Weekday numbering
	StartTime types.TimeString
	EndTime   types.TimeString
	Timezone  string // IANA name, e.g. "Europe/Moscow"
	IsActive  bool
}

// ContainsWeekday reports whether the shift runs on the given weekday
func (s *Shift) ContainsWeekday(d time.Weekday) bool {
	for _, wd := range s.Weekdays {
		if wd == int(d) {
			return true
		}
	}
	return false
}

// WindowMinutes returns the shift window length in minutes
func (s *Shift) WindowMinutes() (int, error) {
	start, err := s.StartTime.Minutes()
	if err != nil {
		return 0, err
	}
	end, err := s.EndTime.Minutes()
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// Location resolves the shift's IANA timezone.
// An empty timezone falls back to UTC.
func (s *Shift) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Service represents the bookable service a shift belongs to.
// CapacityPerSlot is meaningful only in service_based mode.
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	CapacityMode    CapacityMode
	CapacityPerSlot *int // non-nil and > 0 iff CapacityMode == service_based
}

// Validate enforces the capacity mode invariant: pooled capacity must be
// a positive integer in service_based mode and absent in employee_based mode.
func (s *Service) Validate() error {
	switch s.CapacityMode {
	case CapacityModeServiceBased:
		if s.CapacityPerSlot == nil || *s.CapacityPerSlot <= 0 {
			return fmt.Errorf("service %d: service_based mode requires a positive capacity_per_slot", s.ID)
		}
	case CapacityModeEmployeeBased:
		if s.CapacityPerSlot != nil {
			return fmt.Errorf("service %d: employee_based mode must not set capacity_per_slot", s.ID)
		}
	default:
		return fmt.Errorf("service %d: unknown capacity mode %q", s.ID, s.CapacityMode)
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("service %d: duration must be positive", s.ID)
	}
	return nil
}

// EmployeeAssignment links an employee to a service, optionally scoped to
// a single shift, with optional duration/capacity overrides.
type EmployeeAssignment struct {
	ID              int64
	TenantID        int64
	EmployeeID      int64
	ServiceID       int64
	ShiftID         *int64 // nil = assignment applies to any shift of the service
	DurationMinutes *int   // override, nil = service default
	CapacityPerSlot *int   // override, nil = default of 1
}

// EffectiveDuration returns the slot duration for this assignment,
// preferring the override over the service default
func (a *EmployeeAssignment) EffectiveDuration(service *Service) int {
	if a.DurationMinutes != nil && *a.DurationMinutes > 0 {
		return *a.DurationMinutes
	}
	return service.DurationMinutes
}

// EffectiveCapacity returns the per-slot capacity for this assignment.
// Without an override an employee serves one visitor group per slot.
func (a *EmployeeAssignment) EffectiveCapacity() int {
	if a.CapacityPerSlot != nil && *a.CapacityPerSlot > 0 {
		return *a.CapacityPerSlot
	}
	return DefaultEmployeeCapacityPerSlot
}

// Employee minimal projection of a tenant employee used by the
// assignment fallback resolution
type Employee struct {
	ID       int64
	TenantID int64
	Role     string
	IsActive bool
}
