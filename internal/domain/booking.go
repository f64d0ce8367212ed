package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// allowedTransitions карта допустимых переходов статусов.
// pending -> confirmed | cancelled
// confirmed -> checked_in | completed | cancelled
// checked_in -> completed
// completed и cancelled терминальные
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCompleted, StatusCancelled},
	StatusCheckedIn: {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ToBookingStatus converts a raw string to a BookingStatus, reporting
// whether the value is one of the known statuses.
func ToBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	_, known := allowedTransitions[status]
	return status, known
}

// Booking represents a visit booked against one slot.
// VisitorCount is always AdultCount + ChildCount and drives every
// capacity and ledger adjustment.
type Booking struct {
	ID             int64
	TenantID       int64
	ServiceID      int64
	SlotID         int64
	EmployeeID     *int64
	CustomerID     *int64
	SubscriptionID *int64

	AdultCount   int
	ChildCount   int
	VisitorCount int

	Status BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking has not been cancelled
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanTransitionTo reports whether the status graph allows moving to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsCapacity reports whether a booking in the given status occupies
// slot capacity. Capacity is debited when a booking enters this set and
// restored when it leaves it.
func HoldsCapacity(status BookingStatus) bool {
	return status == StatusConfirmed || status == StatusCheckedIn
}
