package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, allowed: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, allowed: true},
		{name: "pending to checked_in", from: StatusPending, to: StatusCheckedIn, allowed: false},
		{name: "pending to completed", from: StatusPending, to: StatusCompleted, allowed: false},
		{name: "confirmed to checked_in", from: StatusConfirmed, to: StatusCheckedIn, allowed: true},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, allowed: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, allowed: true},
		{name: "confirmed to pending", from: StatusConfirmed, to: StatusPending, allowed: false},
		{name: "checked_in to completed", from: StatusCheckedIn, to: StatusCompleted, allowed: true},
		{name: "checked_in to cancelled", from: StatusCheckedIn, to: StatusCancelled, allowed: false},
		{name: "completed is terminal", from: StatusCompleted, to: StatusCancelled, allowed: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusPending, allowed: false},
		{name: "same status is not a transition", from: StatusConfirmed, to: StatusConfirmed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to))
		})
	}
}

func TestHoldsCapacity(t *testing.T) {
	assert.False(t, HoldsCapacity(StatusPending))
	assert.True(t, HoldsCapacity(StatusConfirmed))
	assert.True(t, HoldsCapacity(StatusCheckedIn))
	assert.False(t, HoldsCapacity(StatusCompleted))
	assert.False(t, HoldsCapacity(StatusCancelled))
}

func TestToBookingStatus(t *testing.T) {
	status, known := ToBookingStatus("confirmed")
	assert.True(t, known)
	assert.Equal(t, StatusConfirmed, status)

	_, known = ToBookingStatus("unknown_status")
	assert.False(t, known)
}

func TestBooking_IsTerminal(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusConfirmed}).IsTerminal())
}
