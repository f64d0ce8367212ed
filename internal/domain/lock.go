package domain

import "time"

// ReservationLock is a short-lived, session-scoped hold on slot capacity
// taken during checkout, before the booking commits. Locks are never
// referenced once a booking exists; they expire by TTL and are removed
// by the cleanup paths.
type ReservationLock struct {
	ID          int64
	SlotID      int64
	SessionID   string
	ReservedQty int
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsExpired reports whether the lock has expired as of now
func (l *ReservationLock) IsExpired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// BelongsToSession reports whether the lock was taken by the given checkout session
func (l *ReservationLock) BelongsToSession(sessionID string) bool {
	return l.SessionID == sessionID
}
