package domain

import "time"

// PackageSubscriptionUsage is the quantity ledger for one (subscription,
// service) pair of a pre-purchased multi-visit package.
// Invariant: OriginalQuantity == RemainingQuantity + UsedQuantity.
type PackageSubscriptionUsage struct {
	ID             int64
	SubscriptionID int64
	ServiceID      int64

	OriginalQuantity  int
	RemainingQuantity int
	UsedQuantity      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExhausted returns true if no package units remain
func (u *PackageSubscriptionUsage) IsExhausted() bool {
	return u.RemainingQuantity <= 0
}

// IsConsistent checks the ledger conservation invariant
func (u *PackageSubscriptionUsage) IsConsistent() bool {
	return u.OriginalQuantity == u.RemainingQuantity+u.UsedQuantity &&
		u.RemainingQuantity >= 0 && u.UsedQuantity >= 0
}
