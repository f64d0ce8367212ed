package models

import "time"

// ValidateLockResponse ответ проверки блокировки перед коммитом бронирования
type ValidateLockResponse struct {
	Valid     bool       `json:"valid"`
	LockID    int64      `json:"lockId"`
	SlotID    *int64     `json:"slotId,omitempty"`    // Только для валидной блокировки
	ExpiresAt *time.Time `json:"expiresAt,omitempty"` // Только для валидной блокировки
}

// CleanupResponse ответ очистки истёкших блокировок
type CleanupResponse struct {
	LocksRemoved int64 `json:"locksRemoved"`
}

// LockedCapacityResponse ответ с суммами активных резервов по слотам
type LockedCapacityResponse struct {
	Slots []SlotLockedCapacity `json:"slots"`
}

// SlotLockedCapacity сумма активных резервов одного слота
type SlotLockedCapacity struct {
	SlotID    int64 `json:"slotId"`
	LockedQty int   `json:"lockedQty"`
}
