package acquire_lock

import (
	"time"

	acquireLock "github.com/avdeevsm/BMS-SlotService/internal/usecase/acquire_lock"
)

// AcquireLockRequest HTTP request model
type AcquireLockRequest struct {
	SessionID   string `json:"sessionId"`
	ReservedQty int    `json:"reservedQty"`
	TTLSeconds  int    `json:"ttlSeconds,omitempty"` // 0 = TTL по умолчанию
}

// LockResponse HTTP response model
type LockResponse struct {
	LockID      int64  `json:"lockId"`
	SlotID      int64  `json:"slotId"`
	ReservedQty int    `json:"reservedQty"`
	ExpiresAt   string `json:"expiresAt"` // ISO 8601 format
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AcquireLockRequest) ToUseCaseRequest(slotID int64) *acquireLock.Request {
	return &acquireLock.Request{
		SlotID:      slotID,
		SessionID:   r.SessionID,
		ReservedQty: r.ReservedQty,
		TTLSeconds:  r.TTLSeconds,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *acquireLock.Response) *LockResponse {
	return &LockResponse{
		LockID:      resp.LockID,
		SlotID:      resp.SlotID,
		ReservedQty: resp.ReservedQty,
		ExpiresAt:   resp.ExpiresAt.Format(time.RFC3339),
	}
}
