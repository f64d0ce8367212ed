package transition_booking

import (
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// CreateRequest модель запроса на создание бронирования
type CreateRequest struct {
	TenantID       int64
	ServiceID      int64
	SlotID         int64
	EmployeeID     *int64
	CustomerID     *int64
	SubscriptionID *int64 // Пакетная подписка; nil = разовое посещение
	AdultCount     int
	ChildCount     int
	Status         domain.BookingStatus // pending или confirmed
}

// TransitionRequest модель запроса на смену статуса бронирования
type TransitionRequest struct {
	BookingID          int64
	NewStatus          domain.BookingStatus
	CancellationReason *string // Используется только при переходе в cancelled
}

// SlotState снимок счётчиков слота после применения перехода
type SlotState struct {
	SlotID            int64
	OriginalCapacity  int
	AvailableCapacity int
	BookedCount       int
	IsOverbooked      bool
}

// Response модель ответа: бронирование и слот после применения перехода
type Response struct {
	BookingID      int64
	TenantID       int64
	ServiceID      int64
	SlotID         int64
	EmployeeID     *int64
	CustomerID     *int64
	SubscriptionID *int64

	AdultCount   int
	ChildCount   int
	VisitorCount int

	Status             string
	CancellationReason *string
	CancelledAt        *time.Time

	Slot SlotState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// buildResponse собирает response из доменных моделей
func buildResponse(b *domain.Booking, s *domain.Slot) *Response {
	return &Response{
		BookingID:          b.ID,
		TenantID:           b.TenantID,
		ServiceID:          b.ServiceID,
		SlotID:             b.SlotID,
		EmployeeID:         b.EmployeeID,
		CustomerID:         b.CustomerID,
		SubscriptionID:     b.SubscriptionID,
		AdultCount:         b.AdultCount,
		ChildCount:         b.ChildCount,
		VisitorCount:       b.VisitorCount,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		Slot: SlotState{
			SlotID:            s.ID,
			OriginalCapacity:  s.OriginalCapacity,
			AvailableCapacity: s.AvailableCapacity,
			BookedCount:       s.BookedCount,
			IsOverbooked:      s.IsOverbooked,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
