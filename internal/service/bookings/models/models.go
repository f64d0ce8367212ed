package models

import (
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             int64  `json:"id"`
	TenantID       int64  `json:"tenantId"`
	ServiceID      int64  `json:"serviceId"`
	SlotID         int64  `json:"slotId"`
	EmployeeID     *int64 `json:"employeeId,omitempty"`
	CustomerID     *int64 `json:"customerId,omitempty"`
	SubscriptionID *int64 `json:"subscriptionId,omitempty"`

	AdultCount   int `json:"adultCount"`
	ChildCount   int `json:"childCount"`
	VisitorCount int `json:"visitorCount"`

	Status string `json:"status"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotBookingsResponse ответ со списком бронирований слота
type SlotBookingsResponse struct {
	SlotID   int64             `json:"slotId"`
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
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
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(slotID int64, bookings []*domain.Booking) *SlotBookingsResponse {
	resp := &SlotBookingsResponse{
		SlotID:   slotID,
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
