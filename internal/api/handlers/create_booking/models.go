package create_booking

import (
	"fmt"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	transitionBooking "github.com/avdeevsm/BMS-SlotService/internal/usecase/transition_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID      int64  `json:"serviceId"`
	SlotID         int64  `json:"slotId"`
	EmployeeID     *int64 `json:"employeeId,omitempty"`
	CustomerID     *int64 `json:"customerId,omitempty"`
	SubscriptionID *int64 `json:"subscriptionId,omitempty"`
	AdultCount     int    `json:"adultCount"`
	ChildCount     int    `json:"childCount"`
	Status         string `json:"status"` // "pending" или "confirmed"
}

// SlotStateResponse снимок счётчиков слота после операции
type SlotStateResponse struct {
	SlotID            int64 `json:"slotId"`
	OriginalCapacity  int   `json:"originalCapacity"`
	AvailableCapacity int   `json:"availableCapacity"`
	BookedCount       int   `json:"bookedCount"`
	IsOverbooked      bool  `json:"isOverbooked"`
}

// BookingResponse HTTP response model
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

	Slot SlotStateResponse `json:"slot"`

	CreatedAt string `json:"createdAt"` // ISO 8601 format
	UpdatedAt string `json:"updatedAt"` // ISO 8601 format
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID int64) (*transitionBooking.CreateRequest, error) {
	status, known := domain.ToBookingStatus(r.Status)
	if !known {
		return nil, fmt.Errorf("unknown booking status %q", r.Status)
	}

	return &transitionBooking.CreateRequest{
		TenantID:       tenantID,
		ServiceID:      r.ServiceID,
		SlotID:         r.SlotID,
		EmployeeID:     r.EmployeeID,
		CustomerID:     r.CustomerID,
		SubscriptionID: r.SubscriptionID,
		AdultCount:     r.AdultCount,
		ChildCount:     r.ChildCount,
		Status:         status,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.BookingID,
		TenantID:       resp.TenantID,
		ServiceID:      resp.ServiceID,
		SlotID:         resp.SlotID,
		EmployeeID:     resp.EmployeeID,
		CustomerID:     resp.CustomerID,
		SubscriptionID: resp.SubscriptionID,
		AdultCount:     resp.AdultCount,
		ChildCount:     resp.ChildCount,
		VisitorCount:   resp.VisitorCount,
		Status:         resp.Status,
		Slot: SlotStateResponse{
			SlotID:            resp.Slot.SlotID,
			OriginalCapacity:  resp.Slot.OriginalCapacity,
			AvailableCapacity: resp.Slot.AvailableCapacity,
			BookedCount:       resp.Slot.BookedCount,
			IsOverbooked:      resp.Slot.IsOverbooked,
		},
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
