package generate_slots

import (
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	generateSlots "github.com/avdeevsm/BMS-SlotService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	StartDate string `json:"startDate"` // "2026-09-01"
	EndDate   string `json:"endDate"`   // "2026-09-30"
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	SlotsCreated int `json:"slotsCreated"`
	SlotsDeleted int `json:"slotsDeleted"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(shiftID int64) (*generateSlots.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &generateSlots.Request{
		ShiftID:   shiftID,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	return &GenerateSlotsResponse{
		SlotsCreated: resp.SlotsCreated,
		SlotsDeleted: int(resp.SlotsDeleted),
	}
}
