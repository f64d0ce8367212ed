package resync_capacity

import (
	resyncCapacity "github.com/avdeevsm/BMS-SlotService/internal/usecase/resync_capacity"
)

// ServiceResultResponse результат пересинхронизации одной услуги
type ServiceResultResponse struct {
	ServiceID    int64 `json:"serviceId"`
	NewCapacity  int   `json:"newCapacity"`
	SlotsUpdated int64 `json:"slotsUpdated"`
}

// ResyncCapacityResponse HTTP response model
type ResyncCapacityResponse struct {
	Services          []ServiceResultResponse `json:"services"`
	TotalSlotsUpdated int64                   `json:"totalSlotsUpdated"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resyncCapacity.Response) *ResyncCapacityResponse {
	out := &ResyncCapacityResponse{
		Services:          make([]ServiceResultResponse, 0, len(resp.Services)),
		TotalSlotsUpdated: resp.TotalSlotsUpdated,
	}
	for _, svc := range resp.Services {
		out.Services = append(out.Services, ServiceResultResponse{
			ServiceID:    svc.ServiceID,
			NewCapacity:  svc.NewCapacity,
			SlotsUpdated: svc.SlotsUpdated,
		})
	}
	return out
}
