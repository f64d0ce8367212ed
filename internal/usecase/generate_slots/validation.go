package generate_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxGenerationDays int) error {
	if req.ShiftID <= 0 {
		return fmt.Errorf("%w: shiftID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	start := truncateToDate(req.StartDate)
	end := truncateToDate(req.EndDate)

	if end.Before(start) {
		return fmt.Errorf("%w: endDate must not precede startDate", ErrInvalidInput)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > maxGenerationDays {
		return fmt.Errorf("%w: date range of %d days exceeds the limit of %d",
			ErrInvalidInput, days, maxGenerationDays)
	}

	return nil
}

// truncateToDate обнуляет время, оставляя только дату
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
