package generate_slots

import (
	"fmt"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	"github.com/avdeevsm/BMS-SlotService/pkg/types"
)

// slotInterval один интервал внутри окна смены, в минутах от полуночи
type slotInterval struct {
	startMin int
	endMin   int
}

// sliceWindow нарезает окно [startMin, endMin) на последовательные интервалы
// длительностью durationMinutes. Неполный хвост, в который не помещается
// целая длительность, отбрасывается — коротких слотов не бывает.
func sliceWindow(startMin, endMin, durationMinutes int) []slotInterval {
	if durationMinutes <= 0 || endMin <= startMin {
		return nil
	}

	intervals := make([]slotInterval, 0, (endMin-startMin)/durationMinutes)
	for cur := startMin; cur+durationMinutes <= endMin; cur += durationMinutes {
		intervals = append(intervals, slotInterval{startMin: cur, endMin: cur + durationMinutes})
	}
	return intervals
}

// matchingDates возвращает все даты диапазона [start, end], выпадающие
// на рабочие дни недели смены
func matchingDates(shift *domain.Shift, start, end time.Time) []time.Time {
	dates := make([]time.Time, 0)
	for d := truncateToDate(start); !d.After(truncateToDate(end)); d = d.AddDate(0, 0, 1) {
		if shift.ContainsWeekday(d.Weekday()) {
			dates = append(dates, d)
		}
	}
	return dates
}

// buildSlotsForDate строит слоты одной даты для одного владельца вместимости:
// employeeID == nil для service_based режима, иначе конкретный сотрудник.
// Локальное время конвертируется в UTC через таймзону смены (DST учитывается
// средствами time.Date в соответствующей локации).
func buildSlotsForDate(
	shift *domain.Shift,
	serviceID int64,
	employeeID *int64,
	date time.Time,
	intervals []slotInterval,
	capacity int,
	loc *time.Location,
) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0, len(intervals))

	for _, iv := range intervals {
		startLocal := wallClock(date, iv.startMin, loc)
		endLocal := wallClock(date, iv.endMin, loc)

		startStr, err := minutesToTimeString(iv.startMin)
		if err != nil {
			return nil, err
		}
		endStr, err := minutesToTimeString(iv.endMin)
		if err != nil {
			return nil, err
		}

		slots = append(slots, &domain.Slot{
			TenantID:          shift.TenantID,
			ShiftID:           shift.ID,
			ServiceID:         serviceID,
			EmployeeID:        employeeID,
			SlotDate:          date,
			StartTime:         startStr,
			EndTime:           endStr,
			StartAtUTC:        startLocal.UTC(),
			EndAtUTC:          endLocal.UTC(),
			OriginalCapacity:  capacity,
			AvailableCapacity: capacity,
			BookedCount:       0,
			IsOverbooked:      false,
			IsAvailable:       true,
		})
	}

	return slots, nil
}

// wallClock строит момент времени "дата + минуты от полуночи" в локации loc.
// Значение 1440 нормализуется в полночь следующего дня.
func wallClock(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc)
}

// minutesToTimeString конвертирует минуты от полуночи в строку HH:MM
func minutesToTimeString(minutes int) (types.TimeString, error) {
	if minutes < 0 || minutes > 24*60 {
		return "", fmt.Errorf("minutes %d out of day range", minutes)
	}
	return types.TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// capacityOwner владелец вместимости слотов: сотрудник с эффективными
// параметрами либо пул услуги (employeeID == nil)
type capacityOwner struct {
	employeeID      *int64
	durationMinutes int
	capacity        int
}

// resolveOwners определяет владельцев вместимости для смены.
// service_based: единственный владелец — пул услуги.
// employee_based: порядок разрешения назначений:
//  1. назначения, привязанные к этой смене;
//  2. назначения услуги без привязки к смене;
//  3. все активные сотрудники тенанта с ролью "employee", если назначений нет вовсе.
func resolveOwners(
	service *domain.Service,
	byShift []*domain.EmployeeAssignment,
	unscoped []*domain.EmployeeAssignment,
	fallbackEmployees []*domain.Employee,
) []capacityOwner {
	if service.CapacityMode == domain.CapacityModeServiceBased {
		capacity := 0
		if service.CapacityPerSlot != nil {
			capacity = *service.CapacityPerSlot
		}
		return []capacityOwner{{
			employeeID:      nil,
			durationMinutes: service.DurationMinutes,
			capacity:        capacity,
		}}
	}

	assignments := byShift
	if len(assignments) == 0 {
		assignments = unscoped
	}

	if len(assignments) > 0 {
		owners := make([]capacityOwner, 0, len(assignments))
		for _, a := range assignments {
			employeeID := a.EmployeeID
			owners = append(owners, capacityOwner{
				employeeID:      &employeeID,
				durationMinutes: a.EffectiveDuration(service),
				capacity:        a.EffectiveCapacity(),
			})
		}
		return owners
	}

	owners := make([]capacityOwner, 0, len(fallbackEmployees))
	for _, e := range fallbackEmployees {
		employeeID := e.ID
		owners = append(owners, capacityOwner{
			employeeID:      &employeeID,
			durationMinutes: service.DurationMinutes,
			capacity:        domain.DefaultEmployeeCapacityPerSlot,
		})
	}
	return owners
}
