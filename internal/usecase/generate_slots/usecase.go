package generate_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	catalogRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/catalog"
)

// UseCase use case генерации слотов по смене.
// Генерация идемпотентна в пределах диапазона дат: существующие слоты смены
// удаляются и создаются заново одной транзакцией. Вызывающий обязан заранее
// мигрировать живые бронирования, опирающиеся на удаляемые слоты.
type UseCase struct {
	catalogRepo       CatalogRepository
	slotRepo          SlotRepository
	txManager         TransactionManager
	timeProvider      TimeProvider
	logger            Logger
	maxGenerationDays int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
	maxGenerationDays int,
) *UseCase {
	if maxGenerationDays <= 0 {
		maxGenerationDays = domain.DefaultMaxGenerationDays
	}
	return &UseCase{
		catalogRepo:       catalogRepo,
		slotRepo:          slotRepo,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
		maxGenerationDays: maxGenerationDays,
	}
}

// Execute выполняет генерацию слотов для смены в диапазоне дат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: shift=%d, range=%s..%s",
		req.ShiftID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxGenerationDays); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем смену
	shift, err := uc.catalogRepo.GetShiftByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrShiftNotFound) {
			uc.logger.Warn("GenerateSlots: shift id=%d not found", req.ShiftID)
			return nil, ErrShiftNotFound
		}
		uc.logger.Error("GenerateSlots: failed to get shift id=%d: %v", req.ShiftID, err)
		return nil, fmt.Errorf("%w: failed to get shift: %v", ErrInternal, err)
	}

	if !shift.IsActive {
		uc.logger.Warn("GenerateSlots: shift id=%d is not active", req.ShiftID)
		return nil, fmt.Errorf("%w: shift %d is not active", ErrInvalidConfiguration, req.ShiftID)
	}

	// 3. Загружаем услугу смены
	service, err := uc.catalogRepo.GetServiceByID(ctx, shift.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GenerateSlots: service id=%d referenced by shift id=%d not found",
				shift.ServiceID, req.ShiftID)
			return nil, fmt.Errorf("%w: shift %d references missing service %d",
				ErrInvalidConfiguration, req.ShiftID, shift.ServiceID)
		}
		uc.logger.Error("GenerateSlots: failed to get service id=%d: %v", shift.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Окно смены должно вмещать хотя бы один слот длительности услуги
	windowMinutes, err := shift.WindowMinutes()
	if err != nil {
		return nil, fmt.Errorf("%w: shift %d has malformed time window: %v",
			ErrInvalidConfiguration, req.ShiftID, err)
	}
	if windowMinutes < service.DurationMinutes {
		uc.logger.Warn("GenerateSlots: shift id=%d window of %d min is shorter than service duration %d min",
			req.ShiftID, windowMinutes, service.DurationMinutes)
		return nil, fmt.Errorf("%w: shift window of %d minutes is shorter than service duration of %d minutes",
			ErrInvalidConfiguration, windowMinutes, service.DurationMinutes)
	}

	// 5. Проверяем конфигурацию вместимости и определяем владельцев слотов
	owners, err := uc.resolveCapacityOwners(ctx, shift, service)
	if err != nil {
		return nil, err
	}

	// 6. Строим слоты по датам диапазона
	loc, err := shift.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: shift %d has unknown timezone %q",
			ErrInvalidConfiguration, req.ShiftID, shift.Timezone)
	}

	startMin, err := shift.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: shift %d has malformed start time: %v",
			ErrInvalidConfiguration, req.ShiftID, err)
	}
	endMin, err := shift.EndTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: shift %d has malformed end time: %v",
			ErrInvalidConfiguration, req.ShiftID, err)
	}

	dates := matchingDates(shift, req.StartDate, req.EndDate)

	slots := make([]*domain.Slot, 0, len(dates)*len(owners))
	for _, date := range dates {
		for _, owner := range owners {
			intervals := sliceWindow(startMin, endMin, owner.durationMinutes)
			built, err := buildSlotsForDate(shift, service.ID, owner.employeeID, date, intervals, owner.capacity, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
			}
			slots = append(slots, built...)
		}
	}

	// 7. Удаляем прошлую генерацию и вставляем новую одной транзакцией
	var deleted int64
	var inserted int

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		deleted, err = uc.slotRepo.DeleteByShiftAndDateRange(txCtx, req.ShiftID,
			truncateToDate(req.StartDate), truncateToDate(req.EndDate))
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to delete existing slots: %v", err)
			return fmt.Errorf("%w: failed to delete existing slots: %v", ErrInternal, err)
		}

		inserted, err = uc.slotRepo.InsertBatch(txCtx, slots)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to insert slots: %v", err)
			return fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GenerateSlots: shift=%d, deleted=%d, created=%d", req.ShiftID, deleted, inserted)

	return &Response{
		SlotsCreated: inserted,
		SlotsDeleted: deleted,
	}, nil
}

// resolveCapacityOwners проверяет режим вместимости услуги и возвращает
// владельцев слотов: пул услуги либо разрешённый список сотрудников
func (uc *UseCase) resolveCapacityOwners(ctx context.Context, shift *domain.Shift, service *domain.Service) ([]capacityOwner, error) {
	switch service.CapacityMode {
	case domain.CapacityModeServiceBased:
		if service.CapacityPerSlot == nil || *service.CapacityPerSlot <= 0 {
			uc.logger.Warn("GenerateSlots: service id=%d has no positive pooled capacity", service.ID)
			return nil, fmt.Errorf("%w: service_based service %d requires a positive capacity_per_slot",
				ErrInvalidConfiguration, service.ID)
		}
		return resolveOwners(service, nil, nil, nil), nil

	case domain.CapacityModeEmployeeBased:
		byShift, err := uc.catalogRepo.GetAssignmentsByShiftID(ctx, shift.ID)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to get shift assignments: %v", err)
			return nil, fmt.Errorf("%w: failed to get shift assignments: %v", ErrInternal, err)
		}

		var unscoped []*domain.EmployeeAssignment
		if len(byShift) == 0 {
			unscoped, err = uc.catalogRepo.GetAssignmentsByServiceUnscoped(ctx, service.ID)
			if err != nil {
				uc.logger.Error("GenerateSlots: failed to get service assignments: %v", err)
				return nil, fmt.Errorf("%w: failed to get service assignments: %v", ErrInternal, err)
			}
		}

		var fallback []*domain.Employee
		if len(byShift) == 0 && len(unscoped) == 0 {
			fallback, err = uc.catalogRepo.GetActiveEmployeesByRole(ctx, shift.TenantID, domain.RoleEmployee)
			if err != nil {
				uc.logger.Error("GenerateSlots: failed to get fallback employees: %v", err)
				return nil, fmt.Errorf("%w: failed to get fallback employees: %v", ErrInternal, err)
			}
		}

		owners := resolveOwners(service, byShift, unscoped, fallback)
		if len(owners) == 0 {
			uc.logger.Warn("GenerateSlots: no employees resolve for shift id=%d", shift.ID)
			return nil, fmt.Errorf("%w: no employees resolve for employee_based shift %d",
				ErrInvalidConfiguration, shift.ID)
		}
		return owners, nil

	default:
		return nil, fmt.Errorf("%w: service %d has unknown capacity mode %q",
			ErrInvalidConfiguration, service.ID, service.CapacityMode)
	}
}
