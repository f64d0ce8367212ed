package resync_capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	catalogRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/catalog"
)

// UseCase use case пересинхронизации вместимости service-based слотов.
// После смены пула услуги в справочнике будущие слоты с общим пулом
// приводятся к новому значению: original_capacity = новый пул,
// available_capacity = пул минус занятые места, с зажимом нулём.
// Прошлые слоты остаются историческим фактом и не меняются.
type UseCase struct {
	catalogRepo  CatalogRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:  catalogRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет пересинхронизацию: для одной услуги при ServiceID > 0,
// иначе массово для всех service-based услуг
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ServiceID < 0 {
		return nil, fmt.Errorf("%w: serviceID must not be negative", ErrInvalidInput)
	}

	from := truncateToDate(uc.timeProvider.Now())

	if req.ServiceID > 0 {
		return uc.resyncOne(ctx, req.ServiceID, from)
	}
	return uc.resyncAll(ctx, from)
}

// resyncOne пересинхронизирует одну услугу
func (uc *UseCase) resyncOne(ctx context.Context, serviceID int64, from time.Time) (*Response, error) {
	uc.logger.Info("ResyncCapacity: service=%d, from=%s", serviceID, from.Format("2006-01-02"))

	// 1. Получаем услугу из справочника
	service, err := uc.catalogRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("ResyncCapacity: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ResyncCapacity: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 2. Пересинхронизация определена только для общего пула
	if service.CapacityMode != domain.CapacityModeServiceBased ||
		service.CapacityPerSlot == nil || *service.CapacityPerSlot <= 0 {
		uc.logger.Warn("ResyncCapacity: service id=%d is not service based or has no pool", serviceID)
		return nil, fmt.Errorf("%w: service %d", ErrInvalidConfiguration, serviceID)
	}

	var result ServiceResult

	// 3. Применяем новый пул к будущим слотам в транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		updated, err := uc.slotRepo.ResyncFutureByService(txCtx, service.ID, *service.CapacityPerSlot, from)
		if err != nil {
			return fmt.Errorf("%w: failed to resync slots: %v", ErrInternal, err)
		}
		result = ServiceResult{
			ServiceID:    service.ID,
			NewCapacity:  *service.CapacityPerSlot,
			SlotsUpdated: updated,
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("ResyncCapacity: failed for service id=%d: %v", serviceID, err)
		return nil, err
	}

	uc.logger.Info("ResyncCapacity: service id=%d, capacity=%d, updated %d slots",
		result.ServiceID, result.NewCapacity, result.SlotsUpdated)

	return &Response{
		Services:          []ServiceResult{result},
		TotalSlotsUpdated: result.SlotsUpdated,
	}, nil
}

// resyncAll пересинхронизирует все service-based услуги.
// Каждая услуга обрабатывается в собственной транзакции: сбой одной
// не откатывает уже применённые.
func (uc *UseCase) resyncAll(ctx context.Context, from time.Time) (*Response, error) {
	uc.logger.Info("ResyncCapacity: bulk resync from=%s", from.Format("2006-01-02"))

	services, err := uc.catalogRepo.ListServiceBased(ctx)
	if err != nil {
		uc.logger.Error("ResyncCapacity: failed to list service based services: %v", err)
		return nil, fmt.Errorf("%w: failed to list services: %v", ErrInternal, err)
	}

	resp := &Response{Services: make([]ServiceResult, 0, len(services))}

	for _, service := range services {
		if service.CapacityPerSlot == nil || *service.CapacityPerSlot <= 0 {
			uc.logger.Warn("ResyncCapacity: skipping service id=%d without a positive pool", service.ID)
			continue
		}

		var result ServiceResult
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			updated, err := uc.slotRepo.ResyncFutureByService(txCtx, service.ID, *service.CapacityPerSlot, from)
			if err != nil {
				return fmt.Errorf("%w: failed to resync slots: %v", ErrInternal, err)
			}
			result = ServiceResult{
				ServiceID:    service.ID,
				NewCapacity:  *service.CapacityPerSlot,
				SlotsUpdated: updated,
			}
			return nil
		})
		if err != nil {
			uc.logger.Error("ResyncCapacity: failed for service id=%d: %v", service.ID, err)
			return nil, err
		}

		resp.Services = append(resp.Services, result)
		resp.TotalSlotsUpdated += result.SlotsUpdated
	}

	uc.logger.Info("ResyncCapacity: bulk resync touched %d services, %d slots",
		len(resp.Services), resp.TotalSlotsUpdated)

	return resp, nil
}

// truncateToDate обнуляет время, оставляя дату в UTC
func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
