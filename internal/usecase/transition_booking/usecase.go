package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	bookingRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/booking"
	packageRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/packageusage"
	slotRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/slot"
)

// UseCase use case жизненного цикла бронирования.
// Смена статуса и сайд-эффекты (вместимость слота, пересекающиеся слоты
// сотрудника, леджер пакетов) выполняются в одной serializable-транзакции
// под блокировками строк бронирования и слота, поэтому либо применяется
// всё, либо ничего.
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	packageRepo PackageUsageRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	packageRepo PackageUsageRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		packageRepo: packageRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create создает бронирование в статусе pending или confirmed.
// Для confirmed в той же транзакции списывается вместимость слота и,
// при наличии подписки, единица остатка пакета.
func (uc *UseCase) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%d, slot=%d, status=%s", req.TenantID, req.SlotID, req.Status)

	// 1. Валидация входных данных
	if err := validateCreateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	booking := &domain.Booking{
		TenantID:       req.TenantID,
		ServiceID:      req.ServiceID,
		SlotID:         req.SlotID,
		EmployeeID:     req.EmployeeID,
		CustomerID:     req.CustomerID,
		SubscriptionID: req.SubscriptionID,
		AdultCount:     req.AdultCount,
		ChildCount:     req.ChildCount,
		VisitorCount:   req.AdultCount + req.ChildCount,
		Status:         req.Status,
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Берем слот с блокировкой строки (FOR UPDATE)
		slot, err := uc.getSlot(txCtx, req.SlotID)
		if err != nil {
			return err
		}

		// 3. Списание вместимости для статусов, занимающих места.
		// Проверка остатка под блокировкой строки — жёсткий гейт,
		// бронирование сверх вместимости не создается.
		if domain.HoldsCapacity(booking.Status) {
			if err := uc.debitSlot(txCtx, slot, booking.VisitorCount); err != nil {
				return err
			}
		}

		// 4. Создаем запись бронирования
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		booking = created

		// 5. Списание единицы остатка пакетной подписки
		if booking.SubscriptionID != nil && booking.Status != domain.StatusCancelled {
			if err := uc.debitPackage(txCtx, *booking.SubscriptionID, booking.ServiceID); err != nil {
				return err
			}
		}

		// 6. Перечитываем слот для снимка счётчиков после списания
		slot, err = uc.getSlot(txCtx, req.SlotID)
		if err != nil {
			return err
		}

		resp = buildResponse(booking, slot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, slot=%d, status=%s, visitors=%d",
		resp.BookingID, resp.SlotID, resp.Status, resp.VisitorCount)

	return resp, nil
}

// Transition переводит бронирование в новый статус по графу переходов.
// Сайд-эффекты применяются в фиксированном порядке: вместимость слота,
// восстановление пересекающихся слотов сотрудника, леджер пакетов,
// запись нового статуса.
func (uc *UseCase) Transition(ctx context.Context, req *TransitionRequest) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking=%d, newStatus=%s", req.BookingID, req.NewStatus)

	// 1. Валидация входных данных
	if err := validateTransitionRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Берем бронирование с блокировкой строки (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("TransitionBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("TransitionBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3. Проверяем переход по графу статусов
		if !booking.CanTransitionTo(req.NewStatus) {
			uc.logger.Warn("TransitionBooking: booking id=%d transition %s -> %s not allowed",
				booking.ID, booking.Status, req.NewStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, req.NewStatus)
		}

		// 4. Берем слот с блокировкой строки (FOR UPDATE)
		slot, err := uc.getSlot(txCtx, booking.SlotID)
		if err != nil {
			return err
		}

		oldHolds := domain.HoldsCapacity(booking.Status)
		newHolds := domain.HoldsCapacity(req.NewStatus)

		// 5. Вместимость слота: списываем при входе в занимающие статусы,
		// восстанавливаем при выходе из них
		switch {
		case !oldHolds && newHolds:
			if err := uc.debitSlot(txCtx, slot, booking.VisitorCount); err != nil {
				return err
			}
		case oldHolds && !newHolds:
			if err := uc.restoreSlot(txCtx, slot, booking.VisitorCount); err != nil {
				return err
			}
		}

		// 6. Возврат остатка пакетной подписки при отмене
		if req.NewStatus == domain.StatusCancelled &&
			booking.Status != domain.StatusCancelled &&
			booking.SubscriptionID != nil {
			if err := uc.creditPackage(txCtx, *booking.SubscriptionID, booking.ServiceID, booking.VisitorCount); err != nil {
				return err
			}
		}

		// 7. Записываем новый статус
		if req.NewStatus == domain.StatusCancelled {
			err = uc.bookingRepo.Cancel(txCtx, booking.ID, req.CancellationReason)
		} else {
			err = uc.bookingRepo.UpdateStatus(txCtx, booking.ID, req.NewStatus)
		}
		if err != nil {
			uc.logger.Error("TransitionBooking: failed to persist status for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to persist status: %v", ErrInternal, err)
		}

		// 8. Перечитываем бронирование и слот для ответа
		booking, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			uc.logger.Error("TransitionBooking: failed to reread booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to reread booking: %v", ErrInternal, err)
		}

		slot, err = uc.getSlot(txCtx, booking.SlotID)
		if err != nil {
			return err
		}

		resp = buildResponse(booking, slot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("TransitionBooking: booking id=%d moved to %s, slot=%d available=%d",
		resp.BookingID, resp.Status, resp.SlotID, resp.Slot.AvailableCapacity)

	return resp, nil
}

// getSlot получает слот внутри транзакции с маппингом ошибок usecase
func (uc *UseCase) getSlot(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("TransitionBooking: slot id=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("TransitionBooking: failed to get slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	return slot, nil
}

// debitSlot списывает вместимость слота с жёсткой проверкой остатка
func (uc *UseCase) debitSlot(ctx context.Context, slot *domain.Slot, qty int) error {
	if !slot.HasCapacityFor(qty) {
		uc.logger.Warn("TransitionBooking: slot id=%d has %d available, %d requested",
			slot.ID, slot.AvailableCapacity, qty)
		return fmt.Errorf("%w: %d available, %d requested",
			ErrCapacityExceeded, slot.AvailableCapacity, qty)
	}
	if err := uc.slotRepo.DebitCapacity(ctx, slot.ID, qty); err != nil {
		uc.logger.Error("TransitionBooking: failed to debit slot id=%d: %v", slot.ID, err)
		return fmt.Errorf("%w: failed to debit slot capacity: %v", ErrInternal, err)
	}
	return nil
}

// restoreSlot восстанавливает вместимость слота и, для слотов сотрудника,
// пересекающихся по времени слотов того же сотрудника
func (uc *UseCase) restoreSlot(ctx context.Context, slot *domain.Slot, qty int) error {
	if err := uc.slotRepo.RestoreCapacity(ctx, slot.ID, qty); err != nil {
		uc.logger.Error("TransitionBooking: failed to restore slot id=%d: %v", slot.ID, err)
		return fmt.Errorf("%w: failed to restore slot capacity: %v", ErrInternal, err)
	}

	if slot.IsEmployeeBased() {
		restored, err := uc.slotRepo.RestoreOverlappingByEmployee(
			ctx, *slot.EmployeeID, slot.SlotDate, slot.StartAtUTC, slot.EndAtUTC, slot.ID, qty)
		if err != nil {
			uc.logger.Error("TransitionBooking: failed to restore overlapping slots for employee id=%d: %v",
				*slot.EmployeeID, err)
			return fmt.Errorf("%w: failed to restore overlapping slots: %v", ErrInternal, err)
		}
		if restored > 0 {
			uc.logger.Info("TransitionBooking: restored %d overlapping slots for employee id=%d",
				restored, *slot.EmployeeID)
		}
	}

	return nil
}

// debitPackage списывает единицу остатка пакетной подписки
func (uc *UseCase) debitPackage(ctx context.Context, subscriptionID, serviceID int64) error {
	err := uc.packageRepo.Debit(ctx, subscriptionID, serviceID)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageExhausted) || errors.Is(err, packageRepo.ErrUsageNotFound) {
			uc.logger.Warn("TransitionBooking: subscription id=%d has no remaining quantity for service id=%d",
				subscriptionID, serviceID)
			return ErrPackageExhausted
		}
		uc.logger.Error("TransitionBooking: failed to debit package subscription id=%d: %v", subscriptionID, err)
		return fmt.Errorf("%w: failed to debit package: %v", ErrInternal, err)
	}
	return nil
}

// creditPackage возвращает остаток пакетной подписки при отмене.
// Отсутствие строки леджера отмену не блокирует.
func (uc *UseCase) creditPackage(ctx context.Context, subscriptionID, serviceID int64, qty int) error {
	_, err := uc.packageRepo.Credit(ctx, subscriptionID, serviceID, qty)
	if err != nil {
		if errors.Is(err, packageRepo.ErrUsageNotFound) {
			uc.logger.Warn("TransitionBooking: no usage row for subscription id=%d, service id=%d, skipping credit",
				subscriptionID, serviceID)
			return nil
		}
		uc.logger.Error("TransitionBooking: failed to credit package subscription id=%d: %v", subscriptionID, err)
		return fmt.Errorf("%w: failed to credit package: %v", ErrInternal, err)
	}
	return nil
}
