package acquire_lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	slotRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/slot"
)

// UseCase use case резервации вместимости слота на время checkout.
// Блокировка строки слота (FOR UPDATE) сериализует конкурентные резервации:
// проигравший видит резерв победителя в сумме активных блокировок и получает
// ErrCapacityExceeded, если свободного остатка не хватает.
type UseCase struct {
	slotRepo          SlotRepository
	lockRepo          LockRepository
	txManager         TransactionManager
	timeProvider      TimeProvider
	logger            Logger
	defaultTTLSeconds int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	lockRepo LockRepository,
	txManager TransactionManager,
	logger Logger,
	defaultTTLSeconds int,
) *UseCase {
	if defaultTTLSeconds <= 0 {
		defaultTTLSeconds = domain.DefaultLockTTLSeconds
	}
	return &UseCase{
		slotRepo:          slotRepo,
		lockRepo:          lockRepo,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
		defaultTTLSeconds: defaultTTLSeconds,
	}
}

// Execute выполняет резервацию вместимости слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AcquireLock: slot=%d, session=%s, qty=%d", req.SlotID, req.SessionID, req.ReservedQty)

	// 1. Валидация входных данных
	ttlSeconds, err := uc.validateRequest(req)
	if err != nil {
		uc.logger.Warn("AcquireLock: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var created *domain.ReservationLock

	// 2. Проверка и вставка в одной транзакции под блокировкой строки слота
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Берем слот с блокировкой строки (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("AcquireLock: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("AcquireLock: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if !slot.IsAvailable {
			uc.logger.Warn("AcquireLock: slot id=%d is marked unavailable", req.SlotID)
			return ErrSlotUnavailable
		}

		// 2.2. Ленивая очистка истёкших блокировок слота
		if _, err := uc.lockRepo.DeleteExpiredBySlotID(txCtx, req.SlotID, now); err != nil {
			uc.logger.Error("AcquireLock: failed to cleanup expired locks for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to cleanup expired locks: %v", ErrInternal, err)
		}

		// 2.3. Сумма активных резервов слота
		activeLockedSum, err := uc.lockRepo.SumActiveBySlotID(txCtx, req.SlotID, now)
		if err != nil {
			uc.logger.Error("AcquireLock: failed to sum active locks for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to sum active locks: %v", ErrInternal, err)
		}

		// 2.4. Свободный остаток за вычетом чужих резервов
		free := slot.FreeAfterLocks(activeLockedSum)
		if free < req.ReservedQty {
			uc.logger.Warn("AcquireLock: slot id=%d has %d free, %d requested", req.SlotID, free, req.ReservedQty)
			return fmt.Errorf("%w: %d available, %d requested", ErrCapacityExceeded, free, req.ReservedQty)
		}

		// 2.5. Создаем блокировку с TTL
		created, err = uc.lockRepo.Create(txCtx, &domain.ReservationLock{
			SlotID:      req.SlotID,
			SessionID:   req.SessionID,
			ReservedQty: req.ReservedQty,
			ExpiresAt:   now.Add(time.Duration(ttlSeconds) * time.Second),
		})
		if err != nil {
			uc.logger.Error("AcquireLock: failed to create lock for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to create lock: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("AcquireLock: created lock id=%d for slot=%d, qty=%d, expires=%s",
		created.ID, created.SlotID, created.ReservedQty, created.ExpiresAt.Format(time.RFC3339))

	return &Response{
		LockID:      created.ID,
		SlotID:      created.SlotID,
		ReservedQty: created.ReservedQty,
		ExpiresAt:   created.ExpiresAt,
	}, nil
}

// validateRequest валидирует входные данные и возвращает эффективный TTL
func (uc *UseCase) validateRequest(req *Request) (int, error) {
	if req.SlotID <= 0 {
		return 0, fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}
	if req.SessionID == "" {
		return 0, fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}
	if req.ReservedQty <= 0 {
		return 0, fmt.Errorf("%w: reservedQty must be positive", ErrInvalidInput)
	}
	if req.ReservedQty > domain.MaxReservedQty {
		return 0, fmt.Errorf("%w: reservedQty must not exceed %d", ErrInvalidInput, domain.MaxReservedQty)
	}

	ttl := req.TTLSeconds
	if ttl == 0 {
		ttl = uc.defaultTTLSeconds
	}
	if ttl < domain.MinLockTTLSeconds || ttl > domain.MaxLockTTLSeconds {
		return 0, fmt.Errorf("%w: ttlSeconds must be between %d and %d",
			ErrInvalidInput, domain.MinLockTTLSeconds, domain.MaxLockTTLSeconds)
	}

	return ttl, nil
}
