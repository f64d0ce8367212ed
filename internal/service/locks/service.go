package locks

import (
	"context"
	"errors"
	"fmt"

	lockRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/lock"
	"github.com/avdeevsm/BMS-SlotService/internal/service/locks/models"
)

// Service сервис для работы с блокировками вместимости
type Service struct {
	lockRepo     LockRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(lockRepo LockRepository, logger Logger) *Service {
	return &Service{
		lockRepo:     lockRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Validate проверяет блокировку перед коммитом бронирования.
// Невалидная блокировка (отсутствует, истекла, принадлежит другой сессии)
// ошибкой не является: ответ со valid=false отдается с кодом 200.
func (s *Service) Validate(ctx context.Context, lockID int64, sessionID string) (*models.ValidateLockResponse, error) {
	if lockID <= 0 {
		return nil, fmt.Errorf("%w: lockID must be positive", ErrInvalidInput)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}

	lock, err := s.lockRepo.GetByID(ctx, lockID)
	if err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			s.logger.Info("Validate: lock id=%d not found", lockID)
			return &models.ValidateLockResponse{Valid: false, LockID: lockID}, nil
		}
		s.logger.Error("Validate: repository error for lock id=%d: %v", lockID, err)
		return nil, fmt.Errorf("%w: Validate - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	if lock.IsExpired(now) {
		s.logger.Info("Validate: lock id=%d expired at %s", lockID, lock.ExpiresAt)
		return &models.ValidateLockResponse{Valid: false, LockID: lockID}, nil
	}
	if !lock.BelongsToSession(sessionID) {
		s.logger.Warn("Validate: lock id=%d belongs to another session", lockID)
		return &models.ValidateLockResponse{Valid: false, LockID: lockID}, nil
	}

	return &models.ValidateLockResponse{
		Valid:     true,
		LockID:    lock.ID,
		SlotID:    &lock.SlotID,
		ExpiresAt: &lock.ExpiresAt,
	}, nil
}

// Cleanup удаляет все истёкшие блокировки.
// Вызывается фоновой задачей и административным эндпоинтом.
func (s *Service) Cleanup(ctx context.Context) (*models.CleanupResponse, error) {
	removed, err := s.lockRepo.DeleteExpired(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Cleanup: repository error: %v", err)
		return nil, fmt.Errorf("%w: Cleanup - repository error: %v", ErrInternal, err)
	}

	if removed > 0 {
		s.logger.Info("Cleanup: removed %d expired locks", removed)
	}

	return &models.CleanupResponse{LocksRemoved: removed}, nil
}

// ActiveLockedCapacity возвращает сумму активных резервов для каждого
// запрошенного слота. Слоты без активных блокировок получают ноль.
func (s *Service) ActiveLockedCapacity(ctx context.Context, slotIDs []int64) (*models.LockedCapacityResponse, error) {
	if len(slotIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one slotID is required", ErrInvalidInput)
	}
	for _, id := range slotIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
		}
	}

	sums, err := s.lockRepo.SumActiveBySlotIDs(ctx, slotIDs, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ActiveLockedCapacity: repository error: %v", err)
		return nil, fmt.Errorf("%w: ActiveLockedCapacity - repository error: %v", ErrInternal, err)
	}

	resp := &models.LockedCapacityResponse{
		Slots: make([]models.SlotLockedCapacity, 0, len(slotIDs)),
	}
	for _, id := range slotIDs {
		resp.Slots = append(resp.Slots, models.SlotLockedCapacity{
			SlotID:    id,
			LockedQty: sums[id],
		})
	}

	return resp, nil
}
