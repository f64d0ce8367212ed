package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/booking"
	slotRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/slot"
	"github.com/avdeevsm/BMS-SlotService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// ListBySlot получает бронирования слота, новые первыми
func (s *Service) ListBySlot(ctx context.Context, slotID int64) (*models.SlotBookingsResponse, error) {
	if slotID <= 0 {
		return nil, fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	// Проверяем существование слота, чтобы отличать пустой список от 404
	if _, err := s.slotRepo.GetByID(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("ListBySlot: slot id=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("ListBySlot: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: ListBySlot - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.ListBySlotID(ctx, slotID)
	if err != nil {
		s.logger.Error("ListBySlot: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: ListBySlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBySlot: fetched %d bookings for slot id=%d", len(bookings), slotID)
	return models.FromDomainBookingList(slotID, bookings), nil
}
