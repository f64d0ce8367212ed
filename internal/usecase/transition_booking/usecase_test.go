package transition_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	bookingRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/booking"
	packageRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/packageusage"
	slotRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/slot"
	"github.com/avdeevsm/BMS-SlotService/pkg/ptr"
)

// fakeBookingRepo in-memory реализация BookingRepository
type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	nextID   int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	f.bookings[b.ID] = &stored
	return b, nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason *string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	return nil
}

// fakeSlotRepo in-memory реализация SlotRepository с SQL-зажимами
type fakeSlotRepo struct {
	slots           map[int64]*domain.Slot
	overlapRestored int
}

func newFakeSlotRepo(slots ...*domain.Slot) *fakeSlotRepo {
	m := make(map[int64]*domain.Slot)
	for _, s := range slots {
		m[s.ID] = s
	}
	return &fakeSlotRepo{slots: m}
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) DebitCapacity(_ context.Context, id int64, qty int) error {
	s, ok := f.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	s.AvailableCapacity -= qty
	if s.AvailableCapacity < 0 {
		s.AvailableCapacity = 0
	}
	s.BookedCount += qty
	s.IsOverbooked = s.BookedCount > s.OriginalCapacity
	return nil
}

func (f *fakeSlotRepo) RestoreCapacity(_ context.Context, id int64, qty int) error {
	s, ok := f.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	s.AvailableCapacity += qty
	if s.AvailableCapacity > s.OriginalCapacity {
		s.AvailableCapacity = s.OriginalCapacity
	}
	s.BookedCount -= qty
	if s.BookedCount < 0 {
		s.BookedCount = 0
	}
	s.IsOverbooked = s.BookedCount > s.OriginalCapacity
	return nil
}

func (f *fakeSlotRepo) RestoreOverlappingByEmployee(
	_ context.Context,
	employeeID int64,
	slotDate time.Time,
	startAtUTC, endAtUTC time.Time,
	excludeSlotID int64,
	qty int,
) (int64, error) {
	var restored int64
	for _, s := range f.slots {
		if s.ID == excludeSlotID || s.EmployeeID == nil || *s.EmployeeID != employeeID {
			continue
		}
		if !s.SlotDate.Equal(slotDate) {
			continue
		}
		if s.StartAtUTC.Before(endAtUTC) && s.EndAtUTC.After(startAtUTC) {
			s.AvailableCapacity += qty
			if s.AvailableCapacity > s.OriginalCapacity {
				s.AvailableCapacity = s.OriginalCapacity
			}
			restored++
		}
	}
	f.overlapRestored += qty
	return restored, nil
}

// fakePackageRepo in-memory леджер пакетной подписки
type fakePackageRepo struct {
	remaining  int
	used       int
	hasUsage   bool
	debitCalls int
}

func (f *fakePackageRepo) Debit(_ context.Context, _, _ int64) error {
	if !f.hasUsage || f.remaining <= 0 {
		return packageRepo.ErrPackageExhausted
	}
	f.remaining--
	f.used++
	f.debitCalls++
	return nil
}

func (f *fakePackageRepo) Credit(_ context.Context, _, _ int64, qty int) (int64, error) {
	if !f.hasUsage {
		return 0, nil
	}
	if qty > f.used {
		qty = f.used
	}
	f.remaining += qty
	f.used -= qty
	return 1, nil
}

// fakeTxManager выполняет fn без реальной транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// nopLogger глушит логи в тестах
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serviceSlot() *domain.Slot {
	return &domain.Slot{
		ID:                1,
		TenantID:          1,
		ServiceID:         5,
		OriginalCapacity:  10,
		AvailableCapacity: 10,
		IsAvailable:       true,
	}
}

func newUseCase(slots *fakeSlotRepo, bookings *fakeBookingRepo, packages *fakePackageRepo) *UseCase {
	return NewUseCase(bookings, slots, packages, &fakeTxManager{}, nopLogger{})
}

func TestCreate_PendingHasNoSideEffects(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})

	resp, err := uc.Create(context.Background(), &CreateRequest{
		TenantID:   1,
		ServiceID:  5,
		SlotID:     1,
		AdultCount: 2,
		ChildCount: 1,
		Status:     domain.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 3, resp.VisitorCount)
	// pending не занимает вместимость
	assert.Equal(t, 10, resp.Slot.AvailableCapacity)
	assert.Equal(t, 0, resp.Slot.BookedCount)
}

func TestCreate_ConfirmedDebitsCapacity(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})

	resp, err := uc.Create(context.Background(), &CreateRequest{
		TenantID:   1,
		ServiceID:  5,
		SlotID:     1,
		AdultCount: 2,
		ChildCount: 2,
		Status:     domain.StatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 6, resp.Slot.AvailableCapacity)
	assert.Equal(t, 4, resp.Slot.BookedCount)
	assert.False(t, resp.Slot.IsOverbooked)
}

func TestCreate_ConfirmedOverCapacityIsRejected(t *testing.T) {
	slot := serviceSlot()
	slot.AvailableCapacity = 2
	slots := newFakeSlotRepo(slot)
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})

	_, err := uc.Create(context.Background(), &CreateRequest{
		TenantID:   1,
		ServiceID:  5,
		SlotID:     1,
		AdultCount: 3,
		Status:     domain.StatusConfirmed,
	})

	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "2 available")
	assert.Contains(t, err.Error(), "3 requested")
	// Бронирование не создано
	assert.Empty(t, bookings.bookings)
}

func TestCreate_WithSubscriptionDebitsOneUnit(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	packages := &fakePackageRepo{hasUsage: true, remaining: 5, used: 0}
	uc := newUseCase(slots, bookings, packages)

	_, err := uc.Create(context.Background(), &CreateRequest{
		TenantID:       1,
		ServiceID:      5,
		SlotID:         1,
		SubscriptionID: ptr.Ptr(int64(77)),
		AdultCount:     3,
		Status:         domain.StatusConfirmed,
	})

	require.NoError(t, err)
	// Списывается одна единица пакета независимо от числа посетителей
	assert.Equal(t, 4, packages.remaining)
	assert.Equal(t, 1, packages.used)
	assert.Equal(t, 1, packages.debitCalls)
}

func TestCreate_ExhaustedPackage(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	packages := &fakePackageRepo{hasUsage: true, remaining: 0, used: 5}
	uc := newUseCase(slots, bookings, packages)

	_, err := uc.Create(context.Background(), &CreateRequest{
		TenantID:       1,
		ServiceID:      5,
		SlotID:         1,
		SubscriptionID: ptr.Ptr(int64(77)),
		AdultCount:     1,
		Status:         domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrPackageExhausted)
}

func TestCreate_Validation(t *testing.T) {
	uc := newUseCase(newFakeSlotRepo(serviceSlot()), newFakeBookingRepo(), &fakePackageRepo{})

	tests := []struct {
		name string
		req  *CreateRequest
	}{
		{name: "no visitors", req: &CreateRequest{TenantID: 1, ServiceID: 5, SlotID: 1, Status: domain.StatusPending}},
		{name: "negative adults", req: &CreateRequest{TenantID: 1, ServiceID: 5, SlotID: 1, AdultCount: -1, ChildCount: 2, Status: domain.StatusPending}},
		{name: "cancelled initial status", req: &CreateRequest{TenantID: 1, ServiceID: 5, SlotID: 1, AdultCount: 1, Status: domain.StatusCancelled}},
		{name: "checked_in initial status", req: &CreateRequest{TenantID: 1, ServiceID: 5, SlotID: 1, AdultCount: 1, Status: domain.StatusCheckedIn}},
		{name: "missing tenant", req: &CreateRequest{ServiceID: 5, SlotID: 1, AdultCount: 1, Status: domain.StatusPending}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func seedBooking(t *testing.T, uc *UseCase, status domain.BookingStatus, visitors int, subscriptionID *int64) int64 {
	t.Helper()
	resp, err := uc.Create(context.Background(), &CreateRequest{
		TenantID:       1,
		ServiceID:      5,
		SlotID:         1,
		SubscriptionID: subscriptionID,
		AdultCount:     visitors,
		Status:         status,
	})
	require.NoError(t, err)
	return resp.BookingID
}

func TestTransition_PendingToConfirmedDebits(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})
	id := seedBooking(t, uc, domain.StatusPending, 4, nil)

	resp, err := uc.Transition(context.Background(), &TransitionRequest{
		BookingID: id,
		NewStatus: domain.StatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 6, resp.Slot.AvailableCapacity)
	assert.Equal(t, 4, resp.Slot.BookedCount)
}

func TestTransition_ConfirmedToCheckedInKeepsCapacity(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})
	id := seedBooking(t, uc, domain.StatusConfirmed, 4, nil)

	resp, err := uc.Transition(context.Background(), &TransitionRequest{
		BookingID: id,
		NewStatus: domain.StatusCheckedIn,
	})

	require.NoError(t, err)
	// Оба статуса занимают места, счётчики не меняются
	assert.Equal(t, 6, resp.Slot.AvailableCapacity)
	assert.Equal(t, 4, resp.Slot.BookedCount)
}

func TestTransition_CheckedInToCompletedRestores(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})
	id := seedBooking(t, uc, domain.StatusConfirmed, 4, nil)

	_, err := uc.Transition(context.Background(), &TransitionRequest{BookingID: id, NewStatus: domain.StatusCheckedIn})
	require.NoError(t, err)

	resp, err := uc.Transition(context.Background(), &TransitionRequest{BookingID: id, NewStatus: domain.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 10, resp.Slot.AvailableCapacity)
	assert.Equal(t, 0, resp.Slot.BookedCount)
}

func TestTransition_ConfirmedToCancelledRestoresAndCredits(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	packages := &fakePackageRepo{hasUsage: true, remaining: 5, used: 0}
	uc := newUseCase(slots, bookings, packages)
	id := seedBooking(t, uc, domain.StatusConfirmed, 3, ptr.Ptr(int64(77)))
	require.Equal(t, 4, packages.remaining)

	reason := "клиент отменил визит"
	resp, err := uc.Transition(context.Background(), &TransitionRequest{
		BookingID:          id,
		NewStatus:          domain.StatusCancelled,
		CancellationReason: &reason,
	})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, reason, *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)
	// Вместимость слота возвращена
	assert.Equal(t, 10, resp.Slot.AvailableCapacity)
	// Возврат пакета на число посетителей, зажатый реально израсходованным
	assert.Equal(t, 5, packages.remaining)
	assert.Equal(t, 0, packages.used)
}

func TestTransition_PendingToCancelledHasNoCapacityEffect(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})
	id := seedBooking(t, uc, domain.StatusPending, 3, nil)

	resp, err := uc.Transition(context.Background(), &TransitionRequest{
		BookingID: id,
		NewStatus: domain.StatusCancelled,
	})

	require.NoError(t, err)
	assert.Equal(t, 10, resp.Slot.AvailableCapacity)
	assert.Equal(t, 0, resp.Slot.BookedCount)
}

func TestTransition_ConfirmOverCapacityIsRejected(t *testing.T) {
	slot := serviceSlot()
	slots := newFakeSlotRepo(slot)
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})
	id := seedBooking(t, uc, domain.StatusPending, 4, nil)

	slot.AvailableCapacity = 3

	_, err := uc.Transition(context.Background(), &TransitionRequest{
		BookingID: id,
		NewStatus: domain.StatusConfirmed,
	})

	require.ErrorIs(t, err, ErrCapacityExceeded)
	// Статус не изменился
	stored, getErr := bookings.GetByID(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestTransition_InvalidEdges(t *testing.T) {
	slots := newFakeSlotRepo(serviceSlot())
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})

	id := seedBooking(t, uc, domain.StatusPending, 1, nil)
	_, err := uc.Transition(context.Background(), &TransitionRequest{BookingID: id, NewStatus: domain.StatusCheckedIn})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = uc.Transition(context.Background(), &TransitionRequest{BookingID: id, NewStatus: domain.StatusCompleted})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// checked_in допускает только completed
	id2 := seedBooking(t, uc, domain.StatusConfirmed, 1, nil)
	_, err = uc.Transition(context.Background(), &TransitionRequest{BookingID: id2, NewStatus: domain.StatusCheckedIn})
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), &TransitionRequest{BookingID: id2, NewStatus: domain.StatusCancelled})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Терминальные статусы не покидаются
	id3 := seedBooking(t, uc, domain.StatusConfirmed, 1, nil)
	_, err = uc.Transition(context.Background(), &TransitionRequest{BookingID: id3, NewStatus: domain.StatusCancelled})
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), &TransitionRequest{BookingID: id3, NewStatus: domain.StatusConfirmed})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_BookingNotFound(t *testing.T) {
	uc := newUseCase(newFakeSlotRepo(serviceSlot()), newFakeBookingRepo(), &fakePackageRepo{})

	_, err := uc.Transition(context.Background(), &TransitionRequest{
		BookingID: 999,
		NewStatus: domain.StatusConfirmed,
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestTransition_UnknownStatus(t *testing.T) {
	uc := newUseCase(newFakeSlotRepo(serviceSlot()), newFakeBookingRepo(), &fakePackageRepo{})

	_, err := uc.Transition(context.Background(), &TransitionRequest{
		BookingID: 1,
		NewStatus: domain.BookingStatus("nonsense"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransition_EmployeeSlotRestoresOverlapping(t *testing.T) {
	employeeID := int64(101)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	main := &domain.Slot{
		ID:                1,
		TenantID:          1,
		ServiceID:         5,
		EmployeeID:        &employeeID,
		SlotDate:          date,
		StartAtUTC:        time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndAtUTC:          time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
		OriginalCapacity:  1,
		AvailableCapacity: 1,
		IsAvailable:       true,
	}
	// Пересекается с main по времени, та же дата и сотрудник
	overlapping := &domain.Slot{
		ID:                2,
		TenantID:          1,
		ServiceID:         5,
		EmployeeID:        &employeeID,
		SlotDate:          date,
		StartAtUTC:        time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndAtUTC:          time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC),
		OriginalCapacity:  1,
		AvailableCapacity: 0,
		BookedCount:       1,
		IsAvailable:       true,
	}
	// Не пересекается
	disjoint := &domain.Slot{
		ID:                3,
		TenantID:          1,
		ServiceID:         5,
		EmployeeID:        &employeeID,
		SlotDate:          date,
		StartAtUTC:        time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		EndAtUTC:          time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC),
		OriginalCapacity:  1,
		AvailableCapacity: 0,
		BookedCount:       1,
		IsAvailable:       true,
	}

	slots := newFakeSlotRepo(main, overlapping, disjoint)
	bookings := newFakeBookingRepo()
	uc := newUseCase(slots, bookings, &fakePackageRepo{})

	resp, err := uc.Create(context.Background(), &CreateRequest{
		TenantID:   1,
		ServiceID:  5,
		SlotID:     1,
		EmployeeID: &employeeID,
		AdultCount: 1,
		Status:     domain.StatusConfirmed,
	})
	require.NoError(t, err)

	_, err = uc.Transition(context.Background(), &TransitionRequest{
		BookingID: resp.BookingID,
		NewStatus: domain.StatusCancelled,
	})
	require.NoError(t, err)

	// Пересекающийся слот сотрудника восстановлен, непересекающийся нет
	assert.Equal(t, 1, slots.slots[2].AvailableCapacity)
	assert.Equal(t, 0, slots.slots[3].AvailableCapacity)
}
