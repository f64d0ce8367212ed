package acquire_lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	slotRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/slot"
)

// fakeSlotRepo отдает единственный слот по ID
type fakeSlotRepo struct {
	slot *domain.Slot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	if f.slot == nil || f.slot.ID != id {
		return nil, slotRepo.ErrSlotNotFound
	}
	return f.slot, nil
}

// fakeLockRepo in-memory реализация LockRepository
type fakeLockRepo struct {
	activeSum      int
	expiredRemoved int64
	created        *domain.ReservationLock
	nextID         int64
}

func (f *fakeLockRepo) DeleteExpiredBySlotID(_ context.Context, _ int64, _ time.Time) (int64, error) {
	return f.expiredRemoved, nil
}

func (f *fakeLockRepo) SumActiveBySlotID(_ context.Context, _ int64, _ time.Time) (int, error) {
	return f.activeSum, nil
}

func (f *fakeLockRepo) Create(_ context.Context, l *domain.ReservationLock) (*domain.ReservationLock, error) {
	f.nextID++
	l.ID = f.nextID
	l.CreatedAt = time.Now()
	f.created = l
	return l, nil
}

// fakeTxManager выполняет fn без реальной транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeTimeProvider фиксированное время для тестов
type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

// nopLogger глушит логи в тестах
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func fixture() (*fakeSlotRepo, *fakeLockRepo, *UseCase, time.Time) {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{
		slot: &domain.Slot{
			ID:                1,
			OriginalCapacity:  10,
			AvailableCapacity: 10,
			IsAvailable:       true,
		},
	}
	lockRepository := &fakeLockRepo{}
	uc := NewUseCase(slots, lockRepository, &fakeTxManager{}, nopLogger{}, 120)
	uc.timeProvider = &fakeTimeProvider{now: now}
	return slots, lockRepository, uc, now
}

func TestExecute_AcquiresLock(t *testing.T) {
	_, lockRepository, uc, now := fixture()

	resp, err := uc.Execute(context.Background(), &Request{
		SlotID:      1,
		SessionID:   "sess-1",
		ReservedQty: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.LockID)
	assert.Equal(t, 3, resp.ReservedQty)
	// TTL по умолчанию 120 секунд
	assert.Equal(t, now.Add(120*time.Second), resp.ExpiresAt)
	require.NotNil(t, lockRepository.created)
	assert.Equal(t, "sess-1", lockRepository.created.SessionID)
}

func TestExecute_CustomTTL(t *testing.T) {
	_, _, uc, now := fixture()

	resp, err := uc.Execute(context.Background(), &Request{
		SlotID:      1,
		SessionID:   "sess-1",
		ReservedQty: 1,
		TTLSeconds:  600,
	})

	require.NoError(t, err)
	assert.Equal(t, now.Add(600*time.Second), resp.ExpiresAt)
}

func TestExecute_CapacityExceededByActiveLocks(t *testing.T) {
	slots, lockRepository, uc, _ := fixture()
	slots.slot.AvailableCapacity = 5
	lockRepository.activeSum = 4

	_, err := uc.Execute(context.Background(), &Request{
		SlotID:      1,
		SessionID:   "sess-2",
		ReservedQty: 2,
	})

	require.ErrorIs(t, err, ErrCapacityExceeded)
	// Текст ошибки называет оба количества
	assert.Contains(t, err.Error(), "1 available")
	assert.Contains(t, err.Error(), "2 requested")
}

func TestExecute_ExpiredLocksDoNotCount(t *testing.T) {
	slots, lockRepository, uc, _ := fixture()
	slots.slot.AvailableCapacity = 2
	// Истёкшие блокировки удалены лениво, активная сумма их не содержит
	lockRepository.expiredRemoved = 3
	lockRepository.activeSum = 0

	resp, err := uc.Execute(context.Background(), &Request{
		SlotID:      1,
		SessionID:   "sess-3",
		ReservedQty: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.ReservedQty)
}

func TestExecute_SlotNotFound(t *testing.T) {
	_, _, uc, _ := fixture()

	_, err := uc.Execute(context.Background(), &Request{
		SlotID:      999,
		SessionID:   "sess-1",
		ReservedQty: 1,
	})

	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_SlotUnavailable(t *testing.T) {
	slots, _, uc, _ := fixture()
	slots.slot.IsAvailable = false

	_, err := uc.Execute(context.Background(), &Request{
		SlotID:      1,
		SessionID:   "sess-1",
		ReservedQty: 1,
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_Validation(t *testing.T) {
	_, _, uc, _ := fixture()

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "missing slot", req: &Request{SessionID: "s", ReservedQty: 1}},
		{name: "missing session", req: &Request{SlotID: 1, ReservedQty: 1}},
		{name: "zero qty", req: &Request{SlotID: 1, SessionID: "s"}},
		{name: "negative qty", req: &Request{SlotID: 1, SessionID: "s", ReservedQty: -1}},
		{name: "qty over limit", req: &Request{SlotID: 1, SessionID: "s", ReservedQty: domain.MaxReservedQty + 1}},
		{name: "ttl too small", req: &Request{SlotID: 1, SessionID: "s", ReservedQty: 1, TTLSeconds: 5}},
		{name: "ttl too large", req: &Request{SlotID: 1, SessionID: "s", ReservedQty: 1, TTLSeconds: 7200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
