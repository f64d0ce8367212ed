package locks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	lockRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/lock"
)

// fakeLockRepo in-memory реализация LockRepository
type fakeLockRepo struct {
	locks   map[int64]*domain.ReservationLock
	sums    map[int64]int
	removed int64
}

func (f *fakeLockRepo) GetByID(_ context.Context, id int64) (*domain.ReservationLock, error) {
	l, ok := f.locks[id]
	if !ok {
		return nil, lockRepo.ErrLockNotFound
	}
	return l, nil
}

func (f *fakeLockRepo) SumActiveBySlotIDs(_ context.Context, _ []int64, _ time.Time) (map[int64]int, error) {
	return f.sums, nil
}

func (f *fakeLockRepo) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return f.removed, nil
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

func fixture(repo *fakeLockRepo) (*Service, time.Time) {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, nopLogger{})
	svc.timeProvider = &fakeTimeProvider{now: now}
	return svc, now
}

func TestValidate_ValidLock(t *testing.T) {
	repo := &fakeLockRepo{locks: map[int64]*domain.ReservationLock{}}
	svc, now := fixture(repo)
	repo.locks[1] = &domain.ReservationLock{
		ID:        1,
		SlotID:    10,
		SessionID: "sess-1",
		ExpiresAt: now.Add(60 * time.Second),
	}

	resp, err := svc.Validate(context.Background(), 1, "sess-1")

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, int64(1), resp.LockID)
	require.NotNil(t, resp.SlotID)
	assert.Equal(t, int64(10), *resp.SlotID)
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, now.Add(60*time.Second), *resp.ExpiresAt)
}

func TestValidate_NotFoundIsNotAnError(t *testing.T) {
	svc, _ := fixture(&fakeLockRepo{locks: map[int64]*domain.ReservationLock{}})

	resp, err := svc.Validate(context.Background(), 999, "sess-1")

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Nil(t, resp.SlotID)
}

func TestValidate_ExpiredLock(t *testing.T) {
	repo := &fakeLockRepo{locks: map[int64]*domain.ReservationLock{}}
	svc, now := fixture(repo)
	repo.locks[1] = &domain.ReservationLock{
		ID:        1,
		SlotID:    10,
		SessionID: "sess-1",
		ExpiresAt: now.Add(-time.Second),
	}

	resp, err := svc.Validate(context.Background(), 1, "sess-1")

	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestValidate_WrongSession(t *testing.T) {
	repo := &fakeLockRepo{locks: map[int64]*domain.ReservationLock{}}
	svc, now := fixture(repo)
	repo.locks[1] = &domain.ReservationLock{
		ID:        1,
		SlotID:    10,
		SessionID: "sess-1",
		ExpiresAt: now.Add(60 * time.Second),
	}

	resp, err := svc.Validate(context.Background(), 1, "sess-other")

	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestValidate_InputValidation(t *testing.T) {
	svc, _ := fixture(&fakeLockRepo{})

	_, err := svc.Validate(context.Background(), 0, "sess-1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Validate(context.Background(), 1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCleanup(t *testing.T) {
	svc, _ := fixture(&fakeLockRepo{removed: 4})

	resp, err := svc.Cleanup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.LocksRemoved)
}

func TestActiveLockedCapacity_ZeroFillsMissingSlots(t *testing.T) {
	svc, _ := fixture(&fakeLockRepo{sums: map[int64]int{1: 3}})

	resp, err := svc.ActiveLockedCapacity(context.Background(), []int64{1, 2})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, int64(1), resp.Slots[0].SlotID)
	assert.Equal(t, 3, resp.Slots[0].LockedQty)
	// Слот без активных блокировок получает ноль
	assert.Equal(t, int64(2), resp.Slots[1].SlotID)
	assert.Equal(t, 0, resp.Slots[1].LockedQty)
}

func TestActiveLockedCapacity_InputValidation(t *testing.T) {
	svc, _ := fixture(&fakeLockRepo{})

	_, err := svc.ActiveLockedCapacity(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ActiveLockedCapacity(context.Background(), []int64{1, -2})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
