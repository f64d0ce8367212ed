package resync_capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	catalogRepo "github.com/avdeevsm/BMS-SlotService/internal/infra/storage/catalog"
	"github.com/avdeevsm/BMS-SlotService/pkg/ptr"
)

// fakeCatalogRepo in-memory справочник услуг
type fakeCatalogRepo struct {
	services map[int64]*domain.Service
	listed   []*domain.Service
}

func (f *fakeCatalogRepo) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalogRepo) ListServiceBased(_ context.Context) ([]*domain.Service, error) {
	return f.listed, nil
}

// fakeSlotRepo фиксирует вызовы пересинхронизации
type fakeSlotRepo struct {
	updatedPerService map[int64]int64
	calls             []resyncCall
}

type resyncCall struct {
	serviceID   int64
	newCapacity int
	from        time.Time
}

func (f *fakeSlotRepo) ResyncFutureByService(_ context.Context, serviceID int64, newCapacity int, from time.Time) (int64, error) {
	f.calls = append(f.calls, resyncCall{serviceID: serviceID, newCapacity: newCapacity, from: from})
	return f.updatedPerService[serviceID], nil
}

// fakeTxManager выполняет fn без реальной транзакции
type fakeTxManager struct {
	txCount int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCount++
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

func serviceBased(id int64, pool *int) *domain.Service {
	return &domain.Service{
		ID:              id,
		TenantID:        1,
		DurationMinutes: 60,
		CapacityMode:    domain.CapacityModeServiceBased,
		CapacityPerSlot: pool,
	}
}

func TestExecute_SingleService(t *testing.T) {
	catalog := &fakeCatalogRepo{services: map[int64]*domain.Service{
		5: serviceBased(5, ptr.Ptr(12)),
	}}
	slots := &fakeSlotRepo{updatedPerService: map[int64]int64{5: 7}}
	uc := NewUseCase(catalog, slots, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: time.Date(2026, 9, 7, 15, 42, 10, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 5})

	require.NoError(t, err)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, int64(5), resp.Services[0].ServiceID)
	assert.Equal(t, 12, resp.Services[0].NewCapacity)
	assert.Equal(t, int64(7), resp.Services[0].SlotsUpdated)
	assert.Equal(t, int64(7), resp.TotalSlotsUpdated)

	require.Len(t, slots.calls, 1)
	// Прошлые слоты не трогаются: нижняя граница это сегодняшняя дата
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), slots.calls[0].from)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	catalog := &fakeCatalogRepo{services: map[int64]*domain.Service{}}
	uc := NewUseCase(catalog, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 999})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_EmployeeBasedServiceRejected(t *testing.T) {
	catalog := &fakeCatalogRepo{services: map[int64]*domain.Service{
		5: {
			ID:           5,
			TenantID:     1,
			CapacityMode: domain.CapacityModeEmployeeBased,
		},
	}}
	uc := NewUseCase(catalog, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 5})

	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestExecute_ServiceWithoutPoolRejected(t *testing.T) {
	catalog := &fakeCatalogRepo{services: map[int64]*domain.Service{
		5: serviceBased(5, nil),
	}}
	uc := NewUseCase(catalog, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 5})

	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestExecute_BulkResync(t *testing.T) {
	catalog := &fakeCatalogRepo{listed: []*domain.Service{
		serviceBased(5, ptr.Ptr(10)),
		serviceBased(6, nil),        // без пула, пропускается
		serviceBased(7, ptr.Ptr(0)), // нулевой пул, пропускается
		serviceBased(8, ptr.Ptr(4)),
	}}
	slots := &fakeSlotRepo{updatedPerService: map[int64]int64{5: 3, 8: 2}}
	tx := &fakeTxManager{}
	uc := NewUseCase(catalog, slots, tx, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{})

	require.NoError(t, err)
	require.Len(t, resp.Services, 2)
	assert.Equal(t, int64(5), resp.Services[0].ServiceID)
	assert.Equal(t, int64(8), resp.Services[1].ServiceID)
	assert.Equal(t, int64(5), resp.TotalSlotsUpdated)
	// Каждая услуга в собственной транзакции
	assert.Equal(t, 2, tx.txCount)
}

func TestExecute_NegativeServiceID(t *testing.T) {
	uc := NewUseCase(&fakeCatalogRepo{}, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: -1})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
