package generate_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	"github.com/avdeevsm/BMS-SlotService/pkg/ptr"
)

func TestSliceWindow(t *testing.T) {
	tests := []struct {
		name     string
		startMin int
		endMin   int
		duration int
		want     []slotInterval
	}{
		{
			name:     "three slots exactly fill the window",
			startMin: 540, // 09:00
			endMin:   720, // 12:00
			duration: 60,
			want: []slotInterval{
				{startMin: 540, endMin: 600},
				{startMin: 600, endMin: 660},
				{startMin: 660, endMin: 720},
			},
		},
		{
			name:     "partial trailing interval is dropped",
			startMin: 540, // 09:00
			endMin:   710, // 11:50
			duration: 60,
			want: []slotInterval{
				{startMin: 540, endMin: 600},
				{startMin: 600, endMin: 660},
			},
		},
		{
			name:     "window shorter than duration yields nothing",
			startMin: 540,
			endMin:   570,
			duration: 60,
			want:     []slotInterval{},
		},
		{
			name:     "zero duration yields nothing",
			startMin: 540,
			endMin:   720,
			duration: 0,
			want:     nil,
		},
		{
			name:     "inverted window yields nothing",
			startMin: 720,
			endMin:   540,
			duration: 60,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sliceWindow(tt.startMin, tt.endMin, tt.duration)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchingDates(t *testing.T) {
	// 2026-09-07 понедельник
	shift := &domain.Shift{
		Weekdays: []int{int(time.Monday), int(time.Wednesday)},
	}

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	dates := matchingDates(shift, start, end)
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), dates[1])
}

func TestMatchingDates_NoMatchingWeekdays(t *testing.T) {
	shift := &domain.Shift{Weekdays: []int{int(time.Sunday)}}

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // понедельник
	end := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)  // пятница

	assert.Empty(t, matchingDates(shift, start, end))
}

func TestBuildSlotsForDate_TimezoneConversion(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	shift := &domain.Shift{ID: 10, TenantID: 1}
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	intervals := []slotInterval{{startMin: 540, endMin: 600}} // 09:00-10:00

	slots, err := buildSlotsForDate(shift, 5, nil, date, intervals, 3, loc)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	slot := slots[0]
	assert.Equal(t, "09:00", slot.StartTime.String())
	assert.Equal(t, "10:00", slot.EndTime.String())
	// Москва UTC+3: 09:00 местного = 06:00 UTC
	assert.Equal(t, time.Date(2026, 9, 7, 6, 0, 0, 0, time.UTC), slot.StartAtUTC)
	assert.Equal(t, time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC), slot.EndAtUTC)
	assert.Equal(t, 3, slot.OriginalCapacity)
	assert.Equal(t, 3, slot.AvailableCapacity)
	assert.True(t, slot.IsAvailable)
	assert.Nil(t, slot.EmployeeID)
}

func TestBuildSlotsForDate_EndOfDay(t *testing.T) {
	shift := &domain.Shift{ID: 10, TenantID: 1}
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	intervals := []slotInterval{{startMin: 1380, endMin: 1440}} // 23:00-24:00

	slots, err := buildSlotsForDate(shift, 5, nil, date, intervals, 1, time.UTC)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	assert.Equal(t, "23:00", slots[0].StartTime.String())
	assert.Equal(t, "24:00", slots[0].EndTime.String())
	// 1440 минут нормализуются в полночь следующего дня
	assert.Equal(t, time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), slots[0].EndAtUTC)
}

func TestResolveOwners_ServiceBased(t *testing.T) {
	service := &domain.Service{
		ID:              5,
		DurationMinutes: 60,
		CapacityMode:    domain.CapacityModeServiceBased,
		CapacityPerSlot: ptr.Ptr(8),
	}

	owners := resolveOwners(service, nil, nil, nil)
	require.Len(t, owners, 1)
	assert.Nil(t, owners[0].employeeID)
	assert.Equal(t, 60, owners[0].durationMinutes)
	assert.Equal(t, 8, owners[0].capacity)
}

func TestResolveOwners_EmployeeBased(t *testing.T) {
	service := &domain.Service{
		ID:              5,
		DurationMinutes: 60,
		CapacityMode:    domain.CapacityModeEmployeeBased,
	}

	t.Run("shift scoped assignments win", func(t *testing.T) {
		byShift := []*domain.EmployeeAssignment{
			{EmployeeID: 101, DurationMinutes: ptr.Ptr(30), CapacityPerSlot: ptr.Ptr(2)},
		}
		unscoped := []*domain.EmployeeAssignment{{EmployeeID: 202}}

		owners := resolveOwners(service, byShift, unscoped, nil)
		require.Len(t, owners, 1)
		assert.Equal(t, int64(101), *owners[0].employeeID)
		assert.Equal(t, 30, owners[0].durationMinutes)
		assert.Equal(t, 2, owners[0].capacity)
	})

	t.Run("unscoped assignments used when shift has none", func(t *testing.T) {
		unscoped := []*domain.EmployeeAssignment{{EmployeeID: 202}}

		owners := resolveOwners(service, nil, unscoped, nil)
		require.Len(t, owners, 1)
		assert.Equal(t, int64(202), *owners[0].employeeID)
		// Без overrides действует длительность услуги и вместимость 1
		assert.Equal(t, 60, owners[0].durationMinutes)
		assert.Equal(t, 1, owners[0].capacity)
	})

	t.Run("fallback employees when no assignments exist", func(t *testing.T) {
		fallback := []*domain.Employee{{ID: 301}, {ID: 302}}

		owners := resolveOwners(service, nil, nil, fallback)
		require.Len(t, owners, 2)
		assert.Equal(t, int64(301), *owners[0].employeeID)
		assert.Equal(t, int64(302), *owners[1].employeeID)
		assert.Equal(t, 1, owners[0].capacity)
	})

	t.Run("nothing resolves to empty", func(t *testing.T) {
		assert.Empty(t, resolveOwners(service, nil, nil, nil))
	})
}
