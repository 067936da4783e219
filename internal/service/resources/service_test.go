package resources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/scheduleservice"
	"github.com/m04kA/SMC-SchedulingService/internal/interval"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeScheduleClient фейковый клиент расписаний для тестов
type fakeScheduleClient struct {
	weekDays map[time.Weekday]scheduleservice.DaySchedule
	special  map[string]scheduleservice.DaySchedule
	calls    int
}

func (f *fakeScheduleClient) GetProviderWeekDayIntervals(_ context.Context, _ int64, _ int64, _ []int64) (map[time.Weekday]scheduleservice.DaySchedule, error) {
	f.calls++
	return f.weekDays, nil
}

func (f *fakeScheduleClient) GetProviderSpecialDayIntervals(_ context.Context, _ int64, _ int64, _ []int64) (map[string]scheduleservice.DaySchedule, error) {
	return f.special, nil
}

func TestBlockProviderAvailability_InjectsSyntheticAppointments(t *testing.T) {
	engine := NewEngine(&fakeScheduleClient{}, nopLogger{})

	room := &domain.Resource{
		ID:                    1,
		Quantity:              1,
		CountAdditionalPeople: true,
		Scope:                 domain.ScopeFixed,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeEmployee, EntityID: 7},
		},
	}

	boundProvider := &domain.Provider{ID: 7}
	otherProvider := &domain.Provider{ID: 8}

	first := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	second := appointmentAt(2, 10, "2026-09-07", 11, 13, 1)

	engine.BlockProviderAvailability(
		[]*domain.Resource{room},
		[]*domain.Appointment{first, second},
		[]*domain.Provider{boundProvider, otherProvider},
		nil,
		0,
	)

	// Синтетическая запись только у привязанного провайдера
	require.Len(t, boundProvider.Appointments, 1)
	assert.Empty(t, otherProvider.Appointments)

	fake := boundProvider.Appointments[0]
	assert.True(t, fake.Synthetic)
	assert.NotEmpty(t, fake.SyntheticID)
	assert.Zero(t, fake.ID)
	assert.Equal(t, utc("2026-09-07", 11, 0), fake.BookingStart)
	assert.Equal(t, utc("2026-09-07", 12, 0), fake.BookingEnd)
}

func TestBlockProviderAvailability_NoEmployeeBindingsBlocksAllProviders(t *testing.T) {
	engine := NewEngine(&fakeScheduleClient{}, nopLogger{})

	room := &domain.Resource{ID: 1, Quantity: 1, CountAdditionalPeople: true, Scope: domain.ScopeFixed}

	providers := []*domain.Provider{{ID: 7}, {ID: 8}, {ID: 9}}

	first := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	second := appointmentAt(2, 10, "2026-09-07", 10, 12, 1)

	engine.BlockProviderAvailability(
		[]*domain.Resource{room},
		[]*domain.Appointment{first, second},
		providers,
		nil,
		0,
	)

	for _, p := range providers {
		assert.Len(t, p.Appointments, 1, "provider %d", p.ID)
	}
}

func TestBlockLocationAvailability_IntersectsWithProviderSchedule(t *testing.T) {
	schedule := &fakeScheduleClient{
		weekDays: map[time.Weekday]scheduleservice.DaySchedule{
			// 2026-09-07 - понедельник; окно 09:00-17:00 на локации 100
			time.Monday: {Free: []scheduleservice.FreeInterval{
				{Start: 9 * 3600, End: 17 * 3600, LocationIDs: []int64{100}},
			}},
		},
		special: map[string]scheduleservice.DaySchedule{},
	}
	engine := NewEngine(schedule, nopLogger{})

	chair := &domain.Resource{
		ID:                    1,
		Quantity:              1,
		CountAdditionalPeople: true,
		Scope:                 domain.ScopeFixed,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeLocation, EntityID: 100},
		},
	}

	provider := &domain.Provider{ID: 7}

	first := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	first.LocationID = ptr.Ptr(int64(100))
	second := appointmentAt(2, 10, "2026-09-07", 11, 13, 1)
	second.LocationID = ptr.Ptr(int64(100))

	data, err := engine.BlockLocationAvailability(
		context.Background(),
		[]*domain.Resource{chair},
		[]*domain.Appointment{first, second},
		[]*domain.Provider{provider},
		10,
		nil,
		0,
	)

	require.NoError(t, err)

	// Пересечение 11:00-12:00 закрыто синтетической записью
	require.Len(t, provider.Appointments, 1)
	assert.True(t, provider.Appointments[0].Synthetic)

	// И отражено в данных насыщенности
	require.Contains(t, data, int64(7))
	require.Contains(t, data[7], "2026-09-07")
	li := data[7]["2026-09-07"][0]
	require.NotNil(t, li)
	assert.Equal(t, []int64{100}, li.LocationIDs)
	require.Len(t, li.Intervals, 1)
	assert.Equal(t, interval.Interval{Start: 11 * 3600, End: 12 * 3600}, li.Intervals[0])
}

// Свободные окна расписания приходят в произвольном порядке: стыкующиеся
// пересечения всё равно склеиваются в один интервал
func TestBlockLocationAvailability_MergesAcrossUnorderedFreeWindows(t *testing.T) {
	schedule := &fakeScheduleClient{
		weekDays: map[time.Weekday]scheduleservice.DaySchedule{
			// Дневное окно перечислено раньше утреннего
			time.Monday: {Free: []scheduleservice.FreeInterval{
				{Start: 13 * 3600, End: 17 * 3600, LocationIDs: []int64{100}},
				{Start: 9 * 3600, End: 13 * 3600, LocationIDs: []int64{100}},
			}},
		},
		special: map[string]scheduleservice.DaySchedule{},
	}
	engine := NewEngine(schedule, nopLogger{})

	chair := &domain.Resource{
		ID:                    1,
		Quantity:              1,
		CountAdditionalPeople: true,
		Scope:                 domain.ScopeFixed,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeLocation, EntityID: 100},
		},
	}

	provider := &domain.Provider{ID: 7}

	// Перегрузка 12:00-14:00 пересекает оба окна
	first := appointmentAt(1, 10, "2026-09-07", 11, 14, 1)
	first.LocationID = ptr.Ptr(int64(100))
	second := appointmentAt(2, 10, "2026-09-07", 12, 15, 1)
	second.LocationID = ptr.Ptr(int64(100))

	data, err := engine.BlockLocationAvailability(
		context.Background(),
		[]*domain.Resource{chair},
		[]*domain.Appointment{first, second},
		[]*domain.Provider{provider},
		10,
		nil,
		0,
	)

	require.NoError(t, err)
	require.Contains(t, data, int64(7))
	li := data[7]["2026-09-07"][0]
	require.NotNil(t, li)
	require.Len(t, li.Intervals, 1)
	assert.Equal(t, interval.Interval{Start: 12 * 3600, End: 14 * 3600}, li.Intervals[0])
}

func TestManageResources_SingleLocationFastPath(t *testing.T) {
	schedule := &fakeScheduleClient{}
	engine := NewEngine(schedule, nopLogger{})

	chair := &domain.Resource{
		ID:                    1,
		Quantity:              1,
		CountAdditionalPeople: true,
		Scope:                 domain.ScopeFixed,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeLocation, EntityID: 100},
		},
	}

	provider := &domain.Provider{ID: 7}

	first := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	first.LocationID = ptr.Ptr(int64(100))
	second := appointmentAt(2, 10, "2026-09-07", 11, 13, 1)
	second.LocationID = ptr.Ptr(int64(100))

	data, err := engine.ManageResources(context.Background(), &ManageRequest{
		Resources:      []*domain.Resource{chair},
		Appointments:   []*domain.Appointment{first, second},
		Providers:      []*domain.Provider{provider},
		ServiceID:      10,
		AllLocationIDs: []int64{100, 200},
		LocationID:     ptr.Ptr(int64(100)),
	})

	require.NoError(t, err)
	assert.Empty(t, data)

	// Fast path: ресурс обработан как провайдерский, расписание не запрашивалось
	assert.Zero(t, schedule.calls)
	require.Len(t, provider.Appointments, 1)
	assert.True(t, provider.Appointments[0].Synthetic)
}

func TestManageResources_ExcludesAppointment(t *testing.T) {
	engine := NewEngine(&fakeScheduleClient{}, nopLogger{})

	room := &domain.Resource{ID: 1, Quantity: 1, CountAdditionalPeople: true, Scope: domain.ScopeFixed}
	provider := &domain.Provider{ID: 7}

	first := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	second := appointmentAt(2, 10, "2026-09-07", 11, 13, 1)

	_, err := engine.ManageResources(context.Background(), &ManageRequest{
		Resources:            []*domain.Resource{room},
		Appointments:         []*domain.Appointment{first, second},
		Providers:            []*domain.Provider{provider},
		ServiceID:            10,
		ExcludeAppointmentID: ptr.Ptr(int64(2)),
	})

	require.NoError(t, err)
	// Без второй записи пересечения нет - календарь не закрыт
	assert.Empty(t, provider.Appointments)
}
