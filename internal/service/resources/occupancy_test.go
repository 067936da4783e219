package resources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/interval"
)

func utc(day string, hour, minute int) time.Time {
	date, _ := time.Parse(domain.DateFormat, day)
	return date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func appointmentAt(id int64, serviceID int64, day string, fromHour, toHour int, persons int) *domain.Appointment {
	return &domain.Appointment{
		ID:           id,
		ServiceID:    serviceID,
		ProviderID:   1,
		BookingStart: utc(day, fromHour, 0),
		BookingEnd:   utc(day, toHour, 0),
		Status:       domain.AppointmentStatusApproved,
		Bookings: []*domain.CustomerBooking{
			{ID: id * 100, CustomerID: 500 + id, Persons: persons, Status: domain.BookingStatusApproved},
		},
	}
}

// Сценарий переподписки: ресурс ёмкостью 1, две пересекающиеся записи.
// Зона пересечения занята, обе записи помечены full; третья запись вне
// пересечения остаётся без флага.
func TestComputeOccupiedIntervals_Oversubscription(t *testing.T) {
	room := &domain.Resource{
		ID:                    1,
		Name:                  "treatment room",
		Quantity:              1,
		CountAdditionalPeople: true,
		Scope:                 domain.ScopeFixed,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeService, EntityID: 10},
		},
	}

	first := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)  // 10:00-12:00
	second := appointmentAt(2, 10, "2026-09-07", 11, 13, 1) // 11:00-13:00
	third := appointmentAt(3, 10, "2026-09-07", 15, 16, 1)  // 15:00-16:00, вне пересечения

	occupancy := ComputeOccupiedIntervals(
		[]*domain.Resource{room},
		[]*domain.Appointment{first, second, third},
		0,
		nil,
	)

	require.Contains(t, occupancy, 0)
	dayOccupancy := occupancy[0]["2026-09-07"]
	require.Len(t, dayOccupancy, 1)

	// Занята только зона пересечения 11:00-12:00
	assert.Equal(t, interval.Interval{Start: 11 * 3600, End: 12 * 3600}, dayOccupancy[0].Interval)
	assert.ElementsMatch(t, []int64{1, 2}, dayOccupancy[0].AppointmentIDs)

	assert.True(t, first.Full)
	assert.True(t, second.Full)
	assert.False(t, third.Full)
}

func TestComputeOccupiedIntervals_BookingCountedResource(t *testing.T) {
	// Ресурс со счётом по бронированиям: occupancy >= quantity
	seats := &domain.Resource{
		ID:       1,
		Quantity: 2,
		Scope:    domain.ScopeFixed,
	}

	first := appointmentAt(1, 10, "2026-09-07", 10, 11, 5)
	second := appointmentAt(2, 20, "2026-09-07", 10, 11, 5)

	occupancy := ComputeOccupiedIntervals(
		[]*domain.Resource{seats},
		[]*domain.Appointment{first, second},
		0,
		nil,
	)

	require.Contains(t, occupancy, 0)
	require.Len(t, occupancy[0]["2026-09-07"], 1)

	// Счёт по бронированиям не помечает записи full
	assert.False(t, first.Full)
	assert.False(t, second.Full)
}

func TestComputeOccupiedIntervals_CandidatePersonsPushOverCapacity(t *testing.T) {
	room := &domain.Resource{
		ID:                    1,
		Quantity:              3,
		CountAdditionalPeople: true,
		Scope:                 domain.ScopeFixed,
	}

	existing := appointmentAt(1, 10, "2026-09-07", 10, 11, 2)

	// Без кандидата ёмкость не исчерпана
	occupancy := ComputeOccupiedIntervals([]*domain.Resource{room}, []*domain.Appointment{existing}, 0, nil)
	assert.Empty(t, occupancy)

	// Кандидат с двумя участниками переполняет ресурс
	existing.Full = false
	occupancy = ComputeOccupiedIntervals([]*domain.Resource{room}, []*domain.Appointment{existing}, 2, nil)
	require.Contains(t, occupancy, 0)
}

func TestComputeOccupiedIntervals_UnboundDimensionMatchesEverything(t *testing.T) {
	// Ресурс без service-привязок матчит записи любой услуги
	anyService := &domain.Resource{ID: 1, Quantity: 1, Scope: domain.ScopeFixed}

	first := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	second := appointmentAt(2, 99, "2026-09-07", 11, 13, 1)

	occupancy := ComputeOccupiedIntervals(
		[]*domain.Resource{anyService},
		[]*domain.Appointment{first, second},
		0,
		nil,
	)

	require.Contains(t, occupancy, 0)
}

func TestComputeOccupiedIntervals_InactiveAppointmentsIgnored(t *testing.T) {
	room := &domain.Resource{ID: 1, Quantity: 1, CountAdditionalPeople: true, Scope: domain.ScopeFixed}

	canceled := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	canceled.Status = domain.AppointmentStatusCanceled
	active := appointmentAt(2, 10, "2026-09-07", 11, 13, 1)

	occupancy := ComputeOccupiedIntervals(
		[]*domain.Resource{room},
		[]*domain.Appointment{canceled, active},
		0,
		nil,
	)

	// Одна активная запись ёмкость 1 не переполняет (кандидатов нет)
	assert.Empty(t, occupancy)
}

func TestComputeOccupiedIntervals_ExcludedCustomerNotCounted(t *testing.T) {
	room := &domain.Resource{ID: 1, Quantity: 1, CountAdditionalPeople: true, Scope: domain.ScopeFixed}

	appointment := appointmentAt(1, 10, "2026-09-07", 10, 12, 1)
	excluded := appointment.Bookings[0].CustomerID

	occupancy := ComputeOccupiedIntervals(
		[]*domain.Resource{room},
		[]*domain.Appointment{appointment},
		1,
		&excluded,
	)

	// Единственный участник исключён - запись не занимает ресурс
	assert.Empty(t, occupancy)
}

func TestComputeOccupiedIntervals_MidnightEndTreatedAsEndOfDay(t *testing.T) {
	room := &domain.Resource{ID: 1, Quantity: 1, CountAdditionalPeople: true, Scope: domain.ScopeFixed}

	// Запись 23:00 - 00:00 следующего дня
	late := &domain.Appointment{
		ID:           1,
		ServiceID:    10,
		ProviderID:   1,
		BookingStart: utc("2026-09-07", 23, 0),
		BookingEnd:   utc("2026-09-08", 0, 0),
		Status:       domain.AppointmentStatusApproved,
		Bookings: []*domain.CustomerBooking{
			{ID: 100, CustomerID: 501, Persons: 1, Status: domain.BookingStatusApproved},
		},
	}

	occupancy := ComputeOccupiedIntervals([]*domain.Resource{room}, []*domain.Appointment{late}, 1, nil)

	require.Contains(t, occupancy, 0)
	dayOccupancy := occupancy[0]["2026-09-07"]
	require.Len(t, dayOccupancy, 1)
	assert.Equal(t, interval.Interval{Start: 23 * 3600, End: domain.SecondsInDay}, dayOccupancy[0].Interval)
}
