package packagecredits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// purchase покупка пакета с попслотовыми кредитами
func purchase(id, customerID int64, slots ...*domain.PackageCustomerService) *domain.PackageCustomer {
	return &domain.PackageCustomer{
		ID:         id,
		PackageID:  1,
		CustomerID: customerID,
		Start:      testNow.AddDate(0, -1, 0),
		Purchased:  testNow.AddDate(0, -1, 0),
		Status:     domain.PackageCustomerStatusApproved,
		Services:   slots,
	}
}

// sharedPurchase покупка с общим пулом кредитов
func sharedPurchase(id, customerID int64, pool int, slots ...*domain.PackageCustomerService) *domain.PackageCustomer {
	pc := purchase(id, customerID, slots...)
	pc.BookingsCount = pool
	return pc
}

func slot(id, serviceID int64, credits int) *domain.PackageCustomerService {
	return &domain.PackageCustomerService{ID: id, ServiceID: serviceID, BookingsCount: credits}
}

// consumingAppointment визит, списывающий один кредит с указанного слота
func consumingAppointment(id int64, slotID int64) *domain.Appointment {
	return &domain.Appointment{
		ID:     id,
		Status: domain.AppointmentStatusApproved,
		Bookings: []*domain.CustomerBooking{
			{
				ID:                       id * 100,
				CustomerID:               42,
				Persons:                  1,
				Status:                   domain.BookingStatusApproved,
				PackageCustomerServiceID: ptr.Ptr(slotID),
			},
		},
	}
}

func TestComputeRemainingCredits_PerSlot(t *testing.T) {
	pc := purchase(1, 42, slot(10, 5, 3), slot(11, 6, 2))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10),
	}

	views := ComputeRemainingCredits([]*domain.PackageCustomer{pc}, appointments, testNow)

	require.Len(t, views, 2)
	assert.Equal(t, 3, views[0].Total)
	assert.Equal(t, 1, views[0].Count)
	assert.Equal(t, 2, views[1].Total)
	assert.Equal(t, 2, views[1].Count)
	assert.Equal(t, 3, views.RemainingFor(1))
}

// Сохранение кредитов: потреблено + остаток == исходные кредиты,
// что бы ни творилось во входных визитах
func TestComputeRemainingCredits_Conservation(t *testing.T) {
	pc := purchase(1, 42, slot(10, 5, 3), slot(11, 6, 2))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 11),
		consumingAppointment(3, 10),
	}
	// Отменённый визит кредиты не трогает
	canceled := consumingAppointment(4, 10)
	canceled.Status = domain.AppointmentStatusCanceled
	appointments = append(appointments, canceled)

	views := ComputeRemainingCredits([]*domain.PackageCustomer{pc}, appointments, testNow)

	consumed := 0
	total := 0
	remaining := 0
	for _, v := range views {
		total += v.Total
		remaining += v.Count
		consumed += v.Total - v.Count
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, consumed)
	assert.Equal(t, total, consumed+remaining)
}

// Общий пул: кредит любой услуги уменьшает остаток всех слотов покупки
func TestComputeRemainingCredits_SharedPool(t *testing.T) {
	pc := sharedPurchase(1, 42, 10, slot(10, 5, 0), slot(11, 6, 0))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10),
		consumingAppointment(3, 11),
	}

	views := ComputeRemainingCredits([]*domain.PackageCustomer{pc}, appointments, testNow)

	require.Len(t, views, 2)
	for _, v := range views {
		assert.True(t, v.SharedCapacity)
		assert.Equal(t, 10, v.Total)
		assert.Equal(t, 7, v.Count)
	}
	// Общий остаток считается один раз, не суммируется по слотам
	assert.Equal(t, 7, views.RemainingFor(1))
}

func TestComputeRemainingCredits_SkipsInvalidPurchases(t *testing.T) {
	canceled := purchase(1, 42, slot(10, 5, 3))
	canceled.Status = domain.PackageCustomerStatusCanceled

	expired := purchase(2, 42, slot(11, 5, 3))
	expired.End = ptr.Ptr(testNow.AddDate(0, 0, -1))

	open := purchase(3, 42, slot(12, 5, 3))

	views := ComputeRemainingCredits(
		[]*domain.PackageCustomer{canceled, expired, open},
		nil,
		testNow,
	)

	require.Len(t, views, 1)
	assert.Equal(t, int64(3), views[0].PackageCustomerID)
}

func TestFilterAvailable_DropsExhaustedPurchases(t *testing.T) {
	exhausted := purchase(1, 42, slot(10, 5, 1))
	open := purchase(2, 42, slot(11, 5, 2))

	appointments := []*domain.Appointment{consumingAppointment(1, 10)}

	views := ComputeRemainingCredits([]*domain.PackageCustomer{exhausted, open}, appointments, testNow)

	available := FilterAvailable(views, false)
	require.Len(t, available, 1)
	assert.Equal(t, int64(2), available[0].PackageCustomerID)

	// requireAny сохраняет исчерпанные покупки
	all := FilterAvailable(views, true)
	assert.Len(t, all, 2)
}

func TestViews_ForCustomerAndForService(t *testing.T) {
	first := purchase(1, 42, slot(10, 5, 3))
	second := purchase(2, 43, slot(11, 5, 3), slot(12, 6, 1))

	views := ComputeRemainingCredits([]*domain.PackageCustomer{first, second}, nil, testNow)

	assert.Len(t, views.ForCustomer(42), 1)
	assert.Len(t, views.ForCustomer(43), 2)
	assert.Len(t, views.ForService(5), 2)
	assert.Len(t, views.ForService(6), 1)
}
