package packagecredits

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	updates       map[int64]int64 // bookingID -> slotID
	err           error
	failOnBooking int64 // ошибка только для этого визита
}

func (f *fakeBookingRepo) UpdateSlotReference(_ context.Context, bookingID, slotID int64) error {
	if f.err != nil {
		return f.err
	}
	if f.failOnBooking != 0 && bookingID == f.failOnBooking {
		return errors.New("storage: connection reset")
	}
	if f.updates == nil {
		f.updates = make(map[int64]int64)
	}
	f.updates[bookingID] = slotID
	return nil
}

type fakePackageCustomerRepo struct {
	statuses map[int64]domain.PackageCustomerStatus
	calls    int
}

func (f *fakePackageCustomerRepo) UpdateStatus(_ context.Context, id int64, status domain.PackageCustomerStatus) error {
	if f.statuses == nil {
		f.statuses = make(map[int64]domain.PackageCustomerStatus)
	}
	f.statuses[id] = status
	f.calls++
	return nil
}

func TestReconcileOverdrawnSlots_ReassignsToSibling(t *testing.T) {
	bookings := &fakeBookingRepo{}
	purchases := &fakePackageCustomerRepo{}
	svc := NewService(bookings, purchases, nopLogger{})

	pc := purchase(1, 42, slot(10, 5, 1), slot(11, 6, 2))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10), // переисчерпание слота 10
	}

	reassigned := svc.ReconcileOverdrawnSlots(
		context.Background(),
		appointments,
		[]*domain.PackageCustomer{pc},
		testNow,
	)

	assert.Equal(t, 1, reassigned)
	assert.Equal(t, map[int64]int64{200: 11}, bookings.updates)
	// Ссылка визита переписана и в памяти
	assert.Equal(t, int64(11), *appointments[1].Bookings[0].PackageCustomerServiceID)
	// Покупка принудительно подтверждена
	assert.Equal(t, domain.PackageCustomerStatusApproved, purchases.statuses[1])
}

// Перепривязка двигает атрибуцию, но не меняет суммарное потребление покупки
func TestReconcileOverdrawnSlots_PreservesTotalConsumption(t *testing.T) {
	bookings := &fakeBookingRepo{}
	svc := NewService(bookings, &fakePackageCustomerRepo{}, nopLogger{})

	pc := purchase(1, 42, slot(10, 5, 1), slot(11, 6, 2))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10),
		consumingAppointment(3, 10),
	}

	before := ComputeRemainingCredits([]*domain.PackageCustomer{pc}, appointments, testNow)
	totalBefore := before.RemainingFor(1)

	svc.ReconcileOverdrawnSlots(context.Background(), appointments, []*domain.PackageCustomer{pc}, testNow)

	after := ComputeRemainingCredits([]*domain.PackageCustomer{pc}, appointments, testNow)
	assert.Equal(t, totalBefore, after.RemainingFor(1))

	// После сверки ни один слот не уходит в минус
	for _, v := range after {
		assert.GreaterOrEqual(t, v.Count, 0, "slot %d", v.SlotID)
	}
}

func TestReconcileOverdrawnSlots_ApprovesPurchaseOnce(t *testing.T) {
	purchases := &fakePackageCustomerRepo{}
	svc := NewService(&fakeBookingRepo{}, purchases, nopLogger{})

	pc := purchase(1, 42, slot(10, 5, 1), slot(11, 6, 5))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10),
		consumingAppointment(3, 10),
	}

	reassigned := svc.ReconcileOverdrawnSlots(
		context.Background(), appointments, []*domain.PackageCustomer{pc}, testNow)

	assert.Equal(t, 2, reassigned)
	assert.Equal(t, 1, purchases.calls)
}

func TestReconcileOverdrawnSlots_NoSiblingAvailability(t *testing.T) {
	bookings := &fakeBookingRepo{}
	svc := NewService(bookings, &fakePackageCustomerRepo{}, nopLogger{})

	pc := purchase(1, 42, slot(10, 5, 1), slot(11, 6, 1))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 11),
		consumingAppointment(3, 10), // везде пусто - перепривязывать некуда
	}

	reassigned := svc.ReconcileOverdrawnSlots(
		context.Background(), appointments, []*domain.PackageCustomer{pc}, testNow)

	assert.Zero(t, reassigned)
	assert.Empty(t, bookings.updates)
}

func TestReconcileOverdrawnSlots_SkipsSharedCapacity(t *testing.T) {
	bookings := &fakeBookingRepo{}
	svc := NewService(bookings, &fakePackageCustomerRepo{}, nopLogger{})

	pc := sharedPurchase(1, 42, 10, slot(10, 5, 0), slot(11, 6, 0))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10),
		consumingAppointment(3, 10),
	}

	reassigned := svc.ReconcileOverdrawnSlots(
		context.Background(), appointments, []*domain.PackageCustomer{pc}, testNow)

	assert.Zero(t, reassigned)
	assert.Empty(t, bookings.updates)
}

// Best-effort: ошибка персистентности не прерывает сверку и не трогает память
func TestReconcileOverdrawnSlots_PersistenceFailureIsNonFatal(t *testing.T) {
	bookings := &fakeBookingRepo{err: errors.New("storage: connection reset")}
	purchases := &fakePackageCustomerRepo{}
	svc := NewService(bookings, purchases, nopLogger{})

	pc := purchase(1, 42, slot(10, 5, 1), slot(11, 6, 2))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10),
	}

	reassigned := svc.ReconcileOverdrawnSlots(
		context.Background(), appointments, []*domain.PackageCustomer{pc}, testNow)

	assert.Zero(t, reassigned)
	assert.Equal(t, int64(10), *appointments[1].Bookings[0].PackageCustomerServiceID)
	assert.Zero(t, purchases.calls)
}

// Неудачная запись не съедает остаток соседа: следующий визит в том же
// проходе всё ещё может быть перепривязан
func TestReconcileOverdrawnSlots_FailedPersistKeepsSiblingCapacity(t *testing.T) {
	bookings := &fakeBookingRepo{failOnBooking: 200}
	svc := NewService(bookings, &fakePackageCustomerRepo{}, nopLogger{})

	pc := purchase(1, 42, slot(10, 5, 1), slot(11, 6, 1))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		consumingAppointment(2, 10), // персист провалится
		consumingAppointment(3, 10), // должен получить остаток слота 11
	}

	reassigned := svc.ReconcileOverdrawnSlots(
		context.Background(), appointments, []*domain.PackageCustomer{pc}, testNow)

	assert.Equal(t, 1, reassigned)
	assert.Equal(t, map[int64]int64{300: 11}, bookings.updates)
	assert.Equal(t, int64(10), *appointments[1].Bookings[0].PackageCustomerServiceID)
	assert.Equal(t, int64(11), *appointments[2].Bookings[0].PackageCustomerServiceID)
}

func TestReconcileOverdrawnSlots_IgnoresCanceledBookings(t *testing.T) {
	bookings := &fakeBookingRepo{}
	svc := NewService(bookings, &fakePackageCustomerRepo{}, nopLogger{})

	pc := purchase(1, 42, slot(10, 5, 1), slot(11, 6, 1))

	canceled := consumingAppointment(2, 10)
	canceled.Bookings[0].Status = domain.BookingStatusCanceled

	plain := consumingAppointment(3, 10)
	plain.Bookings[0].PackageCustomerServiceID = nil
	plain.Bookings[0].CouponID = ptr.Ptr(int64(9))

	appointments := []*domain.Appointment{
		consumingAppointment(1, 10),
		canceled,
		plain,
	}

	reassigned := svc.ReconcileOverdrawnSlots(
		context.Background(), appointments, []*domain.PackageCustomer{pc}, testNow)

	require.Zero(t, reassigned)
	assert.Empty(t, bookings.updates)
}
