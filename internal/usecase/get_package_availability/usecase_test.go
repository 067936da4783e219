package get_package_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type fakePCRepo struct {
	purchases []*domain.PackageCustomer
}

func (f *fakePCRepo) GetByCustomerID(_ context.Context, _ int64) ([]*domain.PackageCustomer, error) {
	return f.purchases, nil
}

type fakeApptRepo struct {
	history []*domain.Appointment
	ranged  []*domain.Appointment
}

func (f *fakeApptRepo) GetWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if filter.CustomerID != nil {
		return f.history, nil
	}
	return f.ranged, nil
}

type fakeResourceRepo struct {
	resources []*domain.Resource
	locations []int64
}

func (f *fakeResourceRepo) GetAll(_ context.Context) ([]*domain.Resource, error) {
	return f.resources, nil
}

func (f *fakeResourceRepo) GetLocationIDs(_ context.Context) ([]int64, error) {
	return f.locations, nil
}

type fakeEngine struct {
	data     resources.ResourcedData
	err      error
	requests []*resources.ManageRequest
}

func (f *fakeEngine) ManageResources(_ context.Context, req *resources.ManageRequest) (resources.ResourcedData, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type recordingLedger struct {
	reassigned int
	calls      int
}

func (l *recordingLedger) ReconcileOverdrawnSlots(_ context.Context, _ []*domain.Appointment, _ []*domain.PackageCustomer, _ time.Time) int {
	l.calls++
	return l.reassigned
}

func purchaseWithSlot(id int64, serviceID int64, credits int) *domain.PackageCustomer {
	return &domain.PackageCustomer{
		ID:         id,
		PackageID:  1,
		CustomerID: 42,
		Start:      now.AddDate(0, -1, 0),
		Purchased:  now.AddDate(0, -1, 0),
		Status:     domain.PackageCustomerStatusApproved,
		Services: []*domain.PackageCustomerService{
			{ID: id * 10, PackageCustomerID: id, ServiceID: serviceID, BookingsCount: credits},
		},
	}
}

func newUseCase(
	pcs *fakePCRepo,
	appts *fakeApptRepo,
	engine *fakeEngine,
	ledger *recordingLedger,
) *UseCase {
	uc := NewUseCase(pcs, appts, &fakeResourceRepo{}, engine, ledger, nopLogger{})
	uc.timeProvider = fixedClock{}
	return uc
}

func baseRequest() *Request {
	return &Request{
		CustomerID: 42,
		ServiceID:  5,
		StartDate:  time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Persons:    1,
	}
}

func TestExecute_ReturnsCreditsForRequestedService(t *testing.T) {
	pcs := &fakePCRepo{purchases: []*domain.PackageCustomer{
		purchaseWithSlot(1, 5, 3),
		purchaseWithSlot(2, 6, 2), // другая услуга - отфильтруется
	}}
	ledger := &recordingLedger{}
	uc := newUseCase(pcs, &fakeApptRepo{}, &fakeEngine{}, ledger)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	require.Len(t, resp.Credits, 1)
	assert.Equal(t, int64(5), resp.Credits[0].ServiceID)
	assert.Equal(t, 3, resp.Credits[0].Count)
	assert.Equal(t, 1, ledger.calls)
}

func TestExecute_ExhaustedPurchasesFilteredOut(t *testing.T) {
	exhausted := purchaseWithSlot(1, 5, 1)
	history := []*domain.Appointment{{
		ID:     1,
		Status: domain.AppointmentStatusApproved,
		Bookings: []*domain.CustomerBooking{{
			ID: 1, CustomerID: 42, Persons: 1,
			Status:                   domain.BookingStatusApproved,
			PackageCustomerServiceID: ptr.Ptr(int64(10)),
		}},
	}}

	uc := newUseCase(
		&fakePCRepo{purchases: []*domain.PackageCustomer{exhausted}},
		&fakeApptRepo{history: history},
		&fakeEngine{},
		&recordingLedger{},
	)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, resp.Credits)
}

func TestExecute_RecomputesAfterReconciliation(t *testing.T) {
	pcs := &fakePCRepo{purchases: []*domain.PackageCustomer{purchaseWithSlot(1, 5, 3)}}
	ledger := &recordingLedger{reassigned: 2}
	uc := newUseCase(pcs, &fakeApptRepo{}, &fakeEngine{}, ledger)

	_, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, 1, ledger.calls)
}

func TestExecute_PassesSaturatedDataAndBlockedIntervals(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	ranged := []*domain.Appointment{{
		ID:           3,
		ServiceID:    5,
		ProviderID:   7,
		BookingStart: day.Add(10 * time.Hour),
		BookingEnd:   day.Add(11 * time.Hour),
		Status:       domain.AppointmentStatusApproved,
	}}

	engine := &fakeEngine{data: resources.ResourcedData{7: {}}}
	uc := newUseCase(&fakePCRepo{}, &fakeApptRepo{ranged: ranged}, engine, &recordingLedger{})

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Contains(t, resp.Saturated, int64(7))

	require.Contains(t, resp.BlockedIntervals, int64(7))
	intervals := resp.BlockedIntervals[7]["2026-09-07"]
	require.Len(t, intervals, 1)
	assert.Equal(t, 10*3600, intervals[0].Start)
	assert.Equal(t, 11*3600, intervals[0].End)
	assert.False(t, intervals[0].Synthetic)

	// Движку передан исключаемый клиент и окно запроса
	require.Len(t, engine.requests, 1)
	assert.Equal(t, ptr.Ptr(int64(42)), engine.requests[0].ExcludeCustomerID)
	assert.Equal(t, int64(5), engine.requests[0].ServiceID)
}

func TestExecute_ScheduleUnavailable(t *testing.T) {
	engine := &fakeEngine{err: resources.ErrScheduleUnavailable}
	uc := newUseCase(&fakePCRepo{}, &fakeApptRepo{}, engine, &recordingLedger{})

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrScheduleUnavailable)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(&fakePCRepo{}, &fakeApptRepo{}, &fakeEngine{}, &recordingLedger{})

	req := baseRequest()
	req.CustomerID = 0
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = baseRequest()
	req.EndDate = req.StartDate.AddDate(0, 0, -1)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Слоты с правилом провайдера/локации доносят правило до ответа
func TestExecute_SlotRulesSurfaceInResponse(t *testing.T) {
	purchase := purchaseWithSlot(1, 5, 2)
	purchase.Services[0].ProviderID = ptr.Ptr(int64(7))
	purchase.Services[0].LocationID = ptr.Ptr(int64(100))

	uc := newUseCase(
		&fakePCRepo{purchases: []*domain.PackageCustomer{purchase}},
		&fakeApptRepo{},
		&fakeEngine{},
		&recordingLedger{},
	)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	require.Len(t, resp.Credits, 1)
	assert.Equal(t, ptr.Ptr(int64(7)), resp.Credits[0].ProviderID)
	assert.Equal(t, ptr.Ptr(int64(100)), resp.Credits[0].LocationID)
}
