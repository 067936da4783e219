package domain

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "pending"
	AppointmentStatusApproved AppointmentStatus = "approved"
	AppointmentStatusCanceled AppointmentStatus = "canceled"
	AppointmentStatusRejected AppointmentStatus = "rejected"
	AppointmentStatusNoShow   AppointmentStatus = "no_show"
)

// BookingStatus represents the status of a single customer booking inside an appointment
type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusCanceled BookingStatus = "canceled"
	BookingStatusRejected BookingStatus = "rejected"
	BookingStatusNoShow   BookingStatus = "no_show"
)

// Appointment represents a scheduled appointment occupying a provider's calendar.
//
// A synthetic appointment (Synthetic == true, ID == 0, never persisted) is created
// by the resource allocation engine purely to mark a provider's calendar as
// occupied when a resource is exhausted.
type Appointment struct {
	ID           int64
	ServiceID    int64
	ProviderID   int64
	LocationID   *int64
	BookingStart time.Time // UTC
	BookingEnd   time.Time // UTC
	Status       AppointmentStatus
	Bookings     []*CustomerBooking

	// Full выставляется движком ресурсов, когда запись попадает
	// в исчерпанный интервал группового ресурса
	Full bool

	// Synthetic помечает несохраняемую запись, синтезированную движком
	// SyntheticID идентифицирует её в пределах одного вызова
	Synthetic   bool
	SyntheticID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its time slot
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCanceled && a.Status != AppointmentStatusRejected
}

// DayKey returns the UTC calendar day of the appointment start (YYYY-MM-DD)
func (a *Appointment) DayKey() string {
	return a.BookingStart.UTC().Format(DateFormat)
}

// DaySeconds returns the appointment interval as seconds since UTC midnight of
// its start day. The end is clamped to end-of-day for appointments crossing
// midnight.
func (a *Appointment) DaySeconds() (start, end int) {
	utcStart := a.BookingStart.UTC()
	midnight := time.Date(utcStart.Year(), utcStart.Month(), utcStart.Day(), 0, 0, 0, 0, time.UTC)

	start = int(utcStart.Sub(midnight) / time.Second)
	end = int(a.BookingEnd.UTC().Sub(midnight) / time.Second)
	if end > SecondsInDay {
		end = SecondsInDay
	}
	return start, end
}

// TotalPersons returns the attendee count across non-canceled customer bookings
func (a *Appointment) TotalPersons() int {
	total := 0
	for _, b := range a.Bookings {
		if !b.IsActive() {
			continue
		}
		total += b.Persons
	}
	return total
}

// CustomerBooking represents one customer's participation in an appointment
type CustomerBooking struct {
	ID         int64
	CustomerID int64
	Persons    int
	Status     BookingStatus

	// PackageCustomerServiceID ссылка на кредитный слот пакета, из которого
	// списан этот визит (nil для обычных бронирований)
	PackageCustomerServiceID *int64
	CouponID                 *int64

	CreatedAt time.Time
}

// IsActive returns true if the booking consumes capacity and package credits
func (b *CustomerBooking) IsActive() bool {
	return b.Status != BookingStatusCanceled && b.Status != BookingStatusRejected
}

// Provider represents an employee whose calendar availability is being computed.
// Appointments holds the provider's real appointments plus any synthetic ones
// injected by the resource allocation engine during a single call.
type Provider struct {
	ID           int64
	Appointments []*Appointment
}

// AppointmentsFilter фильтр для выборки записей
type AppointmentsFilter struct {
	ProviderID *int64
	ServiceID  *int64
	LocationID *int64
	CustomerID *int64
	StartDate  *time.Time
	EndDate    *time.Time
	// ExcludeID исключает конкретную запись (при перебронировании)
	ExcludeID       *int64
	IncludeInactive bool
}
