package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SecondsInDay количество секунд в сутках
// Конец интервала 0 трактуется как полночь следующего дня (86400)
const SecondsInDay = 86400

// Business validation constants
const (
	MinPersonsPerBooking              = 1
	MaxPersonsPerBooking              = 100
	MaxAppointmentsPerPackagePurchase = 50
)

// InactiveAppointmentStatuses статусы записей, не занимающих ресурсы
// Используются при подсчёте занятости и расходе кредитов пакета
var InactiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusCanceled,
	AppointmentStatusRejected,
}
