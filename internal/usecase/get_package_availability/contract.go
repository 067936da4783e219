package get_package_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
)

// PackageCustomerRepository интерфейс репозитория покупок пакетов
type PackageCustomerRepository interface {
	GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.PackageCustomer, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetAll(ctx context.Context) ([]*domain.Resource, error)
	GetLocationIDs(ctx context.Context) ([]int64, error)
}

// ResourceEngine интерфейс движка распределения ресурсов
type ResourceEngine interface {
	ManageResources(ctx context.Context, req *resources.ManageRequest) (resources.ResourcedData, error)
}

// CreditLedger интерфейс сверки кредитных слотов
type CreditLedger interface {
	ReconcileOverdrawnSlots(ctx context.Context, appointments []*domain.Appointment, packageCustomers []*domain.PackageCustomer, now time.Time) int
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
