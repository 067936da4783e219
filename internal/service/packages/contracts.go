package packages

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// PackageRepository интерфейс для работы с хранилищем пакетов
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}

// PackageCustomerRepository интерфейс для работы с покупками пакетов
type PackageCustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PackageCustomer, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.PackageCustomer, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PackageCustomerStatus) error
}

// PaymentRepository интерфейс для работы с платежами покупок
type PaymentRepository interface {
	GetByPackageCustomerID(ctx context.Context, packageCustomerID int64) ([]*domain.Payment, error)
}

// AppointmentRepository интерфейс для выборки записей с визитами
type AppointmentRepository interface {
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
