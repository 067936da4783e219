package reserve_package

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
)

// PackageRepository интерфейс репозитория пакетов
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}

// PackageCustomerRepository интерфейс репозитория покупок пакетов
type PackageCustomerRepository interface {
	Create(ctx context.Context, pc *domain.PackageCustomer) (*domain.PackageCustomer, error)
	CountByCustomerAndPackage(ctx context.Context, customerID, packageID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
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

// CouponService интерфейс сервиса купонов
type CouponService interface {
	Process(ctx context.Context, code string, entityID int64, entityType domain.CouponEntityType, customerID int64, validate bool) (*domain.Coupon, error)
	Consume(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
