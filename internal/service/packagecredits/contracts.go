package packagecredits

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CustomerBookingRepository интерфейс для перепривязки визитов к кредитным слотам
type CustomerBookingRepository interface {
	UpdateSlotReference(ctx context.Context, bookingID int64, slotID int64) error
}

// PackageCustomerRepository интерфейс для обновления статуса покупки пакета
type PackageCustomerRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.PackageCustomerStatus) error
}

// Logger интерфейс для логирования
// Также служит диагностическим стоком best-effort сверки
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
