package cancel_package

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/packages/models"
)

// PackageService интерфейс сервиса пакетов
type PackageService interface {
	Cancel(ctx context.Context, packageCustomerID int64, customerID int64) (*models.CancelPackageResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
