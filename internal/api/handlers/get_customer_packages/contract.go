package get_customer_packages

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/packages/models"
)

// PackageService интерфейс сервиса пакетов
type PackageService interface {
	GetCustomerPackages(ctx context.Context, customerID int64) ([]*models.CustomerPackageResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
