package get_package

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/packages/models"
)

// PackageService интерфейс сервиса пакетов
type PackageService interface {
	GetByID(ctx context.Context, id int64) (*models.PackageResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
