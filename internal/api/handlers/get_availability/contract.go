package get_availability

import (
	"context"

	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_package_availability"
)

// GetAvailabilityUseCase интерфейс use case листинга доступности
type GetAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
