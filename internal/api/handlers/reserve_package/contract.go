package reserve_package

import (
	"context"

	reservePackage "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_package"
)

// ReservePackageUseCase интерфейс use case покупки пакета
type ReservePackageUseCase interface {
	Execute(ctx context.Context, req *reservePackage.Request) (*reservePackage.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
