package get_package_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrScheduleUnavailable возвращается, когда сервис расписаний недоступен
	ErrScheduleUnavailable = errors.New("schedule service unavailable")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
