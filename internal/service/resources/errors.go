package resources

import "errors"

var (
	// ErrScheduleUnavailable возвращается, когда не удалось получить
	// расписание провайдера из ScheduleService
	ErrScheduleUnavailable = errors.New("resources: provider schedule unavailable")

	// ErrInternal возвращается при внутренних ошибках движка
	ErrInternal = errors.New("resources: internal error")
)
