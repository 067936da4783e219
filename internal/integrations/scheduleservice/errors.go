package scheduleservice

import "errors"

var (
	// ErrProviderNotFound возвращается, когда расписание провайдера не найдено
	ErrProviderNotFound = errors.New("scheduleservice: provider schedule not found")

	// ErrInvalidResponse возвращается при некорректном ответе ScheduleService
	ErrInvalidResponse = errors.New("scheduleservice: invalid response")

	// ErrInternal возвращается при ошибках выполнения запроса
	ErrInternal = errors.New("scheduleservice: internal error")
)
