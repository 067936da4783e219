package packages

import "errors"

var (
	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("package not found")

	// ErrPackageCustomerNotFound возвращается, когда покупка пакета не найдена
	ErrPackageCustomerNotFound = errors.New("package purchase not found")

	// ErrAccessDenied возвращается, когда покупка принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCanceled возвращается при повторной отмене покупки
	ErrAlreadyCanceled = errors.New("package purchase already canceled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
