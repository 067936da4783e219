package reserve_package

import "errors"

var (
	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("package not found")

	// ErrPackageBookingUnavailable возвращается при нарушении ёмкости пакета:
	// запрошено больше записей, чем позволяют кредиты, или услуга не входит в пакет
	ErrPackageBookingUnavailable = errors.New("package booking unavailable")

	// ErrBookingUnavailable возвращается, когда слот записи занят или ресурсы исчерпаны
	ErrBookingUnavailable = errors.New("booking unavailable")

	// ErrBookingsLimitReached возвращается при превышении лимита покупок пакета клиентом
	ErrBookingsLimitReached = errors.New("bookings limit reached")

	// ErrCouponUnknown возвращается, когда купон не найден
	ErrCouponUnknown = errors.New("coupon unknown")

	// ErrCouponInvalid возвращается, когда купон не применим
	ErrCouponInvalid = errors.New("coupon invalid")

	// ErrCouponExpired возвращается, когда срок действия купона истёк
	ErrCouponExpired = errors.New("coupon expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
