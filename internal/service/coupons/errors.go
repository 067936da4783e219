package coupons

import "errors"

var (
	// ErrCouponUnknown купон с таким кодом не найден
	ErrCouponUnknown = errors.New("coupons: coupon unknown")
	// ErrCouponInvalid купон не применим: отключён, исчерпан или привязан к другой сущности
	ErrCouponInvalid = errors.New("coupons: coupon invalid")
	// ErrCouponExpired срок действия купона истёк
	ErrCouponExpired = errors.New("coupons: coupon expired")
	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("coupons: internal error")
)
