package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponStatus статус купона
type CouponStatus string

const (
	CouponStatusApproved CouponStatus = "approved"
	CouponStatusDisabled CouponStatus = "disabled"
)

// CouponEntityType тип сущности, к которой привязан купон
type CouponEntityType string

const (
	CouponEntityPackage CouponEntityType = "package"
	CouponEntityService CouponEntityType = "service"
)

// Coupon represents a discount coupon applicable to package or service purchases
type Coupon struct {
	ID   int64
	Code string

	// Discount процентная скидка от суммы
	Discount decimal.Decimal
	// Deduction фиксированная сумма вычета
	Deduction decimal.Decimal

	// Limit максимальное число использований, Used текущее
	Limit int
	Used  int

	Status     CouponStatus
	Expiration *time.Time // nil = бессрочный

	// EntityIDs сущности (пакеты или услуги), на которые распространяется купон
	EntityType CouponEntityType
	EntityIDs  []int64
}

// AppliesTo returns true if the coupon is attached to the given entity
func (c *Coupon) AppliesTo(entityType CouponEntityType, entityID int64) bool {
	if c.EntityType != entityType {
		return false
	}
	for _, id := range c.EntityIDs {
		if id == entityID {
			return true
		}
	}
	return false
}

// IsExhausted returns true if the usage limit has been reached
func (c *Coupon) IsExhausted() bool {
	return c.Limit > 0 && c.Used >= c.Limit
}

// IsExpiredAt returns true if the coupon validity has passed
func (c *Coupon) IsExpiredAt(now time.Time) bool {
	return c.Expiration != nil && c.Expiration.Before(now)
}
