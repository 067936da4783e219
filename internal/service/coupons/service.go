// Package coupons валидация и списание купонов.
package coupons

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	couponRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/coupon"
)

// Service сервис для работы с купонами
type Service struct {
	coupons CouponRepository
	clock   TimeProvider
	log     Logger
}

// NewService создает новый экземпляр сервиса купонов
func NewService(coupons CouponRepository, clock TimeProvider, log Logger) *Service {
	return &Service{
		coupons: coupons,
		clock:   clock,
		log:     log,
	}
}

// Process находит купон по коду и проверяет его применимость к сущности.
// validate == false пропускает проверки статуса, лимита и срока - купон
// только разыменовывается (просмотр уже применённого купона).
func (s *Service) Process(
	ctx context.Context,
	code string,
	entityID int64,
	entityType domain.CouponEntityType,
	customerID int64,
	validate bool,
) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			s.log.Warn("Process: coupon code=%q not found for customer=%d", code, customerID)
			return nil, ErrCouponUnknown
		}
		s.log.Error("Process: repository error for coupon code=%q: %v", code, err)
		return nil, fmt.Errorf("%w: Process - repository error: %v", ErrInternal, err)
	}

	if !validate {
		return coupon, nil
	}

	if coupon.Status != domain.CouponStatusApproved {
		s.log.Warn("Process: coupon id=%d is disabled", coupon.ID)
		return nil, ErrCouponInvalid
	}
	if !coupon.AppliesTo(entityType, entityID) {
		s.log.Warn("Process: coupon id=%d does not apply to %s id=%d", coupon.ID, entityType, entityID)
		return nil, ErrCouponInvalid
	}
	if coupon.IsExhausted() {
		s.log.Warn("Process: coupon id=%d usage limit reached (%d/%d)", coupon.ID, coupon.Used, coupon.Limit)
		return nil, ErrCouponInvalid
	}
	if coupon.IsExpiredAt(s.clock.Now()) {
		s.log.Warn("Process: coupon id=%d expired", coupon.ID)
		return nil, ErrCouponExpired
	}

	return coupon, nil
}

// Consume списывает одно использование купона
func (s *Service) Consume(ctx context.Context, id int64) error {
	if err := s.coupons.IncrementUsed(ctx, id); err != nil {
		s.log.Error("Consume: failed to increment usage for coupon id=%d: %v", id, err)
		return fmt.Errorf("%w: Consume - repository error: %v", ErrInternal, err)
	}
	return nil
}
