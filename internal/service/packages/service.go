// Package packages поверхность просмотра и отмены покупок пакетов.
package packages

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	packageRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/packages"
	pcRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/packagecustomer"
	"github.com/m04kA/SMC-SchedulingService/internal/service/packagecredits"
	"github.com/m04kA/SMC-SchedulingService/internal/service/packages/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// Service сервис для работы с пакетами и их покупками
type Service struct {
	packages         PackageRepository
	packageCustomers PackageCustomerRepository
	payments         PaymentRepository
	appointments     AppointmentRepository
	clock            TimeProvider
	log              Logger
}

// NewService создает новый экземпляр сервиса пакетов
func NewService(
	packages PackageRepository,
	packageCustomers PackageCustomerRepository,
	payments PaymentRepository,
	appointments AppointmentRepository,
	clock TimeProvider,
	log Logger,
) *Service {
	return &Service{
		packages:         packages,
		packageCustomers: packageCustomers,
		payments:         payments,
		appointments:     appointments,
		clock:            clock,
		log:              log,
	}
}

// GetByID получает пакет по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.PackageResponse, error) {
	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			s.log.Warn("GetByID: package id=%d not found", id)
			return nil, ErrPackageNotFound
		}
		s.log.Error("GetByID: repository error for package id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPackage(pkg), nil
}

// GetCustomerPackages получает покупки клиента с остатками кредитов по слотам.
// Исчерпанные покупки включаются - это обзор истории клиента, не выбор
// пакета для бронирования.
func (s *Service) GetCustomerPackages(ctx context.Context, customerID int64) ([]*models.CustomerPackageResponse, error) {
	purchases, err := s.packageCustomers.GetByCustomerID(ctx, customerID)
	if err != nil {
		s.log.Error("GetCustomerPackages: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetCustomerPackages - repository error: %v", ErrInternal, err)
	}

	appointments, err := s.appointments.GetWithFilter(ctx, domain.AppointmentsFilter{
		CustomerID:      ptr.Ptr(customerID),
		IncludeInactive: true,
	})
	if err != nil {
		s.log.Error("GetCustomerPackages: failed to load appointments for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetCustomerPackages - load appointments: %v", ErrInternal, err)
	}

	views := packagecredits.ComputeRemainingCredits(purchases, appointments, s.clock.Now())
	views = packagecredits.FilterAvailable(views, true)

	result := models.FromCreditViews(views)

	// Платежи нужны только в обзоре покупок клиента
	for _, resp := range result {
		payments, err := s.payments.GetByPackageCustomerID(ctx, resp.PackageCustomerID)
		if err != nil {
			s.log.Error("GetCustomerPackages: failed to load payments for purchase id=%d: %v", resp.PackageCustomerID, err)
			return nil, fmt.Errorf("%w: GetCustomerPackages - load payments: %v", ErrInternal, err)
		}
		for _, p := range payments {
			resp.Payments = append(resp.Payments, models.FromDomainPayment(p))
		}
	}

	return result, nil
}

// Cancel отменяет покупку пакета.
//
// Платежи собираются по покупке целиком - по каждому её кредитному слоту,
// а не только по первому. Платежи со статусом paid или partially_paid
// возвращаются в ответе как подлежащие возврату; сама отмена при этом
// не блокируется.
func (s *Service) Cancel(ctx context.Context, packageCustomerID int64, customerID int64) (*models.CancelPackageResponse, error) {
	purchase, err := s.packageCustomers.GetByID(ctx, packageCustomerID)
	if err != nil {
		if errors.Is(err, pcRepo.ErrPackageCustomerNotFound) {
			s.log.Warn("Cancel: purchase id=%d not found", packageCustomerID)
			return nil, ErrPackageCustomerNotFound
		}
		s.log.Error("Cancel: repository error for purchase id=%d: %v", packageCustomerID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if purchase.CustomerID != customerID {
		s.log.Warn("Cancel: access denied for customer=%d to purchase id=%d", customerID, packageCustomerID)
		return nil, ErrAccessDenied
	}
	if purchase.Status == domain.PackageCustomerStatusCanceled {
		return nil, ErrAlreadyCanceled
	}

	payments, err := s.payments.GetByPackageCustomerID(ctx, packageCustomerID)
	if err != nil {
		s.log.Error("Cancel: failed to load payments for purchase id=%d: %v", packageCustomerID, err)
		return nil, fmt.Errorf("%w: Cancel - load payments: %v", ErrInternal, err)
	}

	var refundable []models.PaymentResponse
	for _, p := range payments {
		if p.Status == domain.PaymentStatusPaid || p.Status == domain.PaymentStatusPartiallyPaid {
			refundable = append(refundable, models.FromDomainPayment(p))
		}
	}

	if err := s.packageCustomers.UpdateStatus(ctx, packageCustomerID, domain.PackageCustomerStatusCanceled); err != nil {
		s.log.Error("Cancel: failed to cancel purchase id=%d: %v", packageCustomerID, err)
		return nil, fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
	}

	s.log.Info("Cancel: purchase id=%d canceled by customer=%d, %d refundable payments",
		packageCustomerID, customerID, len(refundable))

	return &models.CancelPackageResponse{
		PackageCustomerID:  packageCustomerID,
		Status:             string(domain.PackageCustomerStatusCanceled),
		RefundablePayments: refundable,
	}, nil
}
