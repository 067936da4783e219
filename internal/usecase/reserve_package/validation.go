package reserve_package

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}
	if req.PackageID <= 0 {
		return fmt.Errorf("%w: package id must be positive", ErrInvalidInput)
	}
	if len(req.Appointments) == 0 {
		return fmt.Errorf("%w: at least one appointment is required", ErrInvalidInput)
	}
	if len(req.Appointments) > domain.MaxAppointmentsPerPackagePurchase {
		return fmt.Errorf("%w: at most %d appointments per purchase", ErrInvalidInput, domain.MaxAppointmentsPerPackagePurchase)
	}

	for i, a := range req.Appointments {
		if a.ServiceID <= 0 {
			return fmt.Errorf("%w: appointment %d: service id must be positive", ErrInvalidInput, i)
		}
		if a.ProviderID <= 0 {
			return fmt.Errorf("%w: appointment %d: provider id must be positive", ErrInvalidInput, i)
		}
		if !a.Start.Before(a.End) {
			return fmt.Errorf("%w: appointment %d: start must be before end", ErrInvalidInput, i)
		}
		if a.Persons < domain.MinPersonsPerBooking || a.Persons > domain.MaxPersonsPerBooking {
			return fmt.Errorf("%w: appointment %d: persons must be between %d and %d",
				ErrInvalidInput, i, domain.MinPersonsPerBooking, domain.MaxPersonsPerBooking)
		}
	}

	return nil
}

// validatePackageCapacity проверяет, что запрошенные записи укладываются
// в кредиты пакета: общий пул при shared capacity, иначе поуслужные квоты
func validatePackageCapacity(pkg *domain.Package, appointments []AppointmentRequest) error {
	if pkg.SharedCapacity {
		if len(appointments) > pkg.QuantityShared {
			return fmt.Errorf("%w: %d appointments requested, %d shared credits available",
				ErrPackageBookingUnavailable, len(appointments), pkg.QuantityShared)
		}
		for _, a := range appointments {
			if !pkg.HasService(a.ServiceID) {
				return fmt.Errorf("%w: service id=%d is not part of the package",
					ErrPackageBookingUnavailable, a.ServiceID)
			}
		}
		return nil
	}

	perService := make(map[int64]int)
	for _, a := range appointments {
		perService[a.ServiceID]++
	}

	for serviceID, requested := range perService {
		if !pkg.HasService(serviceID) {
			return fmt.Errorf("%w: service id=%d is not part of the package",
				ErrPackageBookingUnavailable, serviceID)
		}
		if quota := pkg.ServiceQuantity(serviceID); requested > quota {
			return fmt.Errorf("%w: %d appointments requested for service id=%d, %d credits available",
				ErrPackageBookingUnavailable, requested, serviceID, quota)
		}
	}

	return nil
}
