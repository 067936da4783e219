// Package get_package_availability листинг доступности: остатки кредитов
// пакетов клиента и насыщенность ресурсов в окне дат.
package get_package_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/packagecredits"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case листинга доступности пакетов
type UseCase struct {
	packageCustomerRepo PackageCustomerRepository
	appointmentRepo     AppointmentRepository
	resourceRepo        ResourceRepository
	engine              ResourceEngine
	ledger              CreditLedger
	timeProvider        TimeProvider
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	packageCustomerRepo PackageCustomerRepository,
	appointmentRepo AppointmentRepository,
	resourceRepo ResourceRepository,
	engine ResourceEngine,
	ledger CreditLedger,
	logger Logger,
) *UseCase {
	return &UseCase{
		packageCustomerRepo: packageCustomerRepo,
		appointmentRepo:     appointmentRepo,
		resourceRepo:        resourceRepo,
		engine:              engine,
		ledger:              ledger,
		timeProvider:        &RealTimeProvider{},
		logger:              logger,
	}
}

// Execute выполняет листинг доступности.
//
// Леджер кредитов считается этапами: построение остатков, best-effort сверка
// переисчерпанных слотов, фильтрация покупок с остатком. Сверка не может
// провалить запрос - её ошибки уходят в лог и пропускаются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetPackageAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 1. Покупки клиента и вся история его визитов
	purchases, err := uc.packageCustomerRepo.GetByCustomerID(ctx, req.CustomerID)
	if err != nil {
		uc.logger.Error("GetPackageAvailability: failed to load purchases: %v", err)
		return nil, fmt.Errorf("%w: failed to load purchases: %v", ErrInternal, err)
	}

	history, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		CustomerID:      ptr.Ptr(req.CustomerID),
		IncludeInactive: true,
	})
	if err != nil {
		uc.logger.Error("GetPackageAvailability: failed to load appointment history: %v", err)
		return nil, fmt.Errorf("%w: failed to load appointment history: %v", ErrInternal, err)
	}

	// 2. Леджер: остатки -> сверка -> фильтрация
	views := packagecredits.ComputeRemainingCredits(purchases, history, now)
	if reassigned := uc.ledger.ReconcileOverdrawnSlots(ctx, history, purchases, now); reassigned > 0 {
		uc.logger.Info("GetPackageAvailability: reconciliation reassigned %d bookings", reassigned)
		views = packagecredits.ComputeRemainingCredits(purchases, history, now)
	}
	views = packagecredits.FilterAvailable(views, false)
	views = views.ForService(req.ServiceID)

	// 3. Насыщенность ресурсов в окне дат
	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		StartDate: &req.StartDate,
		EndDate:   &req.EndDate,
	})
	if err != nil {
		uc.logger.Error("GetPackageAvailability: failed to load appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	allResources, err := uc.resourceRepo.GetAll(ctx)
	if err != nil {
		uc.logger.Error("GetPackageAvailability: failed to load resources: %v", err)
		return nil, fmt.Errorf("%w: failed to load resources: %v", ErrInternal, err)
	}

	locationIDs, err := uc.resourceRepo.GetLocationIDs(ctx)
	if err != nil {
		uc.logger.Error("GetPackageAvailability: failed to load locations: %v", err)
		return nil, fmt.Errorf("%w: failed to load locations: %v", ErrInternal, err)
	}

	providers := buildProviders(appointments)

	saturated, err := uc.engine.ManageResources(ctx, &resources.ManageRequest{
		Resources:         allResources,
		Appointments:      appointments,
		Providers:         providers,
		ServiceID:         req.ServiceID,
		AllLocationIDs:    locationIDs,
		LocationID:        req.LocationID,
		ExcludeCustomerID: ptr.Ptr(req.CustomerID),
		PersonsCount:      req.Persons,
	})
	if err != nil {
		if errors.Is(err, resources.ErrScheduleUnavailable) {
			uc.logger.Warn("GetPackageAvailability: schedule service unavailable: %v", err)
			return nil, ErrScheduleUnavailable
		}
		uc.logger.Error("GetPackageAvailability: resource engine: %v", err)
		return nil, fmt.Errorf("%w: resource engine: %v", ErrInternal, err)
	}

	return &Response{
		Credits:          fromCreditViews(views),
		Saturated:        saturated,
		BlockedIntervals: collectBlockedIntervals(providers),
	}, nil
}

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date must not precede start date", ErrInvalidInput)
	}
	return nil
}

// buildProviders группирует записи по провайдерам для движка ресурсов
func buildProviders(appointments []*domain.Appointment) []*domain.Provider {
	byID := make(map[int64]*domain.Provider)
	providers := make([]*domain.Provider, 0)

	for _, a := range appointments {
		p, ok := byID[a.ProviderID]
		if !ok {
			p = &domain.Provider{ID: a.ProviderID}
			byID[a.ProviderID] = p
			providers = append(providers, p)
		}
		p.Appointments = append(p.Appointments, a)
	}

	return providers
}

// collectBlockedIntervals выгружает закрытые интервалы календарей,
// включая синтетические записи, добавленные движком
func collectBlockedIntervals(providers []*domain.Provider) map[int64]map[string][]BlockedInterval {
	result := make(map[int64]map[string][]BlockedInterval)

	for _, p := range providers {
		for _, a := range p.Appointments {
			if !a.IsActive() {
				continue
			}
			day := a.DayKey()
			start, end := a.DaySeconds()

			byDate, ok := result[p.ID]
			if !ok {
				byDate = make(map[string][]BlockedInterval)
				result[p.ID] = byDate
			}
			byDate[day] = append(byDate[day], BlockedInterval{
				Start:     start,
				End:       end,
				Synthetic: a.Synthetic,
			})
		}
	}

	return result
}
