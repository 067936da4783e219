// Package reserve_package оркестратор покупки пакета: проверка ёмкости,
// купон, создание кредитных слотов, бронирование записей с компенсацией
// отката и расчёт платежа.
package reserve_package

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	packageRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/packages"
	"github.com/m04kA/SMC-SchedulingService/internal/service/coupons"
	"github.com/m04kA/SMC-SchedulingService/internal/service/pricing"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
)

// UseCase use case покупки пакета с бронированием записей
type UseCase struct {
	packageRepo         PackageRepository
	packageCustomerRepo PackageCustomerRepository
	appointmentRepo     AppointmentRepository
	paymentRepo         PaymentRepository
	resourceRepo        ResourceRepository
	engine              ResourceEngine
	couponService       CouponService
	txManager           TransactionManager
	timeProvider        TimeProvider
	logger              Logger

	// purchaseLimit максимум не-отменённых покупок одного пакета клиентом;
	// 0 отключает проверку
	purchaseLimit int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	packageRepo PackageRepository,
	packageCustomerRepo PackageCustomerRepository,
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	resourceRepo ResourceRepository,
	engine ResourceEngine,
	couponService CouponService,
	txManager TransactionManager,
	logger Logger,
	purchaseLimit int,
) *UseCase {
	return &UseCase{
		packageRepo:         packageRepo,
		packageCustomerRepo: packageCustomerRepo,
		appointmentRepo:     appointmentRepo,
		paymentRepo:         paymentRepo,
		resourceRepo:        resourceRepo,
		engine:              engine,
		couponService:       couponService,
		txManager:           txManager,
		timeProvider:        &RealTimeProvider{},
		logger:              logger,
		purchaseLimit:       purchaseLimit,
	}
}

// Execute выполняет покупку пакета.
//
// Откат - компенсация на уровне приложения, не транзакция БД: частично
// созданные записи и кредитные строки явно удаляются в порядке, обратном
// созданию, после чего исходная ошибка возвращается наверх. Сериализуемая
// транзакция лишь сужает окно гонки на чтении занятости перед каждым
// бронированием.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReservePackage: customer=%d, package=%d, appointments=%d",
		req.CustomerID, req.PackageID, len(req.Appointments))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReservePackage: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем пакет
	pkg, err := uc.packageRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			uc.logger.Warn("ReservePackage: package id=%d not found", req.PackageID)
			return nil, ErrPackageNotFound
		}
		uc.logger.Error("ReservePackage: failed to get package id=%d: %v", req.PackageID, err)
		return nil, fmt.Errorf("%w: failed to get package: %v", ErrInternal, err)
	}

	// 3. Проверяем ёмкость: общий пул или поуслужные квоты
	if err := validatePackageCapacity(pkg, req.Appointments); err != nil {
		uc.logger.Warn("ReservePackage: capacity validation failed: %v", err)
		return nil, err
	}

	// 4. Лимит покупок пакета клиентом - до любой персистентности
	if uc.purchaseLimit > 0 {
		count, err := uc.packageCustomerRepo.CountByCustomerAndPackage(ctx, req.CustomerID, req.PackageID)
		if err != nil {
			uc.logger.Error("ReservePackage: failed to count purchases: %v", err)
			return nil, fmt.Errorf("%w: failed to count purchases: %v", ErrInternal, err)
		}
		if count >= uc.purchaseLimit {
			uc.logger.Warn("ReservePackage: purchase limit reached for customer=%d, package=%d (%d/%d)",
				req.CustomerID, req.PackageID, count, uc.purchaseLimit)
			return nil, ErrBookingsLimitReached
		}
	}

	// 5. Купон - тоже до любой персистентности
	var coupon *domain.Coupon
	if req.CouponCode != nil {
		coupon, err = uc.couponService.Process(ctx, *req.CouponCode, pkg.ID, domain.CouponEntityPackage, req.CustomerID, true)
		if err != nil {
			uc.logger.Warn("ReservePackage: coupon %q rejected: %v", *req.CouponCode, err)
			return nil, mapCouponError(err)
		}
	}

	// 6. Создаем покупку с кредитными слотами
	purchase := buildPurchase(pkg, req, coupon, now)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := uc.packageCustomerRepo.Create(txCtx, purchase)
		return err
	})
	if err != nil {
		uc.logger.Error("ReservePackage: failed to create purchase: %v", err)
		return nil, fmt.Errorf("%w: failed to create purchase: %v", ErrInternal, err)
	}

	// 7. Бронируем записи в порядке возрастания времени начала: поздние
	// записи видят ранние как уже занимающие календарь
	siblings := make([]AppointmentRequest, len(req.Appointments))
	copy(siblings, req.Appointments)
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].Start.Before(siblings[j].Start)
	})

	created := make([]*domain.Appointment, 0, len(siblings))
	for _, sibling := range siblings {
		appointment, err := uc.bookSibling(ctx, req, purchase, sibling)
		if err != nil {
			uc.rollback(ctx, created, purchase.ID)
			return nil, err
		}
		created = append(created, appointment)
	}

	// 8. Считаем и сохраняем платёж
	amount := pricing.PaymentAmount(pricing.Bookable{
		Price:           pkg.Price,
		Discount:        pkg.Discount,
		CalculatedPrice: pkg.CalculatedPrice,
		Tax:             req.Tax,
		Deposit:         pkg.Deposit,
		DepositEnabled:  pkg.DepositEnabled,
	}, coupon)

	payment := &domain.Payment{
		PackageCustomerID: purchase.ID,
		Amount:            amount.Total,
		Gateway:           req.Gateway,
		Status:            domain.PaymentStatusPending,
		DateTime:          now,
	}
	if _, err := uc.paymentRepo.Create(ctx, payment); err != nil {
		uc.logger.Error("ReservePackage: failed to create payment: %v", err)
		uc.rollback(ctx, created, purchase.ID)
		return nil, fmt.Errorf("%w: failed to create payment: %v", ErrInternal, err)
	}
	purchase.Payments = append(purchase.Payments, payment)

	// 9. Списываем использование купона
	if coupon != nil {
		if err := uc.couponService.Consume(ctx, coupon.ID); err != nil {
			uc.logger.Error("ReservePackage: failed to consume coupon id=%d: %v", coupon.ID, err)
			uc.rollback(ctx, created, purchase.ID)
			return nil, fmt.Errorf("%w: failed to consume coupon: %v", ErrInternal, err)
		}
	}

	// 10. Повторная проверка двойного бронирования: конкурентная покупка
	// могла занять те же ресурсы между проверкой и созданием
	if req.ValidateAvailability {
		for i, appointment := range created {
			if err := uc.checkAvailability(ctx, siblings[i], &appointment.ID); err != nil {
				uc.logger.Warn("ReservePackage: double-booking detected for appointment id=%d", appointment.ID)
				uc.rollback(ctx, created, purchase.ID)
				return nil, err
			}
		}
	}

	uc.logger.Info("ReservePackage: purchase id=%d created with %d appointments, payment id=%d",
		purchase.ID, len(created), payment.ID)

	return buildResponse(purchase, created, payment, amount), nil
}

// bookSibling бронирует одну запись покупки в сериализуемой транзакции
func (uc *UseCase) bookSibling(
	ctx context.Context,
	req *Request,
	purchase *domain.PackageCustomer,
	sibling AppointmentRequest,
) (*domain.Appointment, error) {
	slot := findSlotForService(purchase, sibling.ServiceID)
	if slot == nil {
		// Ёмкость проверена заранее, слот обязан существовать
		return nil, fmt.Errorf("%w: no credit slot for service id=%d", ErrInternal, sibling.ServiceID)
	}

	var appointment *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if req.ValidateAvailability {
			if err := uc.checkAvailability(txCtx, sibling, nil); err != nil {
				return err
			}
		}

		appointment = &domain.Appointment{
			ServiceID:    sibling.ServiceID,
			ProviderID:   sibling.ProviderID,
			LocationID:   sibling.LocationID,
			BookingStart: sibling.Start,
			BookingEnd:   sibling.End,
			Status:       domain.AppointmentStatusApproved,
			Bookings: []*domain.CustomerBooking{
				{
					CustomerID:               req.CustomerID,
					Persons:                  sibling.Persons,
					Status:                   domain.BookingStatusApproved,
					PackageCustomerServiceID: &slot.ID,
				},
			},
		}

		if _, err := uc.appointmentRepo.Create(txCtx, appointment); err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// checkAvailability проверяет, свободен ли запрошенный интервал у провайдера
// с учётом исчерпания ресурсов. Движок закрывает недоступные интервалы
// синтетическими записями; пересечение с любой записью календаря провайдера
// означает недоступность.
func (uc *UseCase) checkAvailability(ctx context.Context, sibling AppointmentRequest, excludeID *int64) error {
	dayStart := time.Date(
		sibling.Start.UTC().Year(), sibling.Start.UTC().Month(), sibling.Start.UTC().Day(),
		0, 0, 0, 0, time.UTC,
	)
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		StartDate: &dayStart,
		EndDate:   &dayEnd,
		ExcludeID: excludeID,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	allResources, err := uc.resourceRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to load resources: %v", ErrInternal, err)
	}

	locationIDs, err := uc.resourceRepo.GetLocationIDs(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to load locations: %v", ErrInternal, err)
	}

	providers := buildProviders(appointments, sibling.ProviderID)

	_, err = uc.engine.ManageResources(ctx, &resources.ManageRequest{
		Resources:            allResources,
		Appointments:         appointments,
		Providers:            providers,
		ServiceID:            sibling.ServiceID,
		AllLocationIDs:       locationIDs,
		LocationID:           sibling.LocationID,
		ExcludeAppointmentID: excludeID,
		PersonsCount:         sibling.Persons,
	})
	if err != nil {
		return fmt.Errorf("%w: resource engine: %v", ErrInternal, err)
	}

	target := findProvider(providers, sibling.ProviderID)
	for _, a := range target.Appointments {
		if !a.IsActive() {
			continue
		}
		if a.BookingStart.Before(sibling.End) && sibling.Start.Before(a.BookingEnd) {
			return ErrBookingUnavailable
		}
	}

	return nil
}

// rollback компенсирует частично созданную покупку: удаляет записи в порядке,
// обратном созданию, затем кредитные строки. Ошибки удаления логируются -
// исходная ошибка важнее
func (uc *UseCase) rollback(ctx context.Context, created []*domain.Appointment, purchaseID int64) {
	for i := len(created) - 1; i >= 0; i-- {
		if err := uc.appointmentRepo.Delete(ctx, created[i].ID); err != nil {
			uc.logger.Error("ReservePackage: rollback failed to delete appointment id=%d: %v", created[i].ID, err)
		}
	}
	if err := uc.packageCustomerRepo.Delete(ctx, purchaseID); err != nil {
		uc.logger.Error("ReservePackage: rollback failed to delete purchase id=%d: %v", purchaseID, err)
	}
}

// buildPurchase собирает покупку с кредитными слотами по определению пакета
func buildPurchase(pkg *domain.Package, req *Request, coupon *domain.Coupon, now time.Time) *domain.PackageCustomer {
	purchase := &domain.PackageCustomer{
		PackageID:  pkg.ID,
		CustomerID: req.CustomerID,
		Price:      pkg.Price,
		Tax:        req.Tax,
		Start:      now,
		Purchased:  now,
		Status:     domain.PackageCustomerStatusApproved,
	}
	if coupon != nil {
		purchase.CouponID = &coupon.ID
	}

	if pkg.SharedCapacity {
		purchase.BookingsCount = pkg.QuantityShared
	}

	for _, s := range pkg.Services {
		slot := &domain.PackageCustomerService{
			ServiceID: s.ServiceID,
		}
		if !pkg.SharedCapacity {
			slot.BookingsCount = s.Quantity
		}
		purchase.Services = append(purchase.Services, slot)
	}

	return purchase
}

// findSlotForService первый кредитный слот покупки для услуги
func findSlotForService(purchase *domain.PackageCustomer, serviceID int64) *domain.PackageCustomerService {
	for _, slot := range purchase.Services {
		if slot.ServiceID == serviceID {
			return slot
		}
	}
	return nil
}

// buildProviders собирает провайдеров с их записями для движка ресурсов.
// Целевой провайдер присутствует всегда, даже без записей
func buildProviders(appointments []*domain.Appointment, targetProviderID int64) []*domain.Provider {
	byID := make(map[int64]*domain.Provider)
	providers := make([]*domain.Provider, 0)

	add := func(id int64) *domain.Provider {
		if p, ok := byID[id]; ok {
			return p
		}
		p := &domain.Provider{ID: id}
		byID[id] = p
		providers = append(providers, p)
		return p
	}

	add(targetProviderID)
	for _, a := range appointments {
		p := add(a.ProviderID)
		p.Appointments = append(p.Appointments, a)
	}

	return providers
}

// findProvider провайдер по ID; buildProviders гарантирует присутствие
func findProvider(providers []*domain.Provider, id int64) *domain.Provider {
	for _, p := range providers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// mapCouponError транслирует ошибки сервиса купонов в ошибки use case
func mapCouponError(err error) error {
	switch {
	case errors.Is(err, coupons.ErrCouponUnknown):
		return ErrCouponUnknown
	case errors.Is(err, coupons.ErrCouponInvalid):
		return ErrCouponInvalid
	case errors.Is(err, coupons.ErrCouponExpired):
		return ErrCouponExpired
	default:
		return fmt.Errorf("%w: coupon processing: %v", ErrInternal, err)
	}
}

// buildResponse собирает агрегат созданной покупки
func buildResponse(
	purchase *domain.PackageCustomer,
	created []*domain.Appointment,
	payment *domain.Payment,
	amount pricing.Amount,
) *Response {
	resp := &Response{
		PackageCustomerID: purchase.ID,
		Status:            string(purchase.Status),
		Purchased:         purchase.Purchased,
		Payment: &PaymentInfo{
			ID:        payment.ID,
			Amount:    payment.Amount,
			Gateway:   payment.Gateway,
			Status:    string(payment.Status),
			Breakdown: amount.Breakdown(),
		},
	}

	for _, slot := range purchase.Services {
		resp.Credits = append(resp.Credits, CreditSlot{
			ID:            slot.ID,
			ServiceID:     slot.ServiceID,
			BookingsCount: slot.BookingsCount,
		})
	}

	for _, a := range created {
		booked := BookedAppointment{
			ID:         a.ID,
			ServiceID:  a.ServiceID,
			ProviderID: a.ProviderID,
			LocationID: a.LocationID,
			Start:      a.BookingStart,
			End:        a.BookingEnd,
		}
		if len(a.Bookings) > 0 && a.Bookings[0].PackageCustomerServiceID != nil {
			booked.SlotID = *a.Bookings[0].PackageCustomerServiceID
		}
		resp.Appointments = append(resp.Appointments, booked)
	}

	return resp
}
