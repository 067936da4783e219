// Package packagecredits учёт кредитов пакетов.
//
// Клиент покупает пакет с N кредитами на одну или несколько услуг; кредиты
// либо закреплены за услугами (по слотам), либо лежат в общем пуле покупки
// (shared capacity). Пакет считается этапами: построение представлений
// остатков, best-effort сверка переисчерпанных слотов, фильтрация доступных.
// Каждый этап - чистая функция, возвращающая новые значения.
package packagecredits

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Service сервис учёта кредитов пакетов
type Service struct {
	bookings         CustomerBookingRepository
	packageCustomers PackageCustomerRepository
	log              Logger
}

// NewService создает новый экземпляр сервиса учёта кредитов
func NewService(
	bookings CustomerBookingRepository,
	packageCustomers PackageCustomerRepository,
	log Logger,
) *Service {
	return &Service{
		bookings:         bookings,
		packageCustomers: packageCustomers,
		log:              log,
	}
}

// ComputeRemainingCredits строит представления остатков кредитов по каждому
// слоту действующих покупок (не отменённых, с неистёкшим окном действия).
//
// Исходный остаток слота - общий пул покупки при shared capacity, иначе
// собственные кредиты слота. Из него вычитаются не-отменённые визиты,
// ссылающиеся на слот; при shared capacity дополнительно вычитаются визиты
// всех слотов-соседей той же покупки.
func ComputeRemainingCredits(
	packageCustomers []*domain.PackageCustomer,
	appointments []*domain.Appointment,
	now time.Time,
) Views {
	consumed := consumedPerSlot(appointments)

	var views Views
	for _, pc := range packageCustomers {
		if !pc.IsValidAt(now) {
			continue
		}

		shared := pc.IsSharedCapacity()

		// Суммарное потребление по всем слотам покупки (для общего пула)
		consumedTotal := 0
		for _, slot := range pc.Services {
			consumedTotal += consumed[slot.ID]
		}

		for _, slot := range pc.Services {
			total := slot.BookingsCount
			count := total - consumed[slot.ID]
			if shared {
				total = pc.BookingsCount
				count = total - consumedTotal
			}

			views = append(views, &CreditView{
				CustomerID:        pc.CustomerID,
				PackageID:         pc.PackageID,
				ServiceID:         slot.ServiceID,
				SlotID:            slot.ID,
				PackageCustomerID: pc.ID,
				Total:             total,
				Count:             count,
				SharedCapacity:    shared,
				Price:             pc.Price,
				Tax:               pc.Tax,
				CouponID:          pc.CouponID,
				Status:            pc.Status,
				Start:             pc.Start,
				End:               pc.End,
				Purchased:         pc.Purchased,
				ProviderID:        slot.ProviderID,
				LocationID:        slot.LocationID,
			})
		}
	}

	return views
}

// FilterAvailable отбрасывает покупки без остатка кредитов по всем их слотам.
// requireAny == true сохраняет и исчерпанные покупки (админский просмотр
// пакетов клиента).
func FilterAvailable(views Views, requireAny bool) Views {
	if requireAny {
		result := make(Views, len(views))
		copy(result, views)
		return result
	}

	var result Views
	for _, view := range views {
		if views.RemainingFor(view.PackageCustomerID) <= 0 {
			continue
		}
		result = append(result, view)
	}
	return result
}

// consumedPerSlot считает не-отменённые визиты, ссылающиеся на каждый слот
func consumedPerSlot(appointments []*domain.Appointment) map[int64]int {
	consumed := make(map[int64]int)
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		for _, b := range a.Bookings {
			if !b.IsActive() || b.PackageCustomerServiceID == nil {
				continue
			}
			consumed[*b.PackageCustomerServiceID]++
		}
	}
	return consumed
}
