package packagecredits

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CreditView остаток кредитов одного слота (customer, service, package, slot)
type CreditView struct {
	CustomerID        int64
	PackageID         int64
	ServiceID         int64
	SlotID            int64
	PackageCustomerID int64

	// Total исходные кредиты: общий пул покупки при shared-capacity,
	// иначе собственные кредиты слота
	Total int
	// Count оставшиеся кредиты после вычета потреблённых
	Count int

	SharedCapacity bool

	Price     decimal.Decimal
	Tax       *domain.Tax
	CouponID  *int64
	Status    domain.PackageCustomerStatus
	Start     time.Time
	End       *time.Time
	Purchased time.Time

	// ProviderID/LocationID правила слота (опциональные ограничения списания)
	ProviderID *int64
	LocationID *int64
}

// Views упорядоченный список кредитных представлений
// Порядок повторяет порядок покупок и их слотов во входных данных
type Views []*CreditView

// ForCustomer возвращает представления одного клиента, сохраняя порядок
func (v Views) ForCustomer(customerID int64) Views {
	var result Views
	for _, view := range v {
		if view.CustomerID == customerID {
			result = append(result, view)
		}
	}
	return result
}

// ForService возвращает представления одной услуги, сохраняя порядок
func (v Views) ForService(serviceID int64) Views {
	var result Views
	for _, view := range v {
		if view.ServiceID == serviceID {
			result = append(result, view)
		}
	}
	return result
}

// RemainingFor суммарный остаток кредитов покупки пакета
// Для shared-capacity пула остаток общий, поэтому берётся один раз
func (v Views) RemainingFor(packageCustomerID int64) int {
	total := 0
	for _, view := range v {
		if view.PackageCustomerID != packageCustomerID {
			continue
		}
		if view.SharedCapacity {
			// Все слоты пула показывают один и тот же общий остаток
			return view.Count
		}
		total += view.Count
	}
	return total
}
