package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackageCustomerStatus represents the status of a package purchase
type PackageCustomerStatus string

const (
	PackageCustomerStatusApproved PackageCustomerStatus = "approved"
	PackageCustomerStatusCanceled PackageCustomerStatus = "canceled"
)

// Package represents a bookable package: N appointment credits across one or
// more services, sold at a single price.
type Package struct {
	ID   int64
	Name string

	Price decimal.Decimal
	// Discount плоская процентная скидка пакета
	// Не применяется, если цена помечена как calculated (рассчитана заранее)
	Discount        decimal.Decimal
	CalculatedPrice bool

	Deposit        decimal.Decimal
	DepositEnabled bool

	// SharedCapacity true: кредиты пакета лежат в общем пуле QuantityShared
	// и расходуются любой из услуг; false: у каждой услуги своя квота
	SharedCapacity bool
	QuantityShared int

	Services []PackageService

	Status    string
	CreatedAt time.Time
}

// PackageService связь пакета с услугой и её квотой кредитов
type PackageService struct {
	ServiceID int64
	// Quantity кредиты, выделенные конкретно этой услуге
	// Учитывается только при SharedCapacity == false
	Quantity int
}

// ServiceQuantity returns the per-service credit quota, or 0 if the service
// is not part of the package
func (p *Package) ServiceQuantity(serviceID int64) int {
	for _, s := range p.Services {
		if s.ServiceID == serviceID {
			return s.Quantity
		}
	}
	return 0
}

// HasService returns true if the service is part of the package
func (p *Package) HasService(serviceID int64) bool {
	for _, s := range p.Services {
		if s.ServiceID == serviceID {
			return true
		}
	}
	return false
}

// TaxType тип налога: процент от суммы или фиксированная сумма
type TaxType string

const (
	TaxTypePercentage TaxType = "percentage"
	TaxTypeFixed      TaxType = "fixed"
)

// Tax represents the tax record attached to a purchase.
// Excluded == true means the tax is added on top of the price; otherwise the
// price already includes it.
type Tax struct {
	Amount   decimal.Decimal `json:"amount"`
	Type     TaxType         `json:"type"`
	Excluded bool            `json:"excluded"`
}

// PackageCustomer represents one customer's purchase of a package.
//
// If BookingsCount > 0 the package uses shared capacity: all services draw
// from this one pool and the per-slot credit counts are ignored.
type PackageCustomer struct {
	ID         int64
	PackageID  int64
	CustomerID int64

	Price decimal.Decimal
	Tax   *Tax // nil = без налога; хранится в БД как JSON

	// Start/End окно действия покупки; End == nil = бессрочно
	Start     time.Time
	End       *time.Time
	Purchased time.Time

	// BookingsCount общий пул кредитов (только для shared-capacity пакетов)
	BookingsCount int

	Status   PackageCustomerStatus
	CouponID *int64

	Services []*PackageCustomerService
	Payments []*Payment
}

// IsValidAt returns true if the purchase is usable at the given moment:
// not canceled and not past its validity window
func (pc *PackageCustomer) IsValidAt(now time.Time) bool {
	if pc.Status == PackageCustomerStatusCanceled {
		return false
	}
	if pc.End != nil && pc.End.Before(now) {
		return false
	}
	return true
}

// IsSharedCapacity returns true if all services draw from one shared pool
func (pc *PackageCustomer) IsSharedCapacity() bool {
	return pc.BookingsCount > 0
}

// PackageCustomerService is the credit slot unit a CustomerBooking attaches to.
// Owned exclusively by one PackageCustomer.
type PackageCustomerService struct {
	ID                int64
	PackageCustomerID int64
	ServiceID         int64

	// ProviderID/LocationID опциональные правила слота: ограничивают,
	// у какого сотрудника и на какой локации можно списывать кредиты
	ProviderID *int64
	LocationID *int64

	// BookingsCount кредиты, выделенные этому слоту
	// Учитывается только когда пакет не shared-capacity
	BookingsCount int

	CreatedAt time.Time
}
