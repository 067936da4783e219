package reserve_package

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request запрос на покупку пакета с бронированием записей
type Request struct {
	CustomerID int64
	PackageID  int64

	// Appointments записи, бронируемые в счёт кредитов пакета
	Appointments []AppointmentRequest

	// CouponCode код купона (опционально)
	CouponCode *string

	// Tax налоговая запись покупки (опционально, задаётся снаружи)
	Tax *domain.Tax

	// Gateway платёжный шлюз для создаваемого платежа
	Gateway string

	// ValidateAvailability включает проверку доступности при бронировании
	// и повторную проверку двойного бронирования после него
	ValidateAvailability bool
}

// AppointmentRequest одна запись внутри покупки пакета
type AppointmentRequest struct {
	ServiceID  int64
	ProviderID int64
	LocationID *int64
	Start      time.Time
	End        time.Time
	Persons    int
}

// Response агрегат созданной покупки
type Response struct {
	PackageCustomerID int64
	Status            string
	Purchased         time.Time

	Credits      []CreditSlot
	Appointments []BookedAppointment
	Payment      *PaymentInfo
}

// CreditSlot созданный кредитный слот покупки
type CreditSlot struct {
	ID            int64
	ServiceID     int64
	BookingsCount int
}

// BookedAppointment забронированная запись
type BookedAppointment struct {
	ID         int64
	ServiceID  int64
	ProviderID int64
	LocationID *int64
	Start      time.Time
	End        time.Time
	SlotID     int64
}

// PaymentInfo созданный платёж с разбивкой суммы
type PaymentInfo struct {
	ID        int64
	Amount    decimal.Decimal
	Gateway   string
	Status    string
	Breakdown map[string]interface{}
}
