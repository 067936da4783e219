package get_package_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/packagecredits"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
)

// Request запрос доступности: остатки кредитов клиента по услуге плюс
// насыщенные интервалы ресурсов в окне дат
type Request struct {
	CustomerID int64
	ServiceID  int64

	// LocationID конкретная локация (опционально, включает fast path движка)
	LocationID *int64

	// StartDate/EndDate окно дат для расчёта насыщенности ресурсов
	StartDate time.Time
	EndDate   time.Time

	// Persons число участников планируемой записи
	Persons int
}

// Response результат: кредиты, пригодные для бронирования услуги,
// и насыщенные комбинации провайдер/дата/локация
type Response struct {
	Credits []CreditView

	// Saturated насыщенные интервалы локационных ресурсов для гашения слотов
	Saturated resources.ResourcedData

	// BlockedIntervals закрытые интервалы календарей по провайдерам и датам
	// (секунды от полуночи UTC), включая синтетические записи движка
	BlockedIntervals map[int64]map[string][]BlockedInterval
}

// CreditView остаток кредитов одного слота покупки
type CreditView struct {
	PackageCustomerID int64      `json:"packageCustomerId"`
	PackageID         int64      `json:"packageId"`
	SlotID            int64      `json:"slotId"`
	ServiceID         int64      `json:"serviceId"`
	Total             int        `json:"total"`
	Count             int        `json:"count"`
	SharedCapacity    bool       `json:"sharedCapacity"`
	End               *time.Time `json:"end,omitempty"`
	ProviderID        *int64     `json:"providerId,omitempty"`
	LocationID        *int64     `json:"locationId,omitempty"`
}

// BlockedInterval закрытый интервал календаря провайдера
type BlockedInterval struct {
	Start     int  `json:"start"`
	End       int  `json:"end"`
	Synthetic bool `json:"synthetic"`
}

// fromCreditViews конвертирует представления леджера в response модели
func fromCreditViews(views packagecredits.Views) []CreditView {
	result := make([]CreditView, 0, len(views))
	for _, v := range views {
		result = append(result, CreditView{
			PackageCustomerID: v.PackageCustomerID,
			PackageID:         v.PackageID,
			SlotID:            v.SlotID,
			ServiceID:         v.ServiceID,
			Total:             v.Total,
			Count:             v.Count,
			SharedCapacity:    v.SharedCapacity,
			End:               v.End,
			ProviderID:        v.ProviderID,
			LocationID:        v.LocationID,
		})
	}
	return result
}
