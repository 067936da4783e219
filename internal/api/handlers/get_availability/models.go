package get_availability

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_package_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Credits []getAvailability.CreditView `json:"credits"`

	// Saturated насыщенные комбинации провайдер/дата/локация
	Saturated resources.ResourcedData `json:"saturated"`

	// BlockedIntervals закрытые интервалы календарей по провайдерам и датам
	BlockedIntervals map[int64]map[string][]getAvailability.BlockedInterval `json:"blockedIntervals"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		Credits:          resp.Credits,
		Saturated:        resp.Saturated,
		BlockedIntervals: resp.BlockedIntervals,
	}
}
