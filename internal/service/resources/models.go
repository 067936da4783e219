package resources

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/interval"
)

// OccupiedInterval исчерпанный интервал ресурса с записями-источниками
type OccupiedInterval struct {
	Interval interval.Interval
	// AppointmentIDs записи, внёсшие вклад, в порядке обработки
	AppointmentIDs []int64
}

// ResourceOccupancy исчерпанные интервалы одного ресурса по дням (ключ YYYY-MM-DD)
type ResourceOccupancy map[string][]OccupiedInterval

// OccupancyByResource занятость по индексу ресурса во входном списке
type OccupancyByResource map[int]ResourceOccupancy

// LocationIntervals насыщенные интервалы локационного ресурса:
// локации, которых касается ресурс, и сами интервалы
type LocationIntervals struct {
	LocationIDs []int64
	Intervals   []interval.Interval
}

// ResourcedData результат обработки локационных ресурсов:
// providerID -> дата -> индекс ресурса -> насыщенные интервалы
// Используется листингом доступности для гашения слотов
type ResourcedData map[int64]map[string]map[int]*LocationIntervals

// put записывает насыщенные интервалы, создавая вложенные уровни при необходимости
func (d ResourcedData) put(providerID int64, date string, resourceIdx int, li *LocationIntervals) {
	byDate, ok := d[providerID]
	if !ok {
		byDate = make(map[string]map[int]*LocationIntervals)
		d[providerID] = byDate
	}
	byResource, ok := byDate[date]
	if !ok {
		byResource = make(map[int]*LocationIntervals)
		byDate[date] = byResource
	}
	byResource[resourceIdx] = li
}

// ManageRequest запрос на обработку ресурсов для одной операции проверки доступности
type ManageRequest struct {
	Resources    []*domain.Resource
	Appointments []*domain.Appointment
	Providers    []*domain.Provider

	ServiceID      int64
	AllLocationIDs []int64

	// LocationID конкретная локация запроса; включает single-location fast path
	LocationID *int64

	// ExcludeAppointmentID запись, исключаемая из подсчёта (перебронирование)
	ExcludeAppointmentID *int64
	// ExcludeCustomerID клиент, чьи участники не учитываются в занятости
	ExcludeCustomerID *int64

	// PersonsCount число участников кандидата на бронирование
	PersonsCount int
}
