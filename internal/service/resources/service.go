// Package resources движок распределения разделяемых ресурсов.
//
// Ресурсы (комнаты, оборудование, места) привязаны к комбинациям
// {услуга, сотрудник, локация} и имеют конечную ёмкость. Движок вычисляет,
// на каких интервалах ресурс переподписан, и закрывает эти интервалы в
// календарях затронутых провайдеров синтетическими записями.
package resources

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Engine движок распределения ресурсов
type Engine struct {
	schedule ScheduleServiceClient
	log      Logger
}

// NewEngine создает новый экземпляр движка ресурсов
func NewEngine(schedule ScheduleServiceClient, log Logger) *Engine {
	return &Engine{
		schedule: schedule,
		log:      log,
	}
}

// ManageResources точка входа движка: разворачивает shared-ресурсы, разделяет
// их на провайдерские и локационные и закрывает недоступные интервалы в
// календарях переданных провайдеров.
//
// Если задана конкретная локация и локационный ресурс привязан к ней, ресурс
// обрабатывается как провайдерский (single-location fast path) - пересечение
// с расписанием не требуется, остальные локационные ресурсы к запросу не
// относятся. Иначе все локационные ресурсы обрабатываются по-провайдерно с
// полным пересечением расписаний.
//
// Возвращает насыщенные комбинации локация/дата/ресурс (только для локационных
// ресурсов); для провайдерских ресурсов результат выражен исключительно
// синтетическими записями в календарях.
func (e *Engine) ManageResources(ctx context.Context, req *ManageRequest) (ResourcedData, error) {
	if len(req.Resources) == 0 {
		return ResourcedData{}, nil
	}

	appointments := filterAppointments(req.Appointments, req.ExcludeAppointmentID)

	// Известные сущности для разворачивания shared-ресурсов без собственных привязок
	entityIDsByType := map[domain.EntityType][]int64{
		domain.EntityTypeLocation: req.AllLocationIDs,
		domain.EntityTypeService:  {req.ServiceID},
	}

	expanded := ExpandShared(req.Resources, entityIDsByType)
	providerResources, locationResources := Partition(expanded)

	if req.LocationID != nil {
		// Single-location fast path: ресурсы этой локации становятся
		// провайдерскими, остальные локационные к запросу не относятся
		for _, r := range locationResources {
			if r.BindsEntity(domain.EntityTypeLocation, *req.LocationID) {
				providerResources = append(providerResources, r)
			}
		}
		locationResources = nil
	}

	e.BlockProviderAvailability(providerResources, appointments, req.Providers, req.ExcludeCustomerID, req.PersonsCount)

	if len(locationResources) == 0 {
		return ResourcedData{}, nil
	}

	return e.BlockLocationAvailability(
		ctx,
		locationResources,
		appointments,
		req.Providers,
		req.ServiceID,
		req.ExcludeCustomerID,
		req.PersonsCount,
	)
}

// filterAppointments исключает запись с указанным ID (при перебронировании)
func filterAppointments(appointments []*domain.Appointment, excludeID *int64) []*domain.Appointment {
	if excludeID == nil {
		return appointments
	}

	filtered := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ID == *excludeID {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}
