package resources

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/scheduleservice"
	"github.com/m04kA/SMC-SchedulingService/internal/interval"
)

// BlockProviderAvailability закрывает календари провайдеров на исчерпанных
// интервалах провайдерских ресурсов.
//
// Для каждого занятого интервала синтезируется несохраняемая запись, которая
// добавляется в список записей подходящих провайдеров. Так исчерпание ресурса
// превращается в недоступность календаря без изменения реального расписания.
// Ресурс без привязок к сотрудникам действует на всех провайдеров.
func (e *Engine) BlockProviderAvailability(
	providerResources []*domain.Resource,
	appointments []*domain.Appointment,
	providers []*domain.Provider,
	excludeCustomerID *int64,
	personsCount int,
) {
	occupancy := ComputeOccupiedIntervals(providerResources, appointments, personsCount, excludeCustomerID)

	for idx, resource := range providerResources {
		resourceOccupancy, ok := occupancy[idx]
		if !ok {
			continue
		}

		targets := matchingProviders(resource, providers)

		for _, day := range sortedDays(resourceOccupancy) {
			for _, occupied := range resourceOccupancy[day] {
				for _, provider := range targets {
					fake := syntheticAppointment(day, occupied.Interval, provider.ID, resource)
					provider.Appointments = append(provider.Appointments, fake)
				}
			}
		}

		e.log.Info("BlockProviderAvailability: resource %q exhausted on %d day(s), %d provider(s) blocked",
			resource.Name, len(resourceOccupancy), len(targets))
	}
}

// BlockLocationAvailability обрабатывает локационные ресурсы: исчерпанные
// интервалы пересекаются со свободными окнами провайдера на конкретной локации
// (недельное расписание или особый день из ScheduleService), пересечения
// закрываются синтетическими записями.
//
// Возвращает структуру насыщенных комбинаций локация/дата/ресурс для листинга
// доступности. Кэш расписаний принадлежит одному вызову и не переживает его.
func (e *Engine) BlockLocationAvailability(
	ctx context.Context,
	locationResources []*domain.Resource,
	appointments []*domain.Appointment,
	providers []*domain.Provider,
	serviceID int64,
	excludeCustomerID *int64,
	personsCount int,
) (ResourcedData, error) {
	occupancy := ComputeOccupiedIntervals(locationResources, appointments, personsCount, excludeCustomerID)
	data := make(ResourcedData)

	// Кэш расписаний на время одного вызова, ключ - ID провайдера
	cache := newScheduleCache(e.schedule)

	for idx, resource := range locationResources {
		resourceOccupancy, ok := occupancy[idx]
		if !ok {
			continue
		}

		locationIDs := resource.EntityIDsOf(domain.EntityTypeLocation)
		targets := matchingProviders(resource, providers)

		for _, provider := range targets {
			weekDays, specialDays, err := cache.get(ctx, provider.ID, serviceID, locationIDs)
			if err != nil {
				return nil, fmt.Errorf("%w: provider id=%d: %v", ErrScheduleUnavailable, provider.ID, err)
			}

			for _, day := range sortedDays(resourceOccupancy) {
				schedule, ok := scheduleForDay(day, weekDays, specialDays)
				if !ok {
					continue
				}

				busy := make([]interval.Interval, 0, len(resourceOccupancy[day]))
				for _, occupied := range resourceOccupancy[day] {
					busy = append(busy, occupied.Interval)
				}

				var saturated []interval.Interval
				for _, free := range schedule.Free {
					if !coversAnyLocation(&free, locationIDs) {
						continue
					}

					freeWindow := interval.New(free.Start, free.End)
					for _, clipped := range interval.Intersect(freeWindow, busy) {
						fake := syntheticAppointment(day, clipped, provider.ID, resource)
						provider.Appointments = append(provider.Appointments, fake)
						saturated = append(saturated, clipped)
					}
				}

				if len(saturated) > 0 {
					// Порядок пересечений повторяет порядок свободных окон
					// расписания, который не обязан быть хронологическим
					sort.Slice(saturated, func(i, j int) bool {
						return saturated[i].Start < saturated[j].Start
					})
					data.put(provider.ID, day, idx, &LocationIntervals{
						LocationIDs: locationIDs,
						Intervals:   interval.MergeAdjacent(saturated),
					})
				}
			}
		}
	}

	return data, nil
}

// matchingProviders возвращает провайдеров, подпадающих под привязки ресурса
// Ресурс без employee-привязок действует на всех
func matchingProviders(resource *domain.Resource, providers []*domain.Provider) []*domain.Provider {
	if !resource.HasBindingOf(domain.EntityTypeEmployee) {
		return providers
	}

	var matched []*domain.Provider
	for _, p := range providers {
		if resource.BindsEntity(domain.EntityTypeEmployee, p.ID) {
			matched = append(matched, p)
		}
	}
	return matched
}

// syntheticAppointment синтезирует несохраняемую запись, закрывающую интервал
// дня в календаре провайдера
func syntheticAppointment(day string, iv interval.Interval, providerID int64, resource *domain.Resource) *domain.Appointment {
	midnight, _ := time.Parse(domain.DateFormat, day)

	var serviceID int64
	if ids := resource.EntityIDsOf(domain.EntityTypeService); len(ids) == 1 {
		serviceID = ids[0]
	}

	var locationID *int64
	if ids := resource.EntityIDsOf(domain.EntityTypeLocation); len(ids) == 1 {
		locationID = &ids[0]
	}

	return &domain.Appointment{
		ServiceID:    serviceID,
		ProviderID:   providerID,
		LocationID:   locationID,
		BookingStart: midnight.Add(time.Duration(iv.Start) * time.Second),
		BookingEnd:   midnight.Add(time.Duration(iv.End) * time.Second),
		Status:       domain.AppointmentStatusApproved,
		Synthetic:    true,
		SyntheticID:  uuid.NewString(),
	}
}

// scheduleForDay возвращает расписание на дату: особый день перекрывает недельное
func scheduleForDay(
	day string,
	weekDays map[time.Weekday]scheduleservice.DaySchedule,
	specialDays map[string]scheduleservice.DaySchedule,
) (scheduleservice.DaySchedule, bool) {
	if schedule, ok := specialDays[day]; ok {
		return schedule, true
	}

	date, err := time.Parse(domain.DateFormat, day)
	if err != nil {
		return scheduleservice.DaySchedule{}, false
	}

	schedule, ok := weekDays[date.Weekday()]
	return schedule, ok
}

func coversAnyLocation(free *scheduleservice.FreeInterval, locationIDs []int64) bool {
	if len(locationIDs) == 0 {
		return true
	}
	for _, id := range locationIDs {
		if free.CoversLocation(id) {
			return true
		}
	}
	return false
}

func sortedDays(occupancy ResourceOccupancy) []string {
	days := make([]string, 0, len(occupancy))
	for day := range occupancy {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// scheduleCache кэш расписаний провайдеров в пределах одного вызова движка
// Явный объект вместо процессно-глобального состояния
type scheduleCache struct {
	client   ScheduleServiceClient
	weekDays map[int64]map[time.Weekday]scheduleservice.DaySchedule
	special  map[int64]map[string]scheduleservice.DaySchedule
}

func newScheduleCache(client ScheduleServiceClient) *scheduleCache {
	return &scheduleCache{
		client:   client,
		weekDays: make(map[int64]map[time.Weekday]scheduleservice.DaySchedule),
		special:  make(map[int64]map[string]scheduleservice.DaySchedule),
	}
}

func (c *scheduleCache) get(
	ctx context.Context,
	providerID int64,
	serviceID int64,
	locationIDs []int64,
) (map[time.Weekday]scheduleservice.DaySchedule, map[string]scheduleservice.DaySchedule, error) {
	if weekDays, ok := c.weekDays[providerID]; ok {
		return weekDays, c.special[providerID], nil
	}

	weekDays, err := c.client.GetProviderWeekDayIntervals(ctx, providerID, serviceID, locationIDs)
	if err != nil {
		return nil, nil, err
	}

	specialDays, err := c.client.GetProviderSpecialDayIntervals(ctx, providerID, serviceID, locationIDs)
	if err != nil {
		return nil, nil, err
	}

	c.weekDays[providerID] = weekDays
	c.special[providerID] = specialDays
	return weekDays, specialDays, nil
}
