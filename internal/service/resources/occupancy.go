package resources

import (
	"sort"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/interval"
)

// ComputeOccupiedIntervals вычисляет исчерпанные интервалы каждого ресурса.
//
// Для каждого ресурса собираются записи, подпадающие под его привязки
// (отсутствующее измерение матчится безусловно), считается занятость по дням,
// и интервалы, где ёмкость исчерпана, помечаются как занятые:
//   - ресурс с подсчётом участников: occupancy + personsCount > quantity;
//   - ресурс с подсчётом бронирований: occupancy >= quantity.
//
// Побочный эффект: записи, внёсшие вклад в занятый интервал группового
// ресурса, получают флаг Full. Стыкующиеся занятые интервалы склеиваются.
// Переподписка - это данные, а не ошибка.
func ComputeOccupiedIntervals(
	resources []*domain.Resource,
	appointments []*domain.Appointment,
	personsCount int,
	excludeCustomerID *int64,
) OccupancyByResource {
	result := make(OccupancyByResource)

	byID := make(map[int64]*domain.Appointment, len(appointments))
	for _, a := range appointments {
		if a.ID != 0 {
			byID[a.ID] = a
		}
	}

	for idx, resource := range resources {
		occupancy := computeResourceOccupancy(resource, appointments, personsCount, excludeCustomerID, byID)
		if len(occupancy) > 0 {
			result[idx] = occupancy
		}
	}

	return result
}

func computeResourceOccupancy(
	resource *domain.Resource,
	appointments []*domain.Appointment,
	personsCount int,
	excludeCustomerID *int64,
	byID map[int64]*domain.Appointment,
) ResourceOccupancy {
	// Группируем подходящие записи по дням, в порядке входа
	entriesByDay := make(map[string][]interval.Entry)
	var dayOrder []string

	for _, a := range appointments {
		if !a.IsActive() || !resource.Matches(a) {
			continue
		}

		persons := effectivePersons(a, excludeCustomerID)
		if resource.CountAdditionalPeople && persons == 0 {
			continue
		}

		start, end := a.DaySeconds()
		day := a.DayKey()
		if _, ok := entriesByDay[day]; !ok {
			dayOrder = append(dayOrder, day)
		}
		entriesByDay[day] = append(entriesByDay[day], interval.Entry{
			Interval:      interval.New(start, end),
			Persons:       persons,
			AppointmentID: a.ID,
		})
	}

	occupancy := make(ResourceOccupancy)
	for _, day := range dayOrder {
		segments := interval.AccumulateOccupancy(entriesByDay[day], resource.CountAdditionalPeople)

		var occupied []OccupiedInterval
		for _, seg := range segments {
			if !isExhausted(resource, seg.Count, personsCount) {
				continue
			}
			occupied = append(occupied, OccupiedInterval{
				Interval:       seg.Interval,
				AppointmentIDs: seg.AppointmentIDs,
			})

			// Записи в занятом интервале группового ресурса помечаются full
			if resource.CountAdditionalPeople {
				for _, id := range seg.AppointmentIDs {
					if a, ok := byID[id]; ok {
						a.Full = true
					}
				}
			}
		}

		if len(occupied) > 0 {
			occupancy[day] = mergeOccupied(occupied)
		}
	}

	if len(occupancy) == 0 {
		return nil
	}
	return occupancy
}

// isExhausted проверяет, исчерпана ли ёмкость ресурса на полосе с занятостью count
func isExhausted(resource *domain.Resource, count, personsCount int) bool {
	if resource.CountAdditionalPeople {
		return count+personsCount > resource.Quantity
	}
	return count >= resource.Quantity
}

// effectivePersons число участников записи без участников исключаемого клиента
func effectivePersons(a *domain.Appointment, excludeCustomerID *int64) int {
	if excludeCustomerID == nil {
		return a.TotalPersons()
	}

	total := 0
	for _, b := range a.Bookings {
		if !b.IsActive() || b.CustomerID == *excludeCustomerID {
			continue
		}
		total += b.Persons
	}
	return total
}

// mergeOccupied склеивает стыкующиеся занятые интервалы, объединяя источники
func mergeOccupied(occupied []OccupiedInterval) []OccupiedInterval {
	sort.SliceStable(occupied, func(i, j int) bool {
		return occupied[i].Interval.Start < occupied[j].Interval.Start
	})

	merged := make([]OccupiedInterval, 0, len(occupied))
	current := occupied[0]

	for _, next := range occupied[1:] {
		if next.Interval.Start <= current.Interval.End {
			if next.Interval.End > current.Interval.End {
				current.Interval.End = next.Interval.End
			}
			current.AppointmentIDs = appendUniqueIDs(current.AppointmentIDs, next.AppointmentIDs)
			continue
		}
		merged = append(merged, current)
		current = next
	}

	return append(merged, current)
}

func appendUniqueIDs(existing []int64, incoming []int64) []int64 {
	seen := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}
	for _, id := range incoming {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		existing = append(existing, id)
	}
	return existing
}
