package interval

import "sort"

// Entry одна занятая полоса времени с весом и ссылкой на источник
type Entry struct {
	Interval Interval
	// Persons число участников; учитывается при groupCounts == true,
	// иначе полоса весит ровно 1
	Persons int
	// AppointmentID идентификатор записи-источника (для пометки full)
	AppointmentID int64
}

// Segment результирующая полоса разбиения с суммарной занятостью
type Segment struct {
	Interval Interval
	// Count суммарная занятость: сумма Persons (или единиц) всех записей,
	// накрывающих эту полосу
	Count int
	// AppointmentIDs записи, внёсшие вклад, в порядке входного списка
	AppointmentIDs []int64
}

// AccumulateOccupancy разбивает объединение входных интервалов на
// непересекающиеся полосы и для каждой считает суммарную занятость.
//
// Свойства результата:
//   - полосы не пересекаются и точно покрывают объединение входа;
//   - Count полосы равен сумме вкладов всех накрывающих её записей;
//   - результат детерминирован: записи обрабатываются в порядке входа,
//     при равных интервалах метаданные первой записи идут первыми.
//
// Соседние полосы с одинаковой занятостью и одинаковым набором источников
// склеиваются.
func AccumulateOccupancy(entries []Entry, groupCounts bool) []Segment {
	if len(entries) == 0 {
		return nil
	}

	// Собираем все границы входных интервалов
	boundarySet := make(map[int]struct{}, len(entries)*2)
	for _, e := range entries {
		if e.Interval.IsEmpty() {
			continue
		}
		boundarySet[e.Interval.Start] = struct{}{}
		boundarySet[e.Interval.End] = struct{}{}
	}
	if len(boundarySet) == 0 {
		return nil
	}

	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	// Для каждой элементарной полосы суммируем вклад накрывающих записей
	segments := make([]Segment, 0, len(boundaries)-1)
	for idx := 0; idx < len(boundaries)-1; idx++ {
		piece := Interval{Start: boundaries[idx], End: boundaries[idx+1]}

		count := 0
		var contributors []int64
		for _, e := range entries {
			if e.Interval.IsEmpty() || !e.Interval.Overlaps(piece) {
				continue
			}
			if groupCounts {
				count += e.Persons
			} else {
				count++
			}
			contributors = append(contributors, e.AppointmentID)
		}

		if count == 0 {
			continue
		}

		segments = append(segments, Segment{
			Interval:       piece,
			Count:          count,
			AppointmentIDs: contributors,
		})
	}

	return coalesceSegments(segments)
}

// coalesceSegments склеивает стыкующиеся полосы с одинаковой занятостью
// и одинаковым набором источников
func coalesceSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}

	merged := make([]Segment, 0, len(segments))
	current := segments[0]

	for _, next := range segments[1:] {
		if next.Interval.Start == current.Interval.End &&
			next.Count == current.Count &&
			sameContributors(current.AppointmentIDs, next.AppointmentIDs) {
			current.Interval.End = next.Interval.End
			continue
		}
		merged = append(merged, current)
		current = next
	}

	return append(merged, current)
}

func sameContributors(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
