// Package interval чистая арифметика полуоткрытых интервалов [start, end)
// в секундах от полуночи одного календарного дня.
//
// Граничные случаи: конец 0 означает полночь следующего дня (86400);
// соприкасающиеся интервалы (end == start) пересечением не считаются.
package interval

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Interval полуоткрытый интервал [Start, End) в секундах от полуночи
type Interval struct {
	Start int
	End   int
}

// New создает интервал, нормализуя конец: 0 трактуется как конец дня
func New(start, end int) Interval {
	if end == 0 {
		end = domain.SecondsInDay
	}
	return Interval{Start: start, End: end}
}

// IsEmpty возвращает true для пустого или вырожденного интервала
func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

// Length возвращает длину интервала в секундах
func (i Interval) Length() int {
	if i.IsEmpty() {
		return 0
	}
	return i.End - i.Start
}

// Overlaps возвращает true при реальном пересечении интервалов
// Соприкосновение границами пересечением не считается
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Contains возвращает true, если точка t лежит внутри интервала
func (i Interval) Contains(t int) bool {
	return t >= i.Start && t < i.End
}

// Clip обрезает интервал o по границам свободного окна i.
// Возвращает только ту часть o, которая лежит внутри i, и признак,
// что пересечение непусто. Четыре случая: o целиком внутри, o пересекает
// начало, o пересекает конец, o целиком накрывает i.
func (i Interval) Clip(o Interval) (Interval, bool) {
	if !i.Overlaps(o) {
		return Interval{}, false
	}

	clipped := o
	if clipped.Start < i.Start {
		clipped.Start = i.Start
	}
	if clipped.End > i.End {
		clipped.End = i.End
	}
	return clipped, true
}

// Intersect возвращает части busy-интервалов, попадающие внутрь свободного окна
// Порядок результата повторяет порядок входа
func Intersect(free Interval, busy []Interval) []Interval {
	result := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if clipped, ok := free.Clip(b); ok {
			result = append(result, clipped)
		}
	}
	return result
}

// MergeAdjacent склеивает отсортированные по началу интервалы, когда конец
// одного достигает начала следующего (перекрытие или стык), сохраняя
// минимальное начало и максимальный конец
func MergeAdjacent(sorted []Interval) []Interval {
	if len(sorted) == 0 {
		return nil
	}

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]

	for _, next := range sorted[1:] {
		if next.Start <= current.End {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}

	return append(merged, current)
}
