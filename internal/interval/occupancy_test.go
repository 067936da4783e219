package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulateOccupancy_SplitsOverlapIntoSegments(t *testing.T) {
	// Две записи: 10:00-11:00 (2 чел) и 10:30-11:30 (3 чел)
	entries := []Entry{
		{Interval: Interval{36000, 39600}, Persons: 2, AppointmentID: 1},
		{Interval: Interval{37800, 41400}, Persons: 3, AppointmentID: 2},
	}

	segments := AccumulateOccupancy(entries, true)

	require.Len(t, segments, 3)

	assert.Equal(t, Interval{36000, 37800}, segments[0].Interval)
	assert.Equal(t, 2, segments[0].Count)
	assert.Equal(t, []int64{1}, segments[0].AppointmentIDs)

	assert.Equal(t, Interval{37800, 39600}, segments[1].Interval)
	assert.Equal(t, 5, segments[1].Count)
	assert.Equal(t, []int64{1, 2}, segments[1].AppointmentIDs)

	assert.Equal(t, Interval{39600, 41400}, segments[2].Interval)
	assert.Equal(t, 3, segments[2].Count)
	assert.Equal(t, []int64{2}, segments[2].AppointmentIDs)
}

func TestAccumulateOccupancy_FlatCountPerBooking(t *testing.T) {
	// При groupCounts == false каждая запись весит 1 независимо от числа участников
	entries := []Entry{
		{Interval: Interval{36000, 39600}, Persons: 10, AppointmentID: 1},
		{Interval: Interval{36000, 39600}, Persons: 7, AppointmentID: 2},
	}

	segments := AccumulateOccupancy(entries, false)

	require.Len(t, segments, 1)
	assert.Equal(t, 2, segments[0].Count)
}

// Свойство сохранения занятости: полосы не пересекаются, точно покрывают
// объединение входа, и занятость каждой полосы равна сумме вкладов
// накрывающих её записей.
func TestAccumulateOccupancy_ConservationProperty(t *testing.T) {
	entries := []Entry{
		{Interval: Interval{3600, 18000}, Persons: 1, AppointmentID: 10},
		{Interval: Interval{7200, 10800}, Persons: 4, AppointmentID: 11},
		{Interval: Interval{9000, 25200}, Persons: 2, AppointmentID: 12},
		{Interval: Interval{28800, 32400}, Persons: 5, AppointmentID: 13},
	}

	segments := AccumulateOccupancy(entries, true)
	require.NotEmpty(t, segments)

	totalLength := 0
	for i, seg := range segments {
		// Полосы упорядочены и не пересекаются
		if i > 0 {
			assert.GreaterOrEqual(t, seg.Interval.Start, segments[i-1].Interval.End)
		}
		totalLength += seg.Interval.Length()

		// Занятость полосы равна сумме вкладов накрывающих записей
		expected := 0
		for _, e := range entries {
			if e.Interval.Overlaps(seg.Interval) {
				expected += e.Persons
			}
		}
		assert.Equal(t, expected, seg.Count, "segment %d [%d,%d)", i, seg.Interval.Start, seg.Interval.End)
	}

	// Полосы точно покрывают объединение входа
	union := MergeAdjacent([]Interval{
		{3600, 18000}, {7200, 10800}, {9000, 25200}, {28800, 32400},
	})
	unionLength := 0
	for _, u := range union {
		unionLength += u.Length()
	}
	assert.Equal(t, unionLength, totalLength)
}

func TestAccumulateOccupancy_DeterministicForEqualIntervals(t *testing.T) {
	// При одинаковых интервалах метаданные идут в порядке входного списка
	entries := []Entry{
		{Interval: Interval{36000, 39600}, Persons: 1, AppointmentID: 7},
		{Interval: Interval{36000, 39600}, Persons: 1, AppointmentID: 3},
	}

	segments := AccumulateOccupancy(entries, true)

	require.Len(t, segments, 1)
	assert.Equal(t, []int64{7, 3}, segments[0].AppointmentIDs)
}

func TestAccumulateOccupancy_EmptyAndDegenerateInput(t *testing.T) {
	assert.Nil(t, AccumulateOccupancy(nil, true))

	segments := AccumulateOccupancy([]Entry{
		{Interval: Interval{3600, 3600}, Persons: 2, AppointmentID: 1},
	}, true)
	assert.Nil(t, segments)
}

func TestAccumulateOccupancy_AdjacentEqualSegmentsCoalesce(t *testing.T) {
	// Одна запись, разрезанная границей второй, которая не пересекается,
	// не должна дробиться в результате
	entries := []Entry{
		{Interval: Interval{3600, 10800}, Persons: 1, AppointmentID: 1},
		{Interval: Interval{10800, 14400}, Persons: 1, AppointmentID: 2},
	}

	segments := AccumulateOccupancy(entries, true)

	require.Len(t, segments, 2)
	assert.Equal(t, Interval{3600, 10800}, segments[0].Interval)
	assert.Equal(t, Interval{10800, 14400}, segments[1].Interval)
}
