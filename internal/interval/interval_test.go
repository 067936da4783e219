package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MidnightEndMeansEndOfDay(t *testing.T) {
	i := New(82800, 0) // 23:00 - 00:00

	assert.Equal(t, 82800, i.Start)
	assert.Equal(t, 86400, i.End)
	assert.Equal(t, 3600, i.Length())
}

func TestOverlaps_TouchingIsNotOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"real overlap", Interval{3600, 7200}, Interval{5400, 9000}, true},
		{"touching end-start", Interval{3600, 7200}, Interval{7200, 9000}, false},
		{"touching start-end", Interval{7200, 9000}, Interval{3600, 7200}, false},
		{"disjoint", Interval{0, 3600}, Interval{7200, 9000}, false},
		{"contained", Interval{0, 9000}, Interval{3600, 7200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestClip_FourCases(t *testing.T) {
	free := Interval{Start: 32400, End: 61200} // 09:00 - 17:00

	tests := []struct {
		name    string
		busy    Interval
		want    Interval
		overlap bool
	}{
		{"fully inside", Interval{36000, 39600}, Interval{36000, 39600}, true},
		{"overlapping start", Interval{28800, 36000}, Interval{32400, 36000}, true},
		{"overlapping end", Interval{59400, 64800}, Interval{59400, 61200}, true},
		{"fully straddling", Interval{28800, 64800}, Interval{32400, 61200}, true},
		{"before window", Interval{0, 32400}, Interval{}, false},
		{"after window", Interval{61200, 86400}, Interval{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := free.Clip(tt.busy)
			require.Equal(t, tt.overlap, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIntersect_PreservesInputOrder(t *testing.T) {
	free := Interval{Start: 32400, End: 61200}
	busy := []Interval{
		{59400, 64800},
		{36000, 39600},
		{0, 3600},
	}

	got := Intersect(free, busy)

	require.Len(t, got, 2)
	assert.Equal(t, Interval{59400, 61200}, got[0])
	assert.Equal(t, Interval{36000, 39600}, got[1])
}

func TestMergeAdjacent(t *testing.T) {
	tests := []struct {
		name  string
		input []Interval
		want  []Interval
	}{
		{
			"empty", nil, nil,
		},
		{
			"touching run collapses",
			[]Interval{{3600, 7200}, {7200, 10800}, {10800, 14400}},
			[]Interval{{3600, 14400}},
		},
		{
			"gap preserved",
			[]Interval{{3600, 7200}, {10800, 14400}},
			[]Interval{{3600, 7200}, {10800, 14400}},
		},
		{
			"overlap collapses keeping max end",
			[]Interval{{3600, 9000}, {7200, 7800}},
			[]Interval{{3600, 9000}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeAdjacent(tt.input))
		})
	}
}
