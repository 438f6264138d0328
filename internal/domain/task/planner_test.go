package task

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHeadcount(t *testing.T) {
	tests := []struct {
		n    int
		want Headcount
	}{
		{0, Headcount{}},
		{1, Headcount{Inductor: 1}},
		{2, Headcount{Inductor: 1, Downstacker: 1}},
		{3, Headcount{Inductor: 1, Downstacker: 1, Stower: 1}},
		{6, Headcount{Inductor: 1, Downstacker: 1, Stower: 4}},
		{7, Headcount{Inductor: 1, Downstacker: 2, Stower: 4}},
		{10, Headcount{Inductor: 1, Downstacker: 2, Stower: 7}},
		{11, Headcount{Inductor: 1, Downstacker: 3, Stower: 7}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			got := SplitHeadcount(tt.n)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.n, got.Inductor+got.Downstacker+got.Stower)
		})
	}
}

func candidates(n int) []Candidate {
	cs := make([]Candidate, 0, n)
	for i := 0; i < n; i++ {
		cs = append(cs, Candidate{
			EmployeeID:            fmt.Sprintf("emp-%02d", i),
			Name:                  fmt.Sprintf("Employee %02d", i),
			InductorEfficiency:    float64((i*7)%11 + 10),
			StowerEfficiency:      float64((i*5)%13 + 10),
			DownstackerEfficiency: float64((i*3)%7 + 10),
		})
	}
	return cs
}

func TestBuildPlans_Partition(t *testing.T) {
	for n := 2; n <= 25; n++ {
		input := candidates(n)
		plans := BuildPlans(input)
		require.Len(t, plans, 3)

		hc := SplitHeadcount(n)
		for _, p := range plans {
			seen := map[string]int{}
			for _, group := range [][]PlanEntry{p.Inductor, p.Downstackers, p.Stowers} {
				for _, e := range group {
					seen[e.EmployeeID]++
				}
			}
			assert.Len(t, seen, n, "tier %s n=%d", p.Tier, n)
			for _, c := range input {
				assert.Equal(t, 1, seen[c.EmployeeID], "tier %s n=%d employee %s", p.Tier, n, c.EmployeeID)
			}
			assert.Len(t, p.Inductor, hc.Inductor)
			assert.Len(t, p.Downstackers, hc.Downstacker)
			assert.Len(t, p.Stowers, hc.Stower)
		}
	}
}

func TestBuildPlans_TierWindows(t *testing.T) {
	input := []Candidate{
		{EmployeeID: "a", Name: "Ann", InductorEfficiency: 50, DownstackerEfficiency: 10, StowerEfficiency: 10},
		{EmployeeID: "b", Name: "Ben", InductorEfficiency: 40, DownstackerEfficiency: 30, StowerEfficiency: 10},
		{EmployeeID: "c", Name: "Cid", InductorEfficiency: 30, DownstackerEfficiency: 20, StowerEfficiency: 10},
		{EmployeeID: "d", Name: "Dee", InductorEfficiency: 20, DownstackerEfficiency: 40, StowerEfficiency: 10},
		{EmployeeID: "e", Name: "Eve", InductorEfficiency: 10, DownstackerEfficiency: 50, StowerEfficiency: 10},
	}

	high := BuildPlan(TierHigh, input)
	assert.Equal(t, "a", high.Inductor[0].EmployeeID)
	assert.Equal(t, "e", high.Downstackers[0].EmployeeID)
	assert.Equal(t, 50.0, high.Inductor[0].Efficiency)

	medium := BuildPlan(TierMedium, input)
	// inductor sorted: a b c d e, start (5-1)/2 = 2
	assert.Equal(t, "c", medium.Inductor[0].EmployeeID)
	// downstacker pool sorted: e d b a, start (4-1)/2 = 1
	assert.Equal(t, "d", medium.Downstackers[0].EmployeeID)

	low := BuildPlan(TierLow, input)
	assert.Equal(t, "e", low.Inductor[0].EmployeeID)
	// downstacker pool sorted: d b c a
	assert.Equal(t, "a", low.Downstackers[0].EmployeeID)
}

func TestBuildPlans_TieBreakIsDeterministic(t *testing.T) {
	input := []Candidate{
		{EmployeeID: "2", Name: "Zed", InductorEfficiency: 20},
		{EmployeeID: "1", Name: "Amy", InductorEfficiency: 20},
		{EmployeeID: "3", Name: "Amy", InductorEfficiency: 20},
	}

	plan := BuildPlan(TierHigh, input)
	assert.Equal(t, "1", plan.Inductor[0].EmployeeID)

	again := BuildPlan(TierHigh, []Candidate{input[2], input[0], input[1]})
	assert.Equal(t, plan, again)
}

func TestBuildPlans_Empty(t *testing.T) {
	plans := BuildPlans(nil)
	require.Len(t, plans, 3)
	for _, p := range plans {
		assert.Zero(t, p.Size())
		assert.NotNil(t, p.Inductor)
		assert.NotNil(t, p.Stowers)
	}
}

func TestPlan_Allocation(t *testing.T) {
	plan := BuildPlan(TierHigh, candidates(6))
	alloc := plan.Allocation()
	assert.Len(t, alloc, 6)
	assert.Equal(t, plan.Size(), len(alloc))
}
