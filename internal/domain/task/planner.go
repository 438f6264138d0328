package task

import (
	"sort"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
)

// SplitHeadcount derives the slot counts for n scheduled employees:
// one inductor, roughly one downstacker per four remaining people (at least
// one while anyone remains) and stowers for the rest.
func SplitHeadcount(n int) Headcount {
	if n <= 0 {
		return Headcount{}
	}
	remaining := n - 1
	if remaining == 0 {
		return Headcount{Inductor: 1}
	}

	downstackers := ceilDiv(remaining-1, 4)
	if downstackers < 1 {
		downstackers = 1
	}
	return Headcount{
		Inductor:    1,
		Downstacker: downstackers,
		Stower:      remaining - downstackers,
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// BuildPlans returns the HIGH, MEDIUM and LOW plans for the candidates.
// Each plan places every candidate exactly once.
func BuildPlans(candidates []Candidate) []Plan {
	hc := SplitHeadcount(len(candidates))
	return []Plan{
		buildPlan(TierHigh, candidates, hc),
		buildPlan(TierMedium, candidates, hc),
		buildPlan(TierLow, candidates, hc),
	}
}

// BuildPlan returns a single tier.
func BuildPlan(tier Tier, candidates []Candidate) Plan {
	return buildPlan(tier, candidates, SplitHeadcount(len(candidates)))
}

func buildPlan(tier Tier, candidates []Candidate, hc Headcount) Plan {
	pool := append([]Candidate(nil), candidates...)

	inductors, pool := pick(tier, pool, employee.TaskInductor, hc.Inductor)
	downstackers, pool := pick(tier, pool, employee.TaskDownstacker, hc.Downstacker)
	stowers := sortByEfficiency(pool, employee.TaskStower)

	return Plan{
		Tier:         tier,
		Inductor:     toEntries(inductors, employee.TaskInductor),
		Downstackers: toEntries(downstackers, employee.TaskDownstacker),
		Stowers:      toEntries(stowers, employee.TaskStower),
	}
}

// pick sorts pool by the task efficiency and takes count candidates from the
// window the tier selects. It returns the picked candidates and the rest.
func pick(tier Tier, pool []Candidate, t employee.Task, count int) ([]Candidate, []Candidate) {
	sorted := sortByEfficiency(pool, t)
	if count > len(sorted) {
		count = len(sorted)
	}
	if count <= 0 {
		return []Candidate{}, sorted
	}

	var start int
	switch tier {
	case TierMedium:
		start = (len(sorted) - count) / 2
	case TierLow:
		start = len(sorted) - count
	default:
		start = 0
	}

	picked := append([]Candidate(nil), sorted[start:start+count]...)
	rest := make([]Candidate, 0, len(sorted)-count)
	rest = append(rest, sorted[:start]...)
	rest = append(rest, sorted[start+count:]...)
	return picked, rest
}

// sortByEfficiency orders by efficiency descending, then name, then id.
func sortByEfficiency(pool []Candidate, t employee.Task) []Candidate {
	sorted := append([]Candidate(nil), pool...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := sorted[i].efficiencyFor(t), sorted[j].efficiencyFor(t)
		if ei != ej {
			return ei > ej
		}
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].EmployeeID < sorted[j].EmployeeID
	})
	return sorted
}

func toEntries(cs []Candidate, t employee.Task) []PlanEntry {
	entries := make([]PlanEntry, 0, len(cs))
	for _, c := range cs {
		entries = append(entries, PlanEntry{
			EmployeeID:            c.EmployeeID,
			Name:                  c.Name,
			Efficiency:            c.efficiencyFor(t),
			TimesWorkedLast30Days: c.TimesWorkedLast30Days,
		})
	}
	return entries
}
