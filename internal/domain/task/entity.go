package task

import "github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"

type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

var TierValues = []string{
	string(TierHigh),
	string(TierMedium),
	string(TierLow),
}

// Candidate is a scheduled employee as seen by the planner.
type Candidate struct {
	EmployeeID            string
	Name                  string
	InductorEfficiency    float64
	StowerEfficiency      float64
	DownstackerEfficiency float64
	TimesWorkedLast30Days int
}

func (c Candidate) efficiencyFor(t employee.Task) float64 {
	switch t {
	case employee.TaskInductor:
		return c.InductorEfficiency
	case employee.TaskDownstacker:
		return c.DownstackerEfficiency
	}
	return c.StowerEfficiency
}

// Headcount is the number of slots per task for a schedule.
type Headcount struct {
	Inductor    int `json:"inductor"`
	Downstacker int `json:"downstacker"`
	Stower      int `json:"stower"`
}

type PlanEntry struct {
	EmployeeID            string  `json:"employee_id"`
	Name                  string  `json:"name"`
	Efficiency            float64 `json:"efficiency"`
	TimesWorkedLast30Days int     `json:"times_worked_last_30_days"`
}

type Plan struct {
	Tier         Tier        `json:"tier"`
	Inductor     []PlanEntry `json:"inductor"`
	Downstackers []PlanEntry `json:"downstackers"`
	Stowers      []PlanEntry `json:"stowers"`
}

// Allocation flattens the plan into employee id -> task.
func (p Plan) Allocation() map[string]employee.Task {
	out := make(map[string]employee.Task, len(p.Inductor)+len(p.Downstackers)+len(p.Stowers))
	for _, e := range p.Inductor {
		out[e.EmployeeID] = employee.TaskInductor
	}
	for _, e := range p.Downstackers {
		out[e.EmployeeID] = employee.TaskDownstacker
	}
	for _, e := range p.Stowers {
		out[e.EmployeeID] = employee.TaskStower
	}
	return out
}

// Size is the number of employees placed by the plan.
func (p Plan) Size() int {
	return len(p.Inductor) + len(p.Downstackers) + len(p.Stowers)
}

// PlanCacheKey is the cache key of the generated plans for a schedule.
func PlanCacheKey(scheduleID string) string {
	return "workforce-plans:" + scheduleID
}
