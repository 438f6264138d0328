package employee

import (
	"strings"
	"time"
)

type Employee struct {
	ID                    string
	OrganizationID        string
	EmployeeCode          string
	Name                  string
	Email                 *string
	Type                  Type
	WorkDays              []int // ISO weekdays, 1=Monday ... 7=Sunday; FIXED only
	InductorEfficiency    float64
	StowerEfficiency      float64
	DownstackerEfficiency float64
	AverageEfficiency     float64
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Type string

const (
	TypeFixed Type = "FIXED"
	TypeFlex  Type = "FLEX"
)

var TypeValues = []string{
	string(TypeFixed),
	string(TypeFlex),
}

// Task is the warehouse role an employee is allocated to on a schedule.
type Task string

const (
	TaskInductor    Task = "INDUCTOR"
	TaskStower      Task = "STOWER"
	TaskDownstacker Task = "DOWNSTACKER"
)

var TaskValues = []string{
	string(TaskInductor),
	string(TaskStower),
	string(TaskDownstacker),
}

// ParseTask accepts the enum value or the CSV role spelling ("Inductor").
func ParseTask(s string) (Task, bool) {
	switch Task(strings.ToUpper(strings.TrimSpace(s))) {
	case TaskInductor:
		return TaskInductor, true
	case TaskStower:
		return TaskStower, true
	case TaskDownstacker:
		return TaskDownstacker, true
	}
	return "", false
}

// EfficiencyFor returns the stored packages-per-hour rate for a task.
func (e Employee) EfficiencyFor(t Task) float64 {
	switch t {
	case TaskInductor:
		return e.InductorEfficiency
	case TaskStower:
		return e.StowerEfficiency
	case TaskDownstacker:
		return e.DownstackerEfficiency
	}
	return 0
}

// WorksOn reports whether a FIXED employee is rostered on the ISO weekday.
func (e Employee) WorksOn(weekday int) bool {
	if e.Type != TypeFixed {
		return false
	}
	for _, d := range e.WorkDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// Efficiencies holds the recomputed scalars written back after an import.
type Efficiencies struct {
	Inductor    float64
	Stower      float64
	Downstacker float64
	Average     float64
}

// AverageOf returns the mean of the non-zero task efficiencies.
func AverageOf(inductor, stower, downstacker float64) float64 {
	var sum float64
	var n int
	for _, v := range []float64{inductor, stower, downstacker} {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
