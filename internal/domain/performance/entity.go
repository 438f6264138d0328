package performance

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// StandardShiftHours converts packages handled in a shift into packages per hour.
const StandardShiftHours = 5

// Record is one employee's output on one date. (employee_id, date) is unique.
type Record struct {
	ID              string
	OrganizationID  string
	EmployeeID      string
	Date            time.Time
	Task            employee.Task
	PackagesHandled int
	TotalPackages   int
	WorkingHours    float64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined from employees on reads.
	EmployeeCode string
	EmployeeName string
}

// EfficiencyOf returns average(packages) / StandardShiftHours rounded to two
// decimals, or zero for an empty input.
func EfficiencyOf(packages []int) float64 {
	return efficiencyDecimal(packages).Round(2).InexactFloat64()
}

// RoundedEfficiencyOf is EfficiencyOf rounded to a whole number, as shown on the dashboard.
func RoundedEfficiencyOf(packages []int) int64 {
	return efficiencyDecimal(packages).Round(0).IntPart()
}

func efficiencyDecimal(packages []int) decimal.Decimal {
	if len(packages) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range packages {
		sum = sum.Add(decimal.NewFromInt(int64(p)))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(packages))))
	return avg.Div(decimal.NewFromInt(StandardShiftHours))
}

// RecomputeEfficiencies derives an employee's per-task efficiencies from their
// records. Tasks without records score zero and are left out of the average.
func RecomputeEfficiencies(records []Record) employee.Efficiencies {
	byTask := map[employee.Task][]int{}
	for _, r := range records {
		byTask[r.Task] = append(byTask[r.Task], r.PackagesHandled)
	}

	eff := employee.Efficiencies{
		Inductor:    EfficiencyOf(byTask[employee.TaskInductor]),
		Stower:      EfficiencyOf(byTask[employee.TaskStower]),
		Downstacker: EfficiencyOf(byTask[employee.TaskDownstacker]),
	}
	avg := decimal.NewFromFloat(employee.AverageOf(eff.Inductor, eff.Stower, eff.Downstacker))
	eff.Average = avg.Round(2).InexactFloat64()
	return eff
}
