package dashboard

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// DefaultRangeDays is the window used when from/to are omitted.
const DefaultRangeDays = 30

type DashboardFilter struct {
	From string `json:"from"`
	To   string `json:"to"`

	FromDate time.Time `json:"-"`
	ToDate   time.Time `json:"-"`
}

// Validate parses the range; to defaults to today and from to 30 days before to.
func (f *DashboardFilter) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	f.ToDate = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if f.To != "" {
		if d, ok := validator.IsValidDate(f.To); ok {
			f.ToDate = d
		} else {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		}
	}
	f.FromDate = f.ToDate.AddDate(0, 0, -(DefaultRangeDays - 1))
	if f.From != "" {
		if d, ok := validator.IsValidDate(f.From); ok {
			f.FromDate = d
		} else {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) == 0 && f.ToDate.Before(f.FromDate) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}
	if len(errs) == 0 && f.ToDate.Sub(f.FromDate) > 366*24*time.Hour {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "range must not exceed one year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DashboardResponse is the combined response for the dashboard endpoint
type DashboardResponse struct {
	From            string                 `json:"from"`
	To              string                 `json:"to"`
	Summary         SummaryResponse        `json:"summary"`
	RoleEfficiency  RoleEfficiencyResponse `json:"role_efficiency"`
	DailyThroughput []DailyThroughputItem  `json:"daily_throughput"`
	TopPerformers   []TopPerformerItem     `json:"top_performers"`
	Windows         WindowActivityResponse `json:"windows"`
}

type SummaryResponse struct {
	TotalSchedules     int64   `json:"total_schedules"`
	CompletedSchedules int64   `json:"completed_schedules"`
	TotalPackages      int64   `json:"total_packages"`
	CompletedPackages  int64   `json:"completed_packages"`
	CompletionRate     float64 `json:"completion_rate"` // percent, 2 decimals
	ActiveEmployees    int64   `json:"active_employees"`
}

// RoleEfficiencyResponse holds round(average(packages_handled) / 5) per task.
type RoleEfficiencyResponse struct {
	Inductor    int64 `json:"inductor"`
	Stower      int64 `json:"stower"`
	Downstacker int64 `json:"downstacker"`
}

type DailyThroughputItem struct {
	Date              string `json:"date"` // YYYY-MM-DD
	TotalPackages     int64  `json:"total_packages"`
	CompletedPackages int64  `json:"completed_packages"`
	PackagesHandled   int64  `json:"packages_handled"`
}

type TopPerformerItem struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	Name         string  `json:"name"`
	Shifts       int64   `json:"shifts"`
	AvgPackages  float64 `json:"avg_packages"`
	Efficiency   float64 `json:"efficiency"`
}

type WindowActivityResponse struct {
	VETOpened int64 `json:"vet_opened"`
	VTOOpened int64 `json:"vto_opened"`
	VETFilled int64 `json:"vet_filled"` // VETs closed with a remaining target at or below the threshold
}
