package performance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// CSV column headers, matched case-insensitively.
const (
	ColumnDate            = "date"
	ColumnDay             = "day"
	ColumnEmployeeID      = "employee id"
	ColumnRole            = "role"
	ColumnPackagesHandled = "packages handled"
	ColumnTotalPackages   = "total packages"
	ColumnWorkingHours    = "working_hours"
)

var requiredColumns = []string{
	ColumnDate,
	ColumnEmployeeID,
	ColumnRole,
	ColumnPackagesHandled,
	ColumnTotalPackages,
}

// ImportRow is a validated CSV line. Row is the 1-based line number in the file.
type ImportRow struct {
	Row             int
	Date            time.Time
	EmployeeCode    string
	Task            employee.Task
	PackagesHandled int
	TotalPackages   int
	WorkingHours    float64
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseCSV reads a performance export. Rows that fail validation are returned
// as RowErrors; a missing header or unreadable file is an error.
func ParseCSV(r io.Reader) ([]ImportRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[key] = i
	}
	// "Working Hours" is accepted as well as working_hours.
	if _, ok := index[ColumnWorkingHours]; !ok {
		if i, ok := index["working hours"]; ok {
			index[ColumnWorkingHours] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []ImportRow
	var rowErrs []RowError
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: line, Message: err.Error()})
			continue
		}
		if isBlank(record) {
			continue
		}

		row, msg := parseRow(record, index)
		if msg != "" {
			rowErrs = append(rowErrs, RowError{Row: line, Message: msg})
			continue
		}
		row.Row = line
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func parseRow(record []string, index map[string]int) (ImportRow, string) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var row ImportRow

	date, ok := validator.ParseUSDate(get(ColumnDate))
	if !ok {
		return row, "Date must be in MM/DD/YYYY format"
	}
	row.Date = date

	row.EmployeeCode = get(ColumnEmployeeID)
	if row.EmployeeCode == "" {
		return row, "Employee ID is required"
	}

	task, ok := employee.ParseTask(get(ColumnRole))
	if !ok {
		return row, "Role must be one of Inductor, Stower, Downstacker"
	}
	row.Task = task

	handled, err := strconv.Atoi(get(ColumnPackagesHandled))
	if err != nil || handled < 0 {
		return row, "Packages Handled must be a non-negative whole number"
	}
	row.PackagesHandled = handled

	total, err := strconv.Atoi(get(ColumnTotalPackages))
	if err != nil || total < 0 {
		return row, "Total Packages must be a non-negative whole number"
	}
	row.TotalPackages = total

	row.WorkingHours = StandardShiftHours
	if raw := get(ColumnWorkingHours); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours < 0 {
			return row, "working_hours must be a non-negative number"
		}
		row.WorkingHours = hours
	}

	return row, ""
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
