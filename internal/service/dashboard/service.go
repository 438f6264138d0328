package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const topPerformerLimit = 10

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		now:                 time.Now,
	}
}

// roleEfficiency is round(sum / records / StandardShiftHours), zero without records.
func roleEfficiency(tp dashboard.TaskPackages) int64 {
	if tp.Records == 0 {
		return 0
	}
	return decimal.NewFromInt(tp.Sum).
		Div(decimal.NewFromInt(tp.Records)).
		Div(decimal.NewFromInt(performance.StandardShiftHours)).
		Round(0).
		IntPart()
}

// GetDashboard returns combined dashboard data using parallel goroutines,
// one query each.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, filter dashboard.DashboardFilter) (*dashboard.DashboardResponse, error) {
	if err := filter.Validate(s.now()); err != nil {
		return nil, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	from, to := filter.FromDate, filter.ToDate

	var (
		summary        dashboard.SummaryResponse
		roles          dashboard.RoleEfficiencyResponse
		throughput     []dashboard.DailyThroughputItem
		topPerformers  []dashboard.TopPerformerItem
		windowActivity dashboard.WindowActivityResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Schedule and package totals
	g.Go(func() error {
		stats, err := s.GetScheduleSummary(gCtx, orgID, from, to)
		if err != nil {
			return fmt.Errorf("failed to get schedule summary: %w", err)
		}
		var rate float64
		if stats.TotalPackages > 0 {
			rate = decimal.NewFromInt(stats.CompletedPackages).
				Div(decimal.NewFromInt(stats.TotalPackages)).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
		}
		summary = dashboard.SummaryResponse{
			TotalSchedules:     stats.TotalSchedules,
			CompletedSchedules: stats.CompletedSchedules,
			TotalPackages:      stats.TotalPackages,
			CompletedPackages:  stats.CompletedPackages,
			CompletionRate:     rate,
			ActiveEmployees:    stats.ActiveEmployees,
		}
		return nil
	})

	// 2. Per-role efficiency
	g.Go(func() error {
		rows, err := s.GetTaskPackages(gCtx, orgID, from, to)
		if err != nil {
			return fmt.Errorf("failed to get task packages: %w", err)
		}
		for _, row := range rows {
			switch row.Task {
			case employee.TaskInductor:
				roles.Inductor = roleEfficiency(row)
			case employee.TaskStower:
				roles.Stower = roleEfficiency(row)
			case employee.TaskDownstacker:
				roles.Downstacker = roleEfficiency(row)
			}
		}
		return nil
	})

	// 3. Daily throughput series
	g.Go(func() error {
		rows, err := s.GetDailyThroughput(gCtx, orgID, from, to)
		if err != nil {
			return fmt.Errorf("failed to get daily throughput: %w", err)
		}
		throughput = make([]dashboard.DailyThroughputItem, 0, len(rows))
		for _, row := range rows {
			throughput = append(throughput, dashboard.DailyThroughputItem{
				Date:              row.Date.Format("2006-01-02"),
				TotalPackages:     row.TotalPackages,
				CompletedPackages: row.CompletedPackages,
				PackagesHandled:   row.PackagesHandled,
			})
		}
		return nil
	})

	// 4. Top performers
	g.Go(func() error {
		rows, err := s.GetTopPerformers(gCtx, orgID, from, to, topPerformerLimit)
		if err != nil {
			return fmt.Errorf("failed to get top performers: %w", err)
		}
		topPerformers = make([]dashboard.TopPerformerItem, 0, len(rows))
		for _, row := range rows {
			var avg, eff decimal.Decimal
			if row.Shifts > 0 {
				avg = decimal.NewFromInt(row.SumPackages).Div(decimal.NewFromInt(row.Shifts))
				eff = avg.Div(decimal.NewFromInt(performance.StandardShiftHours))
			}
			topPerformers = append(topPerformers, dashboard.TopPerformerItem{
				EmployeeID:   row.EmployeeID,
				EmployeeCode: row.EmployeeCode,
				Name:         row.Name,
				Shifts:       row.Shifts,
				AvgPackages:  avg.Round(2).InexactFloat64(),
				Efficiency:   eff.Round(2).InexactFloat64(),
			})
		}
		return nil
	})

	// 5. VET / VTO activity
	g.Go(func() error {
		stats, err := s.GetWindowActivity(gCtx, orgID, from, to)
		if err != nil {
			return fmt.Errorf("failed to get window activity: %w", err)
		}
		windowActivity = dashboard.WindowActivityResponse{
			VETOpened: stats.VETOpened,
			VTOOpened: stats.VTOOpened,
			VETFilled: stats.VETFilled,
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		From:            from.Format("2006-01-02"),
		To:              to.Format("2006-01-02"),
		Summary:         summary,
		RoleEfficiency:  roles,
		DailyThroughput: throughput,
		TopPerformers:   topPerformers,
		Windows:         windowActivity,
	}, nil
}
