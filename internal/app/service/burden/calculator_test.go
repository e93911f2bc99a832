package burden

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, calendar.Location)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func intPtr(v int) *int { return &v }

func TestDailyRate(t *testing.T) {
	rate := DailyRate(decimal.NewFromInt(150000))
	require.True(t, rate.Equal(decimal.NewFromInt(5000)), "got %s", rate)
}

func TestOverlap1_ActivationToInstallationGap(t *testing.T) {
	sim := &models.SimCard{
		MonthlyCost:      decimal.NewFromInt(150000),
		ActivationDate:   datePtr(2026, time.January, 1),
		InstallationDate: datePtr(2026, time.January, 5),
	}
	o := Overlap1(sim)
	require.Equal(t, 4, o.Days)
	require.True(t, o.Cost.Equal(decimal.NewFromInt(20000)), "got %s", o.Cost)
}

func TestOverlap1_ZeroCases(t *testing.T) {
	cases := []struct {
		name string
		sim  *models.SimCard
	}{
		{"no activation", &models.SimCard{
			MonthlyCost:      decimal.NewFromInt(150000),
			InstallationDate: datePtr(2026, time.January, 5),
		}},
		{"no installation", &models.SimCard{
			MonthlyCost:    decimal.NewFromInt(150000),
			ActivationDate: datePtr(2026, time.January, 1),
		}},
		{"same day install", &models.SimCard{
			MonthlyCost:      decimal.NewFromInt(150000),
			ActivationDate:   datePtr(2026, time.January, 5),
			InstallationDate: datePtr(2026, time.January, 5),
		}},
		{"install before activation", &models.SimCard{
			MonthlyCost:      decimal.NewFromInt(150000),
			ActivationDate:   datePtr(2026, time.January, 5),
			InstallationDate: datePtr(2026, time.January, 1),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Overlap1(tc.sim)
			require.Zero(t, o.Days)
			require.True(t, o.Cost.IsZero())
		})
	}
}

func TestOverlap2_DueDateInDeactivationMonth(t *testing.T) {
	// Cycle day 1, deactivated 2025-12-28: due 2025-12-01, 27 idle days.
	sim := &models.SimCard{
		MonthlyCost:      decimal.NewFromInt(150000),
		BillingCycleDay:  intPtr(1),
		DeactivationDate: datePtr(2025, time.December, 28),
	}
	o := Overlap2(sim)
	require.Equal(t, 27, o.Days)
	require.True(t, o.Cost.Equal(decimal.NewFromInt(135000)), "got %s", o.Cost)
}

func TestOverlap2_StepsBackAMonth(t *testing.T) {
	// Cycle day 30, deactivated 2026-01-10: Jan 30 is after the deactivation,
	// so the due date steps back to 2025-12-30.
	sim := &models.SimCard{
		MonthlyCost:      decimal.NewFromInt(90000),
		BillingCycleDay:  intPtr(30),
		DeactivationDate: datePtr(2026, time.January, 10),
	}
	due, ok := Overlap2DueDate(sim)
	require.True(t, ok)
	require.Equal(t, date(2025, time.December, 30), due)

	o := Overlap2(sim)
	require.Equal(t, 11, o.Days)
}

func TestOverlap2_ClampsCycleDayToMonthEnd(t *testing.T) {
	// Cycle day 31 in February resolves to Feb 28.
	sim := &models.SimCard{
		MonthlyCost:      decimal.NewFromInt(30000),
		BillingCycleDay:  intPtr(31),
		DeactivationDate: datePtr(2026, time.March, 5),
	}
	due, ok := Overlap2DueDate(sim)
	require.True(t, ok)
	require.Equal(t, date(2026, time.February, 28), due)
}

func TestOverlap2_ZeroWithoutDeactivationOrCycleDay(t *testing.T) {
	o := Overlap2(&models.SimCard{MonthlyCost: decimal.NewFromInt(150000)})
	require.True(t, o.Cost.IsZero())

	o = Overlap2(&models.SimCard{
		MonthlyCost:      decimal.NewFromInt(150000),
		DeactivationDate: datePtr(2026, time.January, 10),
	})
	require.True(t, o.Cost.IsZero())
}

func TestComputeDailyBurden_TotalIsExactSum(t *testing.T) {
	sim := &models.SimCard{
		MonthlyCost:      decimal.NewFromInt(150000),
		ActivationDate:   datePtr(2026, time.January, 1),
		InstallationDate: datePtr(2026, time.January, 5),
		BillingCycleDay:  intPtr(1),
		DeactivationDate: datePtr(2026, time.March, 10),
	}
	b := ComputeDailyBurden(sim)
	require.True(t, b.TotalBurden.Equal(b.Overlap1Cost.Add(b.Overlap2Cost)))
	require.True(t, b.TotalBurden.Equal(AccumulatedCost(sim)))
}

func TestComputeGracePeriodCost_OpenEndedUsesNow(t *testing.T) {
	sim := &models.SimCard{
		Status:               types.SimStatusGracePeriod,
		MonthlyCost:          decimal.NewFromInt(150000),
		GracePeriodStartDate: datePtr(2026, time.January, 1),
	}
	g := ComputeGracePeriodCost(sim, date(2026, time.January, 11))
	require.Equal(t, 10, g.Days)
	require.True(t, g.Cost.Equal(decimal.NewFromInt(50000)), "got %s", g.Cost)
	require.False(t, g.Overdue)
}

func TestComputeGracePeriodCost_OverdueFlagsButNeverClamps(t *testing.T) {
	sim := &models.SimCard{
		Status:               types.SimStatusGracePeriod,
		MonthlyCost:          decimal.NewFromInt(150000),
		GracePeriodStartDate: datePtr(2026, time.January, 1),
	}
	g := ComputeGracePeriodCost(sim, date(2026, time.February, 10))
	require.Equal(t, 40, g.Days)
	require.True(t, g.Overdue)
	require.Equal(t, 10, g.DaysOverdue)
	// 40 full days keep accruing past the 30-day ceiling.
	require.True(t, g.Cost.Equal(decimal.NewFromInt(200000)), "got %s", g.Cost)
}

func TestComputeGracePeriodCost_FallsBackToInstallationDate(t *testing.T) {
	sim := &models.SimCard{
		Status:           types.SimStatusGracePeriod,
		MonthlyCost:      decimal.NewFromInt(150000),
		InstallationDate: datePtr(2026, time.January, 1),
	}
	g := ComputeGracePeriodCost(sim, date(2026, time.January, 6))
	require.Equal(t, 5, g.Days)
}

func TestComputeGracePeriodCost_OnlyInGracePeriod(t *testing.T) {
	sim := &models.SimCard{
		Status:               types.SimStatusBilling,
		MonthlyCost:          decimal.NewFromInt(150000),
		GracePeriodStartDate: datePtr(2026, time.January, 1),
	}
	g := ComputeGracePeriodCost(sim, date(2026, time.February, 1))
	require.Zero(t, g.Days)
	require.True(t, g.Cost.IsZero())
}

func TestComputeGracePeriodCost_EndsAtDeactivation(t *testing.T) {
	sim := &models.SimCard{
		Status:               types.SimStatusGracePeriod,
		MonthlyCost:          decimal.NewFromInt(150000),
		GracePeriodStartDate: datePtr(2026, time.January, 1),
		DeactivationDate:     datePtr(2026, time.January, 8),
	}
	g := ComputeGracePeriodCost(sim, date(2026, time.March, 1))
	require.Equal(t, 7, g.Days)
}
