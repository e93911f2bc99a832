// Package burden holds the pure cost calculators. Every function maps an
// immutable SimCard snapshot (plus an explicitly injected "now" where time
// matters) to cost figures; nothing here reads the clock or touches the store.
//
// Missing input dates always yield zero-cost results, never errors: an unset
// date means that lifecycle phase has not happened yet.
package burden

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/types"
)

// DaysPerMonth is the fixed divisor for the daily rate. Deliberately not
// calendar-accurate; every calculator must use this exact value.
const DaysPerMonth = 30

// GracePeriodCeilingDays is the advisory grace-period ceiling. Exceeding it
// flags the SIM as overdue but never clamps the computed cost.
const GracePeriodCeilingDays = 30

var daysPerMonth = decimal.NewFromInt(DaysPerMonth)

// DailyRate returns monthlyCost / 30.
func DailyRate(monthlyCost decimal.Decimal) decimal.Decimal {
	return monthlyCost.Div(daysPerMonth)
}

// Overlap is a billed-but-idle gap expressed as whole days and cost.
type Overlap struct {
	Days int             `json:"days"`
	Cost decimal.Decimal `json:"cost"`
}

// DailyBurden is the combined overlap cost picture for one SIM.
type DailyBurden struct {
	Overlap1Days int             `json:"overlap1_days"`
	Overlap1Cost decimal.Decimal `json:"overlap1_cost"`
	Overlap2Days int             `json:"overlap2_days"`
	Overlap2Cost decimal.Decimal `json:"overlap2_cost"`
	TotalBurden  decimal.Decimal `json:"total_burden"`
}

// Overlap1 is the activation-to-installation gap: days the SIM was billed but
// not yet physically deployed. Zero unless installation is strictly after
// activation.
func Overlap1(sim *models.SimCard) Overlap {
	if sim.ActivationDate == nil || sim.InstallationDate == nil {
		return Overlap{Cost: decimal.Zero}
	}
	act := calendar.Normalize(*sim.ActivationDate)
	inst := calendar.Normalize(*sim.InstallationDate)
	if !inst.After(act) {
		return Overlap{Cost: decimal.Zero}
	}
	days := calendar.DaysBetween(act, inst)
	return Overlap{
		Days: days,
		Cost: DailyRate(sim.MonthlyCost).Mul(decimal.NewFromInt(int64(days))),
	}
}

// Overlap2DueDate resolves the billing due date preceding the deactivation:
// the billing-cycle day in the deactivation month, stepped back one month when
// it would land after the deactivation itself.
func Overlap2DueDate(sim *models.SimCard) (time.Time, bool) {
	if sim.DeactivationDate == nil || sim.BillingCycleDay == nil {
		return time.Time{}, false
	}
	deact := calendar.Normalize(*sim.DeactivationDate)
	due := calendar.DateOfMonth(deact, *sim.BillingCycleDay)
	if due.After(deact) {
		due = calendar.DateOfMonth(calendar.StartOfMonth(deact).AddDate(0, -1, 0), *sim.BillingCycleDay)
	}
	return due, true
}

// Overlap2 is the gap between the last billing due date and the actual
// deactivation.
func Overlap2(sim *models.SimCard) Overlap {
	due, ok := Overlap2DueDate(sim)
	if !ok {
		return Overlap{Cost: decimal.Zero}
	}
	deact := calendar.Normalize(*sim.DeactivationDate)
	if !deact.After(due) {
		return Overlap{Cost: decimal.Zero}
	}
	days := calendar.DaysBetween(due, deact)
	return Overlap{
		Days: days,
		Cost: DailyRate(sim.MonthlyCost).Mul(decimal.NewFromInt(int64(days))),
	}
}

// ComputeDailyBurden combines both overlaps. TotalBurden is always the exact
// sum of the two costs.
func ComputeDailyBurden(sim *models.SimCard) DailyBurden {
	o1 := Overlap1(sim)
	o2 := Overlap2(sim)
	return DailyBurden{
		Overlap1Days: o1.Days,
		Overlap1Cost: o1.Cost,
		Overlap2Days: o2.Days,
		Overlap2Cost: o2.Cost,
		TotalBurden:  o1.Cost.Add(o2.Cost),
	}
}

// AccumulatedCost is the cached-cost recomputation every mutating operation
// must apply: the sum of both overlap costs.
func AccumulatedCost(sim *models.SimCard) decimal.Decimal {
	return ComputeDailyBurden(sim).TotalBurden
}

// GracePeriodCost is the running cost of a SIM sitting in GRACE_PERIOD.
type GracePeriodCost struct {
	Days        int             `json:"days"`
	Cost        decimal.Decimal `json:"cost"`
	Overdue     bool            `json:"overdue"`
	DaysOverdue int             `json:"days_overdue"`
}

// ComputeGracePeriodCost accrues from the grace start (falling back to the
// installation date) until deactivation, or until now while the SIM is still
// open. Only defined while the SIM is in GRACE_PERIOD.
func ComputeGracePeriodCost(sim *models.SimCard, now time.Time) GracePeriodCost {
	if sim.Status != types.SimStatusGracePeriod {
		return GracePeriodCost{Cost: decimal.Zero}
	}
	start := sim.GracePeriodStartDate
	if start == nil {
		start = sim.InstallationDate
	}
	if start == nil {
		return GracePeriodCost{Cost: decimal.Zero}
	}
	end := calendar.Normalize(now)
	if sim.DeactivationDate != nil {
		end = calendar.Normalize(*sim.DeactivationDate)
	}
	from := calendar.Normalize(*start)
	if end.Before(from) {
		return GracePeriodCost{Cost: decimal.Zero}
	}
	days := calendar.DaysBetween(from, end)
	out := GracePeriodCost{
		Days: days,
		Cost: DailyRate(sim.MonthlyCost).Mul(decimal.NewFromInt(int64(days))),
	}
	if days > GracePeriodCeilingDays {
		out.Overdue = true
		out.DaysOverdue = days - GracePeriodCeilingDays
	}
	return out
}
