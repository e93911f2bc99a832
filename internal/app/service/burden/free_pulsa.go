package burden

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/pkg/calendar"
)

// FreePulsaCost is the internal burden of a promotional free-pulsa period:
// the operator pays the monthly cost while the customer is not billed. It is
// informational and reported separately from overlap and grace costs.
type FreePulsaCost struct {
	MonthsElapsed   int             `json:"months_elapsed"`
	MonthsCharged   int             `json:"months_charged"`
	CostIncurred    decimal.Decimal `json:"cost_incurred"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	IsActive        bool            `json:"is_active"`
	DaysRemaining   int             `json:"days_remaining"`
	ProgressPercent float64         `json:"progress_percent"`
}

// ComputeFreePulsaCost charges the monthly cost once per calendar month from
// the installation month (which counts as elapsed) up to free_pulsa_months.
// The expiry date is the last day of the final charged month.
func ComputeFreePulsaCost(sim *models.SimCard, now time.Time) FreePulsaCost {
	if sim.FreePulsaMonths <= 0 || sim.InstallationDate == nil {
		return FreePulsaCost{CostIncurred: decimal.Zero}
	}

	install := calendar.Normalize(*sim.InstallationDate)
	today := calendar.Normalize(now)

	monthsElapsed := calendar.MonthsBetween(install, today) + 1
	if monthsElapsed < 0 {
		monthsElapsed = 0
	}
	monthsCharged := monthsElapsed
	if monthsCharged > sim.FreePulsaMonths {
		monthsCharged = sim.FreePulsaMonths
	}

	expiry := calendar.EndOfMonth(calendar.StartOfMonth(install).AddDate(0, sim.FreePulsaMonths-1, 0))
	active := !today.After(expiry)

	out := FreePulsaCost{
		MonthsElapsed:   monthsElapsed,
		MonthsCharged:   monthsCharged,
		CostIncurred:    sim.MonthlyCost.Mul(decimal.NewFromInt(int64(monthsCharged))),
		ExpiryDate:      &expiry,
		IsActive:        active,
		ProgressPercent: float64(monthsCharged) / float64(sim.FreePulsaMonths) * 100,
	}
	if active {
		out.DaysRemaining = calendar.DaysBetween(today, expiry)
	}
	return out
}
