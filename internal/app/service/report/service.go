// Package report aggregates per-SIM cost figures into the monthly cost
// report. All numbers come from the pure burden calculators; this package only
// selects, buckets and sums.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nusatel/simfleet/internal/app/service/burden"
	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/internal/store"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/config"
	"github.com/nusatel/simfleet/pkg/logctx"
	"github.com/nusatel/simfleet/pkg/types"
)

const (
	// ReasonGraceShouldBill marks grace-period SIMs that started their grace
	// window in the report month.
	ReasonGraceShouldBill = "should already be billing"
	// ReasonGhostSim marks SIMs activated in the report month but never
	// installed on a device.
	ReasonGhostSim = "activated but not installed"
)

type Service struct {
	cfg   *config.Config
	store store.Store
	cache *redis.Client
	log   *zap.SugaredLogger
}

func NewService(cfg *config.Config, st store.Store, cache *redis.Client, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: st, cache: cache, log: log}
}

// OverlapEntry is one SIM's billed-but-idle contribution to the month.
type OverlapEntry struct {
	SimID        string          `json:"sim_id"`
	PhoneNumber  string          `json:"phone_number"`
	Status       types.SimStatus `json:"status"`
	Overlap1Days int             `json:"overlap1_days"`
	Overlap1Cost decimal.Decimal `json:"overlap1_cost"`
	Overlap2Days int             `json:"overlap2_days"`
	Overlap2Cost decimal.Decimal `json:"overlap2_cost"`
	TotalBurden  decimal.Decimal `json:"total_burden"`
}

// PotentialLossEntry is a SIM burning cost without revenue, with the reason it
// landed in the bucket.
type PotentialLossEntry struct {
	SimID       string          `json:"sim_id"`
	PhoneNumber string          `json:"phone_number"`
	Status      types.SimStatus `json:"status"`
	Reason      string          `json:"reason"`
	Days        int             `json:"days"`
	Cost        decimal.Decimal `json:"cost"`
}

// FreePulsaEntry is one SIM's promotional-period cost to date.
type FreePulsaEntry struct {
	SimID         string          `json:"sim_id"`
	PhoneNumber   string          `json:"phone_number"`
	MonthsCharged int             `json:"months_charged"`
	CostIncurred  decimal.Decimal `json:"cost_incurred"`
	IsActive      bool            `json:"is_active"`
}

type Totals struct {
	OverlapCost           decimal.Decimal            `json:"overlap_cost"`
	PotentialLossCost     decimal.Decimal            `json:"potential_loss_cost"`
	PotentialLossByReason map[string]decimal.Decimal `json:"potential_loss_by_reason"`
	FreePulsaCost         decimal.Decimal            `json:"free_pulsa_cost"`
	GrandTotal            decimal.Decimal            `json:"grand_total"`
}

// MonthlyReport is the full report payload. The overlap and potential-loss
// buckets are month-scoped; the free-pulsa bucket is a fleet-wide running
// total.
type MonthlyReport struct {
	Month         string               `json:"month"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Overlap       []OverlapEntry       `json:"overlap"`
	PotentialLoss []PotentialLossEntry `json:"potential_loss"`
	FreePulsa     []FreePulsaEntry     `json:"free_pulsa"`
	Totals        Totals               `json:"totals"`
}

// BuildMonthlyReport aggregates the fleet for one calendar month, serving from
// the Redis cache when available.
func (s *Service) BuildMonthlyReport(ctx context.Context, year int, month time.Month) (*MonthlyReport, error) {
	key := fmt.Sprintf("report:monthly:%04d-%02d", year, month)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached MonthlyReport
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	sims, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sims: %w", err)
	}

	now := calendar.Today()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, calendar.Location)
	monthEnd := calendar.EndOfMonth(monthStart)

	rpt := &MonthlyReport{
		Month:       fmt.Sprintf("%04d-%02d", year, month),
		GeneratedAt: now,
		Totals: Totals{
			OverlapCost:           decimal.Zero,
			PotentialLossCost:     decimal.Zero,
			PotentialLossByReason: map[string]decimal.Decimal{},
			FreePulsaCost:         decimal.Zero,
		},
	}

	for _, sim := range sims {
		if e, ok := overlapEntry(sim, monthStart, monthEnd); ok {
			rpt.Overlap = append(rpt.Overlap, e)
		}
		if e, ok := potentialLossEntry(sim, monthStart, now); ok {
			rpt.PotentialLoss = append(rpt.PotentialLoss, e)
		}
		if e, ok := freePulsaEntry(sim, now); ok {
			rpt.FreePulsa = append(rpt.FreePulsa, e)
		}
	}

	sortDesc(rpt.Overlap, func(e OverlapEntry) decimal.Decimal { return e.TotalBurden })
	sortDesc(rpt.PotentialLoss, func(e PotentialLossEntry) decimal.Decimal { return e.Cost })
	sortDesc(rpt.FreePulsa, func(e FreePulsaEntry) decimal.Decimal { return e.CostIncurred })

	rpt.Totals.OverlapCost = lo.Reduce(rpt.Overlap, func(acc decimal.Decimal, e OverlapEntry, _ int) decimal.Decimal {
		return acc.Add(e.TotalBurden)
	}, decimal.Zero)
	rpt.Totals.PotentialLossCost = lo.Reduce(rpt.PotentialLoss, func(acc decimal.Decimal, e PotentialLossEntry, _ int) decimal.Decimal {
		return acc.Add(e.Cost)
	}, decimal.Zero)
	for _, e := range rpt.PotentialLoss {
		prev, ok := rpt.Totals.PotentialLossByReason[e.Reason]
		if !ok {
			prev = decimal.Zero
		}
		rpt.Totals.PotentialLossByReason[e.Reason] = prev.Add(e.Cost)
	}
	rpt.Totals.FreePulsaCost = lo.Reduce(rpt.FreePulsa, func(acc decimal.Decimal, e FreePulsaEntry, _ int) decimal.Decimal {
		return acc.Add(e.CostIncurred)
	}, decimal.Zero)
	rpt.Totals.GrandTotal = rpt.Totals.OverlapCost.Add(rpt.Totals.PotentialLossCost).Add(rpt.Totals.FreePulsaCost)

	if s.cache != nil {
		if raw, err := json.Marshal(rpt); err == nil {
			ttl := time.Duration(s.cfg.Redis.ReportTTLMinute) * time.Minute
			if err := s.cache.Set(ctx, key, raw, ttl).Err(); err != nil {
				logctx.FromCtx(ctx, s.log).Warnw("report cache write failed", "key", key, "err", err)
			}
		}
	}

	logctx.FromCtx(ctx, s.log).Infow("monthly report built",
		"month", rpt.Month,
		"overlap_entries", len(rpt.Overlap),
		"potential_loss_entries", len(rpt.PotentialLoss),
		"free_pulsa_entries", len(rpt.FreePulsa))
	return rpt, nil
}

// overlapEntry includes a SIM when its burden is positive and either overlap
// window intersects the report month.
func overlapEntry(sim *models.SimCard, monthStart, monthEnd time.Time) (OverlapEntry, bool) {
	b := burden.ComputeDailyBurden(sim)
	if !b.TotalBurden.IsPositive() {
		return OverlapEntry{}, false
	}

	inMonth := false
	if sim.ActivationDate != nil && sim.InstallationDate != nil &&
		calendar.Overlaps(*sim.ActivationDate, *sim.InstallationDate, monthStart, monthEnd) {
		inMonth = true
	}
	if due, ok := burden.Overlap2DueDate(sim); ok &&
		calendar.Overlaps(due, *sim.DeactivationDate, monthStart, monthEnd) {
		inMonth = true
	}
	if !inMonth {
		return OverlapEntry{}, false
	}

	return OverlapEntry{
		SimID:        sim.ID,
		PhoneNumber:  sim.PhoneNumber,
		Status:       sim.Status,
		Overlap1Days: b.Overlap1Days,
		Overlap1Cost: b.Overlap1Cost,
		Overlap2Days: b.Overlap2Days,
		Overlap2Cost: b.Overlap2Cost,
		TotalBurden:  b.TotalBurden,
	}, true
}

// potentialLossEntry catches the two cost leaks the report calls out: SIMs
// whose grace window started in the report month, and ghost SIMs activated in
// the month but never installed.
func potentialLossEntry(sim *models.SimCard, monthStart, now time.Time) (PotentialLossEntry, bool) {
	switch sim.Status {
	case types.SimStatusGracePeriod:
		start := sim.GracePeriodStartDate
		if start == nil {
			start = sim.InstallationDate
		}
		if start == nil || !calendar.SameMonth(*start, monthStart) {
			return PotentialLossEntry{}, false
		}
		g := burden.ComputeGracePeriodCost(sim, now)
		return PotentialLossEntry{
			SimID:       sim.ID,
			PhoneNumber: sim.PhoneNumber,
			Status:      sim.Status,
			Reason:      ReasonGraceShouldBill,
			Days:        g.Days,
			Cost:        g.Cost,
		}, true

	case types.SimStatusActivated:
		if sim.InstallationDate != nil || sim.ActivationDate == nil {
			return PotentialLossEntry{}, false
		}
		if !calendar.SameMonth(*sim.ActivationDate, monthStart) {
			return PotentialLossEntry{}, false
		}
		act := calendar.Normalize(*sim.ActivationDate)
		if now.Before(act) {
			return PotentialLossEntry{}, false
		}
		days := calendar.DaysBetween(act, now)
		return PotentialLossEntry{
			SimID:       sim.ID,
			PhoneNumber: sim.PhoneNumber,
			Status:      sim.Status,
			Reason:      ReasonGhostSim,
			Days:        days,
			Cost:        burden.DailyRate(sim.MonthlyCost).Mul(decimal.NewFromInt(int64(days))),
		}, true
	}
	return PotentialLossEntry{}, false
}

// freePulsaEntry reports the running promotional cost for every SIM that ever
// had a free-pulsa allowance, regardless of the report month.
func freePulsaEntry(sim *models.SimCard, now time.Time) (FreePulsaEntry, bool) {
	if sim.FreePulsaMonths <= 0 || sim.InstallationDate == nil {
		return FreePulsaEntry{}, false
	}
	f := burden.ComputeFreePulsaCost(sim, now)
	return FreePulsaEntry{
		SimID:         sim.ID,
		PhoneNumber:   sim.PhoneNumber,
		MonthsCharged: f.MonthsCharged,
		CostIncurred:  f.CostIncurred,
		IsActive:      f.IsActive,
	}, true
}

func sortDesc[T any](entries []T, cost func(T) decimal.Decimal) {
	slices.SortStableFunc(entries, func(a, b T) int {
		return cost(b).Cmp(cost(a))
	})
}
