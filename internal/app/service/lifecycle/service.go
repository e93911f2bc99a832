package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/nusatel/simfleet/internal/app/service/burden"
	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/internal/store"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/config"
	"github.com/nusatel/simfleet/pkg/logctx"
	"github.com/nusatel/simfleet/pkg/metrics"
	"github.com/nusatel/simfleet/pkg/tool"
	"github.com/nusatel/simfleet/pkg/types"
)

// Service applies the status transition policy. Every operation validates its
// inputs before touching the store, runs its writes in one store transaction,
// appends a StatusHistory row, and recomputes the accumulated-cost cache.
type Service struct {
	cfg   *config.Config
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(cfg *config.Config, st store.Store, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: st, log: log}
}

type CreateInput struct {
	PhoneNumber     string          `json:"phone_number"`
	ICCID           *string         `json:"iccid"`
	Provider        string          `json:"provider"`
	MonthlyCost     decimal.Decimal `json:"monthly_cost"`
	FreePulsaMonths int             `json:"free_pulsa_months"`
	BillingCycleDay *int            `json:"billing_cycle_day"`
	CurrentIMEI     *string         `json:"current_imei"`
	CustomerID      *string         `json:"customer_id"`
	Notes           string          `json:"notes"`
}

type InstallInput struct {
	Date time.Time `json:"date"`
	IMEI string    `json:"imei"`

	FreePulsaMonths *int `json:"free_pulsa_months"`

	// BillingCycleDay wins when set; otherwise UseInstallDateAsBillingCycle
	// derives the cycle day from the installation date; otherwise the cycle
	// day stays as previously set (provider default).
	BillingCycleDay              *int `json:"billing_cycle_day"`
	UseInstallDateAsBillingCycle bool `json:"use_install_date_as_billing_cycle"`

	CustomerID *string `json:"customer_id"`
}

// Create registers a new SIM in WAREHOUSE. Both uniqueness conflicts reject
// the creation entirely: a duplicate phone number, and an IMEI already held by
// a non-deactivated SIM.
func (s *Service) Create(ctx context.Context, in CreateInput, actor string) (*models.SimCard, error) {
	if in.PhoneNumber == "" {
		return nil, &ValidationError{Field: "phone_number"}
	}
	if in.MonthlyCost.IsNegative() {
		return nil, &ValidationError{Field: "monthly_cost", Detail: "must not be negative"}
	}
	if in.BillingCycleDay != nil && (*in.BillingCycleDay < 1 || *in.BillingCycleDay > 31) {
		return nil, &ValidationError{Field: "billing_cycle_day", Detail: "must be between 1 and 31"}
	}

	var created *models.SimCard
	err := s.store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.GetByPhoneNumber(ctx, in.PhoneNumber); err == nil {
			return ErrPhoneNumberTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if in.CurrentIMEI != nil && *in.CurrentIMEI != "" {
			holders, err := tx.FindActiveByIMEI(ctx, *in.CurrentIMEI)
			if err != nil {
				return err
			}
			if len(holders) > 0 {
				return ErrIMEIOccupied
			}
		}

		sim := &models.SimCard{
			ID:              tool.NewID(),
			PhoneNumber:     in.PhoneNumber,
			ICCID:           in.ICCID,
			Provider:        in.Provider,
			Status:          types.SimStatusWarehouse,
			MonthlyCost:     in.MonthlyCost,
			FreePulsaMonths: in.FreePulsaMonths,
			BillingCycleDay: in.BillingCycleDay,
			CurrentIMEI:     in.CurrentIMEI,
			CustomerID:      in.CustomerID,
			Notes:           in.Notes,
			AccumulatedCost: decimal.Zero,
		}
		if err := tx.Create(ctx, sim); err != nil {
			return err
		}
		created = sim
		return nil
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("sim created",
		"sim_id", created.ID, "phone_number", created.PhoneNumber, "actor", actor)
	return created, nil
}

// Activate moves a SIM into ACTIVATED with the given activation date.
func (s *Service) Activate(ctx context.Context, id string, activationDate time.Time, actor string) (*models.SimCard, error) {
	if activationDate.IsZero() {
		return nil, &ValidationError{Field: "activation_date"}
	}
	return s.transition(ctx, "activate", id, func(sim *models.SimCard) (string, error) {
		if err := checkTransition(sim.Status, types.SimStatusActivated); err != nil {
			return "", err
		}
		reactivated := sim.Status.Terminal()
		sim.Status = types.SimStatusActivated
		d := calendar.Normalize(activationDate)
		sim.ActivationDate = &d
		if reactivated {
			sim.IsReactivated = true
			sim.DeactivationDate = nil
			sim.ReplacementReason = nil
		}
		return "Activated", nil
	}, actor)
}

// Install places a SIM on a device. Any other non-deactivated SIM holding the
// same IMEI is deactivated first, in the same transaction, so that exactly one
// live SIM holds the IMEI afterward.
func (s *Service) Install(ctx context.Context, id string, in InstallInput, actor string) (*models.SimCard, error) {
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "installation_date"}
	}
	if in.IMEI == "" {
		return nil, &ValidationError{Field: "imei"}
	}
	if in.BillingCycleDay != nil && (*in.BillingCycleDay < 1 || *in.BillingCycleDay > 31) {
		return nil, &ValidationError{Field: "billing_cycle_day", Detail: "must be between 1 and 31"}
	}

	started := time.Now()
	installDate := calendar.Normalize(in.Date)

	var out *models.SimCard
	err := s.store.Transact(ctx, func(tx store.Store) error {
		sim, err := tx.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSimNotFound
			}
			return err
		}
		if err := checkTransition(sim.Status, types.SimStatusInstalled); err != nil {
			return err
		}

		holders, err := tx.FindActiveByIMEI(ctx, in.IMEI)
		if err != nil {
			return err
		}
		for _, holder := range holders {
			if holder.ID == sim.ID {
				continue
			}
			before := *holder
			holder.Status = types.SimStatusDeactivated
			holder.DeactivationDate = &installDate
			reason := types.ReplacementReasonSimReplaced
			holder.ReplacementReason = &reason
			holder.Notes = types.AutoDeactivationNote
			if err := s.persist(ctx, tx, &before, holder, actor, types.AutoDeactivationNote, started); err != nil {
				return err
			}
			logctx.FromCtx(ctx, s.log).Infow("sim auto-deactivated by replacement",
				"replaced_sim_id", holder.ID, "imei", in.IMEI, "replacement_sim_id", sim.ID)
		}

		before := *sim
		sim.Status = types.SimStatusInstalled
		sim.InstallationDate = &installDate
		imei := in.IMEI
		sim.CurrentIMEI = &imei
		if in.FreePulsaMonths != nil {
			sim.FreePulsaMonths = *in.FreePulsaMonths
		}
		if in.CustomerID != nil {
			sim.CustomerID = in.CustomerID
		}
		switch {
		case in.BillingCycleDay != nil:
			sim.BillingCycleDay = in.BillingCycleDay
		case in.UseInstallDateAsBillingCycle:
			day := installDate.Day()
			sim.BillingCycleDay = &day
		}

		if err := s.persist(ctx, tx, &before, sim, actor, fmt.Sprintf("Installed on IMEI %s", in.IMEI), started); err != nil {
			return err
		}

		if err := tx.SaveInstallation(ctx, &models.Installation{
			ID:          tool.NewID(),
			SimCardID:   sim.ID,
			IMEI:        in.IMEI,
			CustomerID:  sim.CustomerID,
			InstalledAt: installDate,
			InstalledBy: actor,
		}); err != nil {
			return err
		}

		out = sim
		return nil
	})
	if err != nil {
		metrics.ObserveTransition("install", "error", started)
		return nil, err
	}
	metrics.ObserveTransition("install", "ok", started)
	logctx.FromCtx(ctx, s.log).Infow("sim installed",
		"sim_id", out.ID, "imei", in.IMEI, "actor", actor)
	return out, nil
}

// EnterGracePeriod moves a SIM into GRACE_PERIOD. The grace start is stored in
// its own field; it is never mirrored into the activation date.
func (s *Service) EnterGracePeriod(ctx context.Context, id string, startDate time.Time, dueDate *time.Time, actor string) (*models.SimCard, error) {
	if startDate.IsZero() {
		return nil, &ValidationError{Field: "grace_period_start_date"}
	}
	return s.transition(ctx, "enter_grace_period", id, func(sim *models.SimCard) (string, error) {
		if err := checkTransition(sim.Status, types.SimStatusGracePeriod); err != nil {
			return "", err
		}
		reactivated := sim.Status.Terminal()
		sim.Status = types.SimStatusGracePeriod
		d := calendar.Normalize(startDate)
		sim.GracePeriodStartDate = &d
		if dueDate != nil {
			due := calendar.Normalize(*dueDate)
			sim.GracePeriodDueDate = &due
		}
		if reactivated {
			sim.IsReactivated = true
			sim.DeactivationDate = nil
			sim.ReplacementReason = nil
		}
		return "Entered grace period", nil
	}, actor)
}

// ReactivateFromGracePeriod returns a SIM from GRACE_PERIOD to ACTIVATED and
// clears the grace context. The activation date defaults to today.
func (s *Service) ReactivateFromGracePeriod(ctx context.Context, id string, activationDate *time.Time, actor string) (*models.SimCard, error) {
	date := calendar.Today()
	if activationDate != nil {
		if activationDate.IsZero() {
			return nil, &ValidationError{Field: "activation_date"}
		}
		date = calendar.Normalize(*activationDate)
	}
	return s.transition(ctx, "reactivate", id, func(sim *models.SimCard) (string, error) {
		if err := checkTransition(sim.Status, types.SimStatusActivated); err != nil {
			return "", err
		}
		reactivated := sim.Status.Terminal()
		sim.Status = types.SimStatusActivated
		sim.ActivationDate = &date
		sim.GracePeriodStartDate = nil
		sim.GracePeriodDueDate = nil
		if reactivated {
			sim.IsReactivated = true
			sim.DeactivationDate = nil
			sim.ReplacementReason = nil
		}
		return "Reactivated from grace period", nil
	}, actor)
}

// MarkBilling confirms an installed SIM has started its billing cycle.
func (s *Service) MarkBilling(ctx context.Context, id string, actor string) (*models.SimCard, error) {
	return s.transition(ctx, "mark_billing", id, func(sim *models.SimCard) (string, error) {
		if err := checkTransition(sim.Status, types.SimStatusBilling); err != nil {
			return "", err
		}
		sim.Status = types.SimStatusBilling
		return "Billing started", nil
	}, actor)
}

// Deactivate terminates a SIM. The deactivation date is immutable afterwards
// except through explicit reactivation.
func (s *Service) Deactivate(ctx context.Context, id string, deactivationDate time.Time, reason string, actor string) (*models.SimCard, error) {
	if deactivationDate.IsZero() {
		return nil, &ValidationError{Field: "deactivation_date"}
	}
	return s.transition(ctx, "deactivate", id, func(sim *models.SimCard) (string, error) {
		if err := checkTransition(sim.Status, types.SimStatusDeactivated); err != nil {
			return "", err
		}
		sim.Status = types.SimStatusDeactivated
		d := calendar.Normalize(deactivationDate)
		sim.DeactivationDate = &d
		historyReason := "Deactivated"
		if reason != "" {
			sim.Notes = reason
			historyReason = reason
		}
		return historyReason, nil
	}, actor)
}

// transition is the single-SIM transition driver: load, apply, persist, all
// inside one store transaction.
func (s *Service) transition(ctx context.Context, op string, id string, apply func(*models.SimCard) (string, error), actor string) (*models.SimCard, error) {
	started := time.Now()

	var out *models.SimCard
	err := s.store.Transact(ctx, func(tx store.Store) error {
		sim, err := tx.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSimNotFound
			}
			return err
		}
		before := *sim
		reason, err := apply(sim)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, tx, &before, sim, actor, reason, started); err != nil {
			return err
		}
		out = sim
		return nil
	})
	if err != nil {
		metrics.ObserveTransition(op, "error", started)
		return nil, err
	}
	metrics.ObserveTransition(op, "ok", started)
	logctx.FromCtx(ctx, s.log).Infow("sim status changed",
		"op", op, "sim_id", out.ID, "status", out.Status, "actor", actor)
	return out, nil
}

// persist is the mandatory post-mutation hook: it recomputes the accumulated
// cost cache from the post-update record, writes the record, and appends the
// transition to the history log. All mutating paths must go through it.
func (s *Service) persist(ctx context.Context, tx store.Store, before, sim *models.SimCard, actor, reason string, changedAt time.Time) error {
	sim.AccumulatedCost = burden.AccumulatedCost(sim)
	if err := tx.Update(ctx, sim); err != nil {
		return err
	}
	beforeCopy := *before
	afterCopy := *sim
	return tx.AppendHistory(ctx, &models.StatusHistory{
		ID:        tool.NewID(),
		SimCardID: sim.ID,
		OldStatus: before.Status,
		NewStatus: sim.Status,
		ChangedBy: actor,
		Reason:    reason,
		ChangedAt: changedAt,
		Before:    datatypes.NewJSONType(&beforeCopy),
		After:     datatypes.NewJSONType(&afterCopy),
	})
}

// Get returns one SIM.
func (s *Service) Get(ctx context.Context, id string) (*models.SimCard, error) {
	sim, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSimNotFound
	}
	return sim, err
}

// List returns the whole fleet.
func (s *Service) List(ctx context.Context) ([]*models.SimCard, error) {
	return s.store.List(ctx)
}

// ScanSims serves the admin listing. Stores without native scan support fall
// back to unfiltered listing with offset pagination.
func (s *Service) ScanSims(ctx context.Context, req *store.ScanSimsRequest) (*store.ScanSimsResult, error) {
	if req == nil {
		req = &store.ScanSimsRequest{}
	}
	if scanner, ok := s.store.(store.SimScanner); ok {
		return scanner.ScanSims(ctx, req)
	}
	if len(req.Filters) > 0 {
		return nil, &ValidationError{Field: "filters", Detail: "not supported by this storage backend"}
	}

	sims, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	total := int64(len(sims))
	from := req.From
	if from < 0 {
		from = 0
	}
	if from > len(sims) {
		from = len(sims)
	}
	size := req.Size
	if size <= 0 {
		size = 10
	}
	end := from + size
	if end > len(sims) {
		end = len(sims)
	}
	return &store.ScanSimsResult{Items: sims[from:end], Total: total}, nil
}

// History returns the append-only transition log for one SIM.
func (s *Service) History(ctx context.Context, id string) ([]*models.StatusHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListHistory(ctx, id)
}

// Burden computes the overlap cost picture for one SIM.
func (s *Service) Burden(ctx context.Context, id string) (*burden.DailyBurden, error) {
	sim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b := burden.ComputeDailyBurden(sim)
	return &b, nil
}

// GraceCost computes the grace-period cost for one SIM at a single canonical
// "now" captured on entry.
func (s *Service) GraceCost(ctx context.Context, id string) (*burden.GracePeriodCost, error) {
	sim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := calendar.Today()
	g := burden.ComputeGracePeriodCost(sim, now)
	return &g, nil
}

// FreePulsa computes the free-pulsa cost for one SIM at a single canonical
// "now" captured on entry.
func (s *Service) FreePulsa(ctx context.Context, id string) (*burden.FreePulsaCost, error) {
	sim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := calendar.Today()
	f := burden.ComputeFreePulsaCost(sim, now)
	return &f, nil
}
