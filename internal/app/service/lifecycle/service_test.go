package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/internal/store"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/config"
	"github.com/nusatel/simfleet/pkg/types"
)

func newTestService() *Service {
	return NewService(&config.Config{}, store.NewMemory(), zap.NewNop().Sugar())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, calendar.Location)
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func createSim(t *testing.T, svc *Service, phone string) *models.SimCard {
	t.Helper()
	sim, err := svc.Create(context.Background(), CreateInput{
		PhoneNumber: phone,
		Provider:    "Telkomsel",
		MonthlyCost: decimal.NewFromInt(150000),
	}, "tester")
	require.NoError(t, err)
	return sim
}

func TestCreate_StartsInWarehouse(t *testing.T) {
	svc := newTestService()
	sim := createSim(t, svc, "0811111111")

	require.NotEmpty(t, sim.ID)
	require.Equal(t, types.SimStatusWarehouse, sim.Status)
	require.True(t, sim.AccumulatedCost.IsZero())
	require.Nil(t, sim.ActivationDate)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{MonthlyCost: decimal.NewFromInt(1)}, "tester")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "phone_number", ve.Field)

	_, err = svc.Create(ctx, CreateInput{PhoneNumber: "0811", MonthlyCost: decimal.NewFromInt(-1)}, "tester")
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "monthly_cost", ve.Field)

	_, err = svc.Create(ctx, CreateInput{PhoneNumber: "0811", MonthlyCost: decimal.NewFromInt(1), BillingCycleDay: intPtr(32)}, "tester")
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "billing_cycle_day", ve.Field)
}

func TestCreate_RejectsDuplicatePhoneNumber(t *testing.T) {
	svc := newTestService()
	createSim(t, svc, "0811111111")

	_, err := svc.Create(context.Background(), CreateInput{
		PhoneNumber: "0811111111",
		MonthlyCost: decimal.NewFromInt(150000),
	}, "tester")
	require.ErrorIs(t, err, ErrPhoneNumberTaken)
}

func TestCreate_RejectsOccupiedIMEI(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first := createSim(t, svc, "0811111111")
	_, err := svc.Activate(ctx, first.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	_, err = svc.Install(ctx, first.ID, InstallInput{Date: date(2026, time.January, 5), IMEI: "86000000000001"}, "tester")
	require.NoError(t, err)

	// Creation never replaces; the conflict is a hard failure.
	_, err = svc.Create(ctx, CreateInput{
		PhoneNumber: "0822222222",
		MonthlyCost: decimal.NewFromInt(150000),
		CurrentIMEI: strPtr("86000000000001"),
	}, "tester")
	require.ErrorIs(t, err, ErrIMEIOccupied)
}

func TestActivate_FromWarehouse(t *testing.T) {
	svc := newTestService()
	sim := createSim(t, svc, "0811111111")

	got, err := svc.Activate(context.Background(), sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusActivated, got.Status)
	require.Equal(t, date(2026, time.January, 1), *got.ActivationDate)
	require.False(t, got.IsReactivated)
}

func TestTransition_IllegalEdgeRejected(t *testing.T) {
	svc := newTestService()
	sim := createSim(t, svc, "0811111111")

	// WAREHOUSE -> GRACE_PERIOD is not in the graph.
	_, err := svc.EnterGracePeriod(context.Background(), sim.ID, date(2026, time.January, 5), nil, "tester")
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	require.Equal(t, types.SimStatusWarehouse, te.From)
	require.Equal(t, types.SimStatusGracePeriod, te.To)
}

func TestTransition_UnknownSim(t *testing.T) {
	svc := newTestService()
	_, err := svc.Activate(context.Background(), "missing", date(2026, time.January, 1), "tester")
	require.ErrorIs(t, err, ErrSimNotFound)
}

func TestInstall_SetsFieldsAndRecomputesCost(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)

	got, err := svc.Install(ctx, sim.ID, InstallInput{
		Date:            date(2026, time.January, 5),
		IMEI:            "86000000000001",
		FreePulsaMonths: intPtr(6),
		BillingCycleDay: intPtr(15),
	}, "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusInstalled, got.Status)
	require.Equal(t, "86000000000001", *got.CurrentIMEI)
	require.Equal(t, 6, got.FreePulsaMonths)
	require.Equal(t, 15, *got.BillingCycleDay)
	// Four idle days at 5000/day land in the cached cost.
	require.True(t, got.AccumulatedCost.Equal(decimal.NewFromInt(20000)), "got %s", got.AccumulatedCost)
}

func TestInstall_DerivesBillingCycleFromInstallDate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)

	got, err := svc.Install(ctx, sim.ID, InstallInput{
		Date:                         date(2026, time.January, 28),
		IMEI:                         "86000000000001",
		UseInstallDateAsBillingCycle: true,
	}, "tester")
	require.NoError(t, err)
	require.Equal(t, 28, *got.BillingCycleDay)
}

func TestInstall_ReplacesPreviousHolder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	const imei = "86000000000001"

	old := createSim(t, svc, "0811111111")
	_, err := svc.Activate(ctx, old.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	_, err = svc.Install(ctx, old.ID, InstallInput{Date: date(2026, time.January, 5), IMEI: imei}, "tester")
	require.NoError(t, err)

	repl := createSim(t, svc, "0822222222")
	_, err = svc.Activate(ctx, repl.ID, date(2026, time.February, 1), "tester")
	require.NoError(t, err)
	got, err := svc.Install(ctx, repl.ID, InstallInput{Date: date(2026, time.February, 10), IMEI: imei}, "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusInstalled, got.Status)

	replaced, err := svc.Get(ctx, old.ID)
	require.NoError(t, err)
	require.Equal(t, types.SimStatusDeactivated, replaced.Status)
	require.Equal(t, date(2026, time.February, 10), *replaced.DeactivationDate)
	require.Equal(t, types.ReplacementReasonSimReplaced, *replaced.ReplacementReason)
	require.Equal(t, types.AutoDeactivationNote, replaced.Notes)

	// The replaced SIM's history records the auto-deactivation.
	rows, err := svc.History(ctx, old.ID)
	require.NoError(t, err)
	last := rows[len(rows)-1]
	require.Equal(t, types.SimStatusDeactivated, last.NewStatus)
	require.Equal(t, types.AutoDeactivationNote, last.Reason)
}

func TestInstall_DirectlyFromWarehouse(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	const imei = "86000000000001"

	holder := createSim(t, svc, "0811111111")
	_, err := svc.Activate(ctx, holder.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	_, err = svc.Install(ctx, holder.ID, InstallInput{Date: date(2026, time.January, 5), IMEI: imei}, "tester")
	require.NoError(t, err)

	// A warehouse SIM installs without passing through ACTIVATED and still
	// replaces the previous holder.
	fresh := createSim(t, svc, "0822222222")
	got, err := svc.Install(ctx, fresh.ID, InstallInput{Date: date(2026, time.February, 10), IMEI: imei}, "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusInstalled, got.Status)
	require.Equal(t, imei, *got.CurrentIMEI)
	require.Nil(t, got.ActivationDate)
	require.True(t, got.AccumulatedCost.IsZero())

	replaced, err := svc.Get(ctx, holder.ID)
	require.NoError(t, err)
	require.Equal(t, types.SimStatusDeactivated, replaced.Status)
	require.Equal(t, types.ReplacementReasonSimReplaced, *replaced.ReplacementReason)
}

func TestInstall_SelfReinstallDoesNotSelfDeactivate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	const imei = "86000000000001"

	sim := createSim(t, svc, "0811111111")
	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	_, err = svc.Install(ctx, sim.ID, InstallInput{Date: date(2026, time.January, 5), IMEI: imei}, "tester")
	require.NoError(t, err)

	// Back through grace to ACTIVATED, then install on the same IMEI again.
	_, err = svc.EnterGracePeriod(ctx, sim.ID, date(2026, time.March, 1), nil, "tester")
	require.NoError(t, err)
	_, err = svc.ReactivateFromGracePeriod(ctx, sim.ID, nil, "tester")
	require.NoError(t, err)
	got, err := svc.Install(ctx, sim.ID, InstallInput{Date: date(2026, time.April, 1), IMEI: imei}, "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusInstalled, got.Status)
}

func TestEnterGracePeriod_UsesOwnField(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	_, err = svc.Install(ctx, sim.ID, InstallInput{Date: date(2026, time.January, 5), IMEI: "86000000000001"}, "tester")
	require.NoError(t, err)

	due := date(2026, time.April, 1)
	got, err := svc.EnterGracePeriod(ctx, sim.ID, date(2026, time.March, 1), &due, "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusGracePeriod, got.Status)
	require.Equal(t, date(2026, time.March, 1), *got.GracePeriodStartDate)
	require.Equal(t, due, *got.GracePeriodDueDate)
	// The activation date is untouched; grace start lives in its own field.
	require.Equal(t, date(2026, time.January, 1), *got.ActivationDate)
}

func TestReactivateFromGracePeriod_ClearsGraceContext(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	_, err = svc.EnterGracePeriod(ctx, sim.ID, date(2026, time.February, 1), nil, "tester")
	require.NoError(t, err)

	when := date(2026, time.February, 20)
	got, err := svc.ReactivateFromGracePeriod(ctx, sim.ID, &when, "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusActivated, got.Status)
	require.Equal(t, when, *got.ActivationDate)
	require.Nil(t, got.GracePeriodStartDate)
	require.Nil(t, got.GracePeriodDueDate)
	// Never DEACTIVATED along the way, so not a reactivated SIM.
	require.False(t, got.IsReactivated)
}

func TestDeactivatedSim_CanReenterAndIsFlagged(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, sim.ID, date(2026, time.February, 1), "customer cancelled", "tester")
	require.NoError(t, err)

	got, err := svc.Activate(ctx, sim.ID, date(2026, time.March, 1), "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusActivated, got.Status)
	require.True(t, got.IsReactivated)
	require.Nil(t, got.DeactivationDate)
	require.Nil(t, got.ReplacementReason)
}

func TestDeactivate_ReasonLandsInNotesAndHistory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)
	got, err := svc.Deactivate(ctx, sim.ID, date(2026, time.February, 1), "lost device", "tester")
	require.NoError(t, err)
	require.Equal(t, "lost device", got.Notes)

	rows, err := svc.History(ctx, sim.ID)
	require.NoError(t, err)
	last := rows[len(rows)-1]
	require.Equal(t, "lost device", last.Reason)
	require.Equal(t, "tester", last.ChangedBy)
}

func TestMarkBilling_OnlyFromInstalled(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)

	_, err = svc.MarkBilling(ctx, sim.ID, "tester")
	var te *TransitionError
	require.ErrorAs(t, err, &te)

	_, err = svc.Install(ctx, sim.ID, InstallInput{Date: date(2026, time.January, 5), IMEI: "86000000000001"}, "tester")
	require.NoError(t, err)
	got, err := svc.MarkBilling(ctx, sim.ID, "tester")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusBilling, got.Status)
}

func TestHistory_SnapshotsBeforeAndAfter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sim := createSim(t, svc, "0811111111")

	_, err := svc.Activate(ctx, sim.ID, date(2026, time.January, 1), "tester")
	require.NoError(t, err)

	rows, err := svc.History(ctx, sim.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, types.SimStatusWarehouse, row.OldStatus)
	require.Equal(t, types.SimStatusActivated, row.NewStatus)
	before := row.Before.Data()
	after := row.After.Data()
	require.NotNil(t, before)
	require.NotNil(t, after)
	require.Equal(t, types.SimStatusWarehouse, before.Status)
	require.Equal(t, types.SimStatusActivated, after.Status)
}

func TestScanSims_MemoryFallbackPaginates(t *testing.T) {
	svc := newTestService()
	createSim(t, svc, "0811111111")
	createSim(t, svc, "0822222222")
	createSim(t, svc, "0833333333")

	res, err := svc.ScanSims(context.Background(), &store.ScanSimsRequest{From: 1, Size: 1})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Total)
	require.Len(t, res.Items, 1)
	require.Equal(t, "0822222222", res.Items[0].PhoneNumber)
}
