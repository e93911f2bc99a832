package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/pkg/types"
)

func newSim(id, phone string) *models.SimCard {
	return &models.SimCard{
		ID:          id,
		PhoneNumber: phone,
		Status:      types.SimStatusWarehouse,
		MonthlyCost: decimal.NewFromInt(150000),
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, newSim("a", "0811")))

	first, err := m.Get(ctx, "a")
	require.NoError(t, err)
	first.PhoneNumber = "mutated"

	second, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "0811", second.PhoneNumber)
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ListSortedByPhoneNumber(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, newSim("b", "0822")))
	require.NoError(t, m.Create(ctx, newSim("a", "0811")))

	sims, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, sims, 2)
	require.Equal(t, "0811", sims[0].PhoneNumber)
	require.Equal(t, "0822", sims[1].PhoneNumber)
}

func TestMemory_FindActiveByIMEIExcludesDeactivated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	imei := "86000000000001"
	live := newSim("a", "0811")
	live.Status = types.SimStatusInstalled
	live.CurrentIMEI = &imei
	dead := newSim("b", "0822")
	dead.Status = types.SimStatusDeactivated
	dead.CurrentIMEI = &imei
	require.NoError(t, m.Create(ctx, live))
	require.NoError(t, m.Create(ctx, dead))

	holders, err := m.FindActiveByIMEI(ctx, imei)
	require.NoError(t, err)
	require.Len(t, holders, 1)
	require.Equal(t, "a", holders[0].ID)
}

func TestMemory_TransactRollsBackOnError(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, newSim("a", "0811")))

	boom := errors.New("boom")
	err := m.Transact(ctx, func(tx Store) error {
		sim, err := tx.Get(ctx, "a")
		if err != nil {
			return err
		}
		sim.Status = types.SimStatusActivated
		if err := tx.Update(ctx, sim); err != nil {
			return err
		}
		if err := tx.Create(ctx, newSim("b", "0822")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither the update nor the insert survived.
	sim, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusWarehouse, sim.Status)
	_, err = m.Get(ctx, "b")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_TransactCommitsOnSuccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Create(ctx, newSim("a", "0811")))

	err := m.Transact(ctx, func(tx Store) error {
		sim, err := tx.Get(ctx, "a")
		if err != nil {
			return err
		}
		sim.Status = types.SimStatusActivated
		return tx.Update(ctx, sim)
	})
	require.NoError(t, err)

	sim, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, types.SimStatusActivated, sim.Status)
}

func TestMemory_NestedTransactSharesStagedData(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.Transact(ctx, func(tx Store) error {
		if err := tx.Create(ctx, newSim("a", "0811")); err != nil {
			return err
		}
		return tx.Transact(ctx, func(inner Store) error {
			_, err := inner.Get(ctx, "a")
			return err
		})
	})
	require.NoError(t, err)
}

func TestMemory_HistoryAppendOnly(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.AppendHistory(ctx, &models.StatusHistory{ID: "h1", SimCardID: "a"}))
	require.NoError(t, m.AppendHistory(ctx, &models.StatusHistory{ID: "h2", SimCardID: "a"}))

	rows, err := m.ListHistory(ctx, "a")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "h1", rows[0].ID)
	require.Equal(t, "h2", rows[1].ID)
}
