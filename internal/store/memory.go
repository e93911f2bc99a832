package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nusatel/simfleet/internal/models"
)

// Memory is the in-process store used by tests and local development. Records
// are kept by value; reads hand out copies so callers can mutate freely before
// writing back.
type Memory struct {
	mu   sync.RWMutex
	data *memData
}

type memData struct {
	sims      map[string]models.SimCard
	history   map[string][]models.StatusHistory
	installs  []models.Installation
	devices   map[string]models.Device
	customers map[string]models.Customer
}

func newMemData() *memData {
	return &memData{
		sims:      make(map[string]models.SimCard),
		history:   make(map[string][]models.StatusHistory),
		devices:   make(map[string]models.Device),
		customers: make(map[string]models.Customer),
	}
}

func (d *memData) clone() *memData {
	c := newMemData()
	for k, v := range d.sims {
		c.sims[k] = v
	}
	for k, v := range d.history {
		c.history[k] = append([]models.StatusHistory(nil), v...)
	}
	c.installs = append([]models.Installation(nil), d.installs...)
	for k, v := range d.devices {
		c.devices[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	return c
}

func NewMemory() *Memory {
	return &Memory{data: newMemData()}
}

func (m *Memory) Get(ctx context.Context, id string) (*models.SimCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.get(id)
}

func (m *Memory) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.SimCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.getByPhoneNumber(phoneNumber)
}

func (m *Memory) List(ctx context.Context) ([]*models.SimCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.list()
}

func (m *Memory) FindActiveByIMEI(ctx context.Context, imei string) ([]*models.SimCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.findActiveByIMEI(imei)
}

func (m *Memory) Create(ctx context.Context, sim *models.SimCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.create(sim)
}

func (m *Memory) Update(ctx context.Context, sim *models.SimCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.update(sim)
}

func (m *Memory) AppendHistory(ctx context.Context, row *models.StatusHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.appendHistory(row)
}

func (m *Memory) ListHistory(ctx context.Context, simID string) ([]*models.StatusHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.listHistory(simID)
}

func (m *Memory) SaveInstallation(ctx context.Context, row *models.Installation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.saveInstallation(row)
}

func (m *Memory) SaveDevice(ctx context.Context, d *models.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.devices[d.IMEI] = *d
	return nil
}

func (m *Memory) ListDevices(ctx context.Context) ([]*models.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Device, 0, len(m.data.devices))
	for _, d := range m.data.devices {
		cp := d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IMEI < out[j].IMEI })
	return out, nil
}

func (m *Memory) SaveCustomer(ctx context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.customers[c.ID] = *c
	return nil
}

func (m *Memory) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Customer, 0, len(m.data.customers))
	for _, c := range m.data.customers {
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Transact runs fn against a cloned data set under the write lock and swaps
// the clone in only when fn succeeds, so a failure partway leaves nothing
// half-written.
func (m *Memory) Transact(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.data.clone()
	if err := fn(&memTx{data: staged}); err != nil {
		return err
	}
	m.data = staged
	return nil
}

// memTx is the unlocked view handed to Transact callbacks. The enclosing
// Memory holds the lock for the whole transaction.
type memTx struct {
	data *memData
}

func (t *memTx) Get(ctx context.Context, id string) (*models.SimCard, error) {
	return t.data.get(id)
}

func (t *memTx) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.SimCard, error) {
	return t.data.getByPhoneNumber(phoneNumber)
}

func (t *memTx) List(ctx context.Context) ([]*models.SimCard, error) {
	return t.data.list()
}

func (t *memTx) FindActiveByIMEI(ctx context.Context, imei string) ([]*models.SimCard, error) {
	return t.data.findActiveByIMEI(imei)
}

func (t *memTx) Create(ctx context.Context, sim *models.SimCard) error {
	return t.data.create(sim)
}

func (t *memTx) Update(ctx context.Context, sim *models.SimCard) error {
	return t.data.update(sim)
}

func (t *memTx) AppendHistory(ctx context.Context, row *models.StatusHistory) error {
	return t.data.appendHistory(row)
}

func (t *memTx) ListHistory(ctx context.Context, simID string) ([]*models.StatusHistory, error) {
	return t.data.listHistory(simID)
}

func (t *memTx) SaveInstallation(ctx context.Context, row *models.Installation) error {
	return t.data.saveInstallation(row)
}

func (t *memTx) SaveDevice(ctx context.Context, d *models.Device) error {
	t.data.devices[d.IMEI] = *d
	return nil
}

func (t *memTx) ListDevices(ctx context.Context) ([]*models.Device, error) {
	out := make([]*models.Device, 0, len(t.data.devices))
	for _, d := range t.data.devices {
		cp := d
		out = append(out, &cp)
	}
	return out, nil
}

func (t *memTx) SaveCustomer(ctx context.Context, c *models.Customer) error {
	t.data.customers[c.ID] = *c
	return nil
}

func (t *memTx) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	out := make([]*models.Customer, 0, len(t.data.customers))
	for _, c := range t.data.customers {
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

// Nested Transact inside an open transaction just runs fn on the same staged
// data; the outer transaction still decides commit or discard.
func (t *memTx) Transact(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}

func (d *memData) get(id string) (*models.SimCard, error) {
	sim, ok := d.sims[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := sim
	return &cp, nil
}

func (d *memData) getByPhoneNumber(phoneNumber string) (*models.SimCard, error) {
	for _, sim := range d.sims {
		if sim.PhoneNumber == phoneNumber {
			cp := sim
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (d *memData) list() ([]*models.SimCard, error) {
	out := make([]*models.SimCard, 0, len(d.sims))
	for _, sim := range d.sims {
		cp := sim
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PhoneNumber < out[j].PhoneNumber })
	return out, nil
}

func (d *memData) findActiveByIMEI(imei string) ([]*models.SimCard, error) {
	var out []*models.SimCard
	for _, sim := range d.sims {
		cp := sim
		if cp.Active() && cp.HoldsIMEI(imei) {
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PhoneNumber < out[j].PhoneNumber })
	return out, nil
}

func (d *memData) create(sim *models.SimCard) error {
	now := time.Now()
	sim.CreatedAt = now
	sim.UpdatedAt = now
	d.sims[sim.ID] = *sim
	return nil
}

func (d *memData) update(sim *models.SimCard) error {
	if _, ok := d.sims[sim.ID]; !ok {
		return ErrNotFound
	}
	sim.UpdatedAt = time.Now()
	d.sims[sim.ID] = *sim
	return nil
}

func (d *memData) appendHistory(row *models.StatusHistory) error {
	row.CreatedAt = time.Now()
	d.history[row.SimCardID] = append(d.history[row.SimCardID], *row)
	return nil
}

func (d *memData) listHistory(simID string) ([]*models.StatusHistory, error) {
	rows := d.history[simID]
	out := make([]*models.StatusHistory, 0, len(rows))
	for _, r := range rows {
		cp := r
		out = append(out, &cp)
	}
	return out, nil
}

func (d *memData) saveInstallation(row *models.Installation) error {
	row.CreatedAt = time.Now()
	d.installs = append(d.installs, *row)
	return nil
}
