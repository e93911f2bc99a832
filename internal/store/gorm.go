package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/pkg/types"
)

// Gorm backs the store with a relational database (postgres in prod, sqlite
// for local runs); the dialect is decided by the connection, not here.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Get(ctx context.Context, id string) (*models.SimCard, error) {
	var sim models.SimCard
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&sim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sim card: %w", err)
	}
	return &sim, nil
}

func (g *Gorm) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.SimCard, error) {
	var sim models.SimCard
	if err := g.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).First(&sim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sim card by phone number: %w", err)
	}
	return &sim, nil
}

func (g *Gorm) List(ctx context.Context) ([]*models.SimCard, error) {
	var sims []*models.SimCard
	if err := g.db.WithContext(ctx).Order("phone_number asc").Find(&sims).Error; err != nil {
		return nil, fmt.Errorf("failed to list sim cards: %w", err)
	}
	return sims, nil
}

func (g *Gorm) FindActiveByIMEI(ctx context.Context, imei string) ([]*models.SimCard, error) {
	var sims []*models.SimCard
	err := g.db.WithContext(ctx).
		Where("current_imei = ?", imei).
		Where("status != ?", types.SimStatusDeactivated).
		Find(&sims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active sims by imei: %w", err)
	}
	return sims, nil
}

func (g *Gorm) Create(ctx context.Context, sim *models.SimCard) error {
	if err := g.db.WithContext(ctx).Create(sim).Error; err != nil {
		return fmt.Errorf("failed to create sim card: %w", err)
	}
	return nil
}

func (g *Gorm) Update(ctx context.Context, sim *models.SimCard) error {
	if err := g.db.WithContext(ctx).Save(sim).Error; err != nil {
		return fmt.Errorf("failed to update sim card: %w", err)
	}
	return nil
}

func (g *Gorm) AppendHistory(ctx context.Context, row *models.StatusHistory) error {
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}

func (g *Gorm) ListHistory(ctx context.Context, simID string) ([]*models.StatusHistory, error) {
	var rows []*models.StatusHistory
	err := g.db.WithContext(ctx).
		Where("sim_card_id = ?", simID).
		Order("changed_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	return rows, nil
}

func (g *Gorm) SaveInstallation(ctx context.Context, row *models.Installation) error {
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save installation: %w", err)
	}
	return nil
}

func (g *Gorm) SaveDevice(ctx context.Context, d *models.Device) error {
	if err := g.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("failed to save device: %w", err)
	}
	return nil
}

func (g *Gorm) ListDevices(ctx context.Context) ([]*models.Device, error) {
	var rows []*models.Device
	if err := g.db.WithContext(ctx).Order("imei asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return rows, nil
}

func (g *Gorm) SaveCustomer(ctx context.Context, c *models.Customer) error {
	if err := g.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (g *Gorm) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	var rows []*models.Customer
	if err := g.db.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return rows, nil
}

// filtersAnd joins generic filters into one AND expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanSims implements paginated admin listing with filters.
func (g *Gorm) ScanSims(ctx context.Context, req *ScanSimsRequest) (*ScanSimsResult, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := g.db.WithContext(ctx).Model(&models.SimCard{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sim cards: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}

	var rows []*models.SimCard
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to scan sim cards: %w", err)
	}
	return &ScanSimsResult{Items: rows, Total: total}, nil
}

func (g *Gorm) Transact(ctx context.Context, fn func(Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}
