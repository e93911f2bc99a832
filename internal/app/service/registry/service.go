// Package registry manages the device and customer reference records. These
// are attribution-only: the lifecycle engine never validates a SIM's IMEI or
// customer against them.
package registry

import (
	"context"

	"go.uber.org/zap"

	"github.com/nusatel/simfleet/internal/models"
	"github.com/nusatel/simfleet/internal/store"
	"github.com/nusatel/simfleet/pkg/logctx"
	"github.com/nusatel/simfleet/pkg/tool"
)

type Service struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewService(st store.Store, log *zap.SugaredLogger) *Service {
	return &Service{store: st, log: log}
}

type DeviceInput struct {
	IMEI    string  `json:"imei" binding:"required"`
	Name    string  `json:"name"`
	Model   string  `json:"model"`
	Plate   string  `json:"plate"`
	Notes   string  `json:"notes"`
	OwnerID *string `json:"owner_id"`
}

type CustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (s *Service) SaveDevice(ctx context.Context, in DeviceInput) (*models.Device, error) {
	d := &models.Device{
		ID:      tool.NewID(),
		IMEI:    in.IMEI,
		Name:    in.Name,
		Model:   in.Model,
		Plate:   in.Plate,
		Notes:   in.Notes,
		OwnerID: in.OwnerID,
	}
	if err := s.store.SaveDevice(ctx, d); err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("device saved", "device_id", d.ID, "imei", d.IMEI)
	return d, nil
}

func (s *Service) ListDevices(ctx context.Context) ([]*models.Device, error) {
	return s.store.ListDevices(ctx)
}

func (s *Service) SaveCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	c := &models.Customer{
		ID:      tool.NewID(),
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
	}
	if err := s.store.SaveCustomer(ctx, c); err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("customer saved", "customer_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.store.ListCustomers(ctx)
}
