// Package store is the persistence boundary of the lifecycle engine. The
// engine only ever talks to the Store interface; the backing implementation is
// chosen once at process startup from configuration.
package store

import (
	"context"
	"errors"

	"github.com/nusatel/simfleet/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the record-store contract consumed by the lifecycle and report
// services. Uniqueness rules (phone number, live IMEI) are enforced by the
// callers, not by the store.
type Store interface {
	Get(ctx context.Context, id string) (*models.SimCard, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.SimCard, error)
	List(ctx context.Context) ([]*models.SimCard, error)

	// FindActiveByIMEI returns all non-deactivated SIMs currently holding the
	// IMEI (current_imei = ? AND status != DEACTIVATED).
	FindActiveByIMEI(ctx context.Context, imei string) ([]*models.SimCard, error)

	Create(ctx context.Context, sim *models.SimCard) error
	Update(ctx context.Context, sim *models.SimCard) error

	AppendHistory(ctx context.Context, row *models.StatusHistory) error
	ListHistory(ctx context.Context, simID string) ([]*models.StatusHistory, error)

	SaveInstallation(ctx context.Context, row *models.Installation) error

	SaveDevice(ctx context.Context, d *models.Device) error
	ListDevices(ctx context.Context) ([]*models.Device, error)
	SaveCustomer(ctx context.Context, c *models.Customer) error
	ListCustomers(ctx context.Context) ([]*models.Customer, error)

	// Transact runs fn atomically: either every write inside fn lands, or none
	// do. Multi-record transitions (replacement-on-install) must run here.
	Transact(ctx context.Context, fn func(Store) error) error
}
