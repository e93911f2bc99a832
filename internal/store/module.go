package store

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nusatel/simfleet/pkg/config"
)

// New selects the store backend once at startup. Nothing downstream ever
// branches on the backend again.
func New(cfg *config.Config, log *zap.SugaredLogger, db *gorm.DB) (Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		log.Infow("using in-memory record store")
		return NewMemory(), nil
	case "", "gorm":
		if db == nil {
			return nil, fmt.Errorf("store backend %q requires a database connection", cfg.Store.Backend)
		}
		log.Infow("using gorm record store", "driver", cfg.Database.Driver)
		return NewGorm(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}

var Module = fx.Options(
	fx.Provide(New),
)
