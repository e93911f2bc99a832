package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/nusatel/simfleet/internal/app/api/server"
	"github.com/nusatel/simfleet/internal/app/service/lifecycle"
	"github.com/nusatel/simfleet/internal/app/service/registry"
	"github.com/nusatel/simfleet/internal/app/service/report"
	"github.com/nusatel/simfleet/internal/platform/cache"
	"github.com/nusatel/simfleet/internal/platform/db"
	"github.com/nusatel/simfleet/internal/store"
	"github.com/nusatel/simfleet/pkg/config"
	"github.com/nusatel/simfleet/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	cache.Module,
	store.Module,
	server.Module,
	lifecycle.Module,
	report.Module,
	registry.Module,
)
