package store

import (
	"context"
	"fmt"

	"github.com/pbaille/jobtrack/internal/config"
)

// OpenBackend builds the backend selected by cfg
func OpenBackend(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.Path)
	case config.DriverRedis:
		return OpenRedis(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	case config.DriverFile:
		return NewFile(cfg.Path)
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverNone:
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
