package storage

import (
	"context"
	"fmt"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/config"
)

// NewStore builds the persistence gateway selected by the configuration.
func NewStore(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		return NewMongoStore(ctx, cfg.DatabaseURL, cfg.DatabaseName, logger)
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN, logger)
	case config.BackendFile:
		return NewFileStore(cfg.UsersFile, cfg.SessionsFile, cfg.EventsFile, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
