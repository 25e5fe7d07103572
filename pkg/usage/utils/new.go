package usageutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/chatgate/pkg/logger"
	"github.com/papercomputeco/chatgate/pkg/usage"
	"github.com/papercomputeco/chatgate/pkg/usage/inmemory"
	"github.com/papercomputeco/chatgate/pkg/usage/postgres"
	"github.com/papercomputeco/chatgate/pkg/usage/sqlite"
)

type NewStoreOpts struct {
	PostgresDSN string
	SQLitePath  string
	Logger      *slog.Logger
}

// NewStore picks the usage backend: PostgreSQL when a DSN is set, else SQLite
// when a path is set, else in-memory.
func NewStore(ctx context.Context, o *NewStoreOpts) (usage.Store, error) {
	log := o.Logger
	if log == nil {
		log = logger.Nop()
	}

	switch {
	case o.PostgresDSN != "":
		s, err := postgres.NewStore(ctx, o.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("creating postgres usage store: %w", err)
		}
		log.Info("using PostgreSQL usage store")
		return s, nil
	case o.SQLitePath != "":
		s, err := sqlite.NewStore(ctx, o.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite usage store: %w", err)
		}
		log.Info("using SQLite usage store", "path", o.SQLitePath)
		return s, nil
	default:
		log.Info("using in-memory usage store")
		return inmemory.NewStore(), nil
	}
}
