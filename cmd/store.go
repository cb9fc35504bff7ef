package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/store"
)

// openStore is swapped out in tests.
var openStore = initStore

// initStore opens and migrates the run history store. It returns a nil
// Store when the driver is "none".
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch c.Store.Driver {
	case "none":
		return nil, nil
	case "sqlite", "":
		dsn := c.Store.DatabaseURL
		if dsn == "" {
			dsn = "leadclean.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, c.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: c.Store.MaxConns,
			MinConns: c.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// requireStore is initStore for commands that only make sense with history.
func requireStore(ctx context.Context, c *config.Config) (store.Store, error) {
	st, err := initStore(ctx, c)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("run history is disabled (store.driver = none)")
	}
	return st, nil
}
