package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/scorer"
	"github.com/sells-group/leadclean/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "runs.db"),
		},
		Notion:   config.NotionConfig{Token: "secret", LeadDB: "db-1", RateLimitRPS: 0},
		Detect:   config.DetectConfig{SampleSize: 30},
		Pipeline: config.PipelineConfig{DedupMode: "field", Concurrency: 2},
		Scoring:  scorer.DefaultConfig(),
		Server:   config.ServerConfig{Port: 8080, MaxUploadMB: 10, RateLimitRPS: 5},
		Log:      config.LogConfig{Level: "info", Format: "json"},
	}
}

// failingStore rejects every write.
type failingStore struct {
	store.Store
	closed bool
}

func (f *failingStore) CreateRun(context.Context, *model.Run) error {
	return eris.New("disk full")
}

func (f *failingStore) Close() error {
	f.closed = true
	return nil
}

// useStore makes openStore return st, err for the rest of the test.
func useStore(t *testing.T, st store.Store, err error) {
	t.Helper()
	prev := openStore
	openStore = func(context.Context, *config.Config) (store.Store, error) { return st, err }
	t.Cleanup(func() { openStore = prev })
}
