// Package store keeps a history of processed batches. Only batch metadata
// is recorded; leads themselves are never written.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/model"
)

// ErrNotFound is returned when a run ID has no record.
var ErrNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Mode   model.RunMode `json:"mode,omitempty"`
	Source string        `json:"source,omitempty"`
	Limit  int           `json:"limit,omitempty"`
	Offset int           `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	// CreateRun stores run, assigning ID and CreatedAt when unset.
	CreateRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	// PruneRuns deletes runs created before cutoff and returns how many went.
	PruneRuns(ctx context.Context, cutoff time.Time) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

// prepare fills in generated fields and encodes the JSON columns.
func prepare(run *model.Run) (assignment, summary []byte, err error) {
	if run == nil {
		return nil, nil, eris.New("store: nil run")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()
	if run.Summary.Tiers == nil {
		run.Summary.Tiers = map[model.Tier]int{}
	}

	assignment, err = json.Marshal(run.Assignment)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal assignment")
	}
	summary, err = json.Marshal(run.Summary)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal summary")
	}
	return assignment, summary, nil
}

func decode(r *model.Run, assignment, summary []byte) error {
	if err := json.Unmarshal(assignment, &r.Assignment); err != nil {
		return eris.Wrap(err, "store: unmarshal assignment")
	}
	if err := json.Unmarshal(summary, &r.Summary); err != nil {
		return eris.Wrap(err, "store: unmarshal summary")
	}
	return nil
}

func listLimit(f RunFilter) int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Record stores run in s when history is enabled. A nil s is a no-op.
// Failures are logged here; the returned error only tells the caller that
// run.ID was not persisted, and callers carry on with their output.
func Record(ctx context.Context, s Store, run *model.Run) error {
	if s == nil {
		return nil
	}
	if run == nil {
		return eris.New("store: nil run")
	}
	if err := s.CreateRun(ctx, run); err != nil {
		zap.L().Warn("store: record run failed", zap.String("source", run.Source), zap.Error(err))
		return err
	}
	zap.L().Debug("store: run recorded", zap.String("run_id", run.ID), zap.String("mode", string(run.Mode)))
	return nil
}
