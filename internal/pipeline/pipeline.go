// Package pipeline turns a batch of raw rows into cleaned leads, rejected
// leads, and a summary.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/dedup"
	"github.com/sells-group/leadclean/internal/detect"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/normalize"
	"github.com/sells-group/leadclean/internal/scorer"
)

const defaultConcurrency = 4

// Result is the complete output of one batch.
type Result struct {
	Mode       model.RunMode          `json:"mode"`
	Assignment model.ColumnAssignment `json:"assignment"`
	Cleaned    []model.NormalizedLead `json:"cleaned"`
	Rejected   []model.RejectedLead   `json:"rejected"`
	Summary    model.BatchSummary     `json:"summary"`
}

// Pipeline composes detection, normalization, dedup, and scoring.
// A Pipeline keeps no per-batch state and may serve concurrent batches.
type Pipeline struct {
	detector    *detect.Detector
	scorer      *scorer.Scorer
	dedupMode   dedup.Mode
	concurrency int
}

// New builds a Pipeline from configuration.
func New(cfg *config.Config) (*Pipeline, error) {
	mode, err := dedup.ParseMode(cfg.Pipeline.DedupMode)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: dedup mode")
	}
	if err := scorer.ValidateConfig(cfg.Scoring); err != nil {
		return nil, err
	}
	return NewWith(detect.New(cfg.Detect.SampleSize), scorer.New(cfg.Scoring), mode, cfg.Pipeline.Concurrency), nil
}

// NewWith builds a Pipeline from its parts. A non-positive concurrency uses
// the default.
func NewWith(d *detect.Detector, s *scorer.Scorer, mode dedup.Mode, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pipeline{detector: d, scorer: s, dedupMode: mode, concurrency: concurrency}
}

// Scorer returns the scorer shared with the message variant.
func (p *Pipeline) Scorer() *scorer.Scorer {
	return p.scorer
}

// Run resolves the column assignment and processes the batch. When override
// names all of name, email, and phone those columns are used as given and
// must exist in columns; otherwise all three are detected. The message
// column of override is honored in both modes.
func (p *Pipeline) Run(ctx context.Context, rows []model.RawRow, columns []string, override *model.ColumnAssignment) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	var (
		a    model.ColumnAssignment
		mode model.RunMode
	)
	if IsManual(override) {
		a, mode = *override, model.RunModeManual
		if err := requireColumns(columns, a.Name, a.Email, a.Phone); err != nil {
			return nil, err
		}
	} else {
		detected, err := p.detector.Columns(rows, columns)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: detect columns")
		}
		a, mode = detected, model.RunModeAuto
		if override != nil {
			a.Message = override.Message
		}
	}
	if a.Message != "" {
		if err := requireColumns(columns, a.Message); err != nil {
			return nil, err
		}
	}

	res, err := p.Process(ctx, rows, a)
	if err != nil {
		return nil, err
	}
	res.Mode = mode
	return res, nil
}

// IsManual reports whether an override fully specifies the three lead columns.
func IsManual(override *model.ColumnAssignment) bool {
	return override != nil && override.Name != "" && override.Email != "" && override.Phone != ""
}

// candidate is a row after extraction and normalization, before the dedup gate.
type candidate struct {
	rawName  string
	rawEmail string
	rawPhone string
	email    string
	phone    string
	message  string
	reason   model.RejectReason
}

// Process applies the assignment to every row and partitions the batch.
// Output order follows input order within both sequences.
func (p *Pipeline) Process(ctx context.Context, rows []model.RawRow, a model.ColumnAssignment) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}
	// Normalization is independent per row; results land at their own index.
	cands := make([]candidate, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, row := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cands[i] = extract(row, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: normalize rows")
	}

	// The dedup gate runs in input order so the first occurrence wins.
	idx := dedup.NewIndex(p.dedupMode)
	res := &Result{
		Assignment: a,
		Cleaned:    make([]model.NormalizedLead, 0, len(rows)),
		Rejected:   make([]model.RejectedLead, 0),
	}
	for i, c := range cands {
		if c.reason == "" {
			if reason, ok := idx.Admit(c.email, c.phone); !ok {
				c.reason = reason
			}
		}
		if c.reason != "" {
			zap.L().Debug("pipeline: row rejected",
				zap.Int("row", i+1),
				zap.String("reason", string(c.reason)),
			)
			res.Rejected = append(res.Rejected, model.RejectedLead{
				Name:     c.rawName,
				RawEmail: c.rawEmail,
				RawPhone: c.rawPhone,
				Reason:   c.reason,
			})
			continue
		}

		score := p.scorer.Score(c.email, c.phone, c.message)
		res.Cleaned = append(res.Cleaned, model.NormalizedLead{
			Name:      normalize.Name(c.rawName),
			Email:     c.email,
			Phone:     c.phone,
			Score:     score.Score,
			Tier:      score.Tier,
			Rationale: score.Rationale,
		})
	}

	res.Summary = model.Summarize(res.Cleaned, res.Rejected)

	zap.L().Info("pipeline: batch complete",
		zap.Int("total", res.Summary.Total),
		zap.Int("valid", res.Summary.Valid),
		zap.Int("invalid", res.Summary.Invalid),
		zap.Int("duplicates", res.Summary.Duplicates),
	)
	return res, nil
}

// extract pulls the assigned fields from a row and normalizes them. The email
// is validated before the phone.
func extract(row model.RawRow, a model.ColumnAssignment) candidate {
	c := candidate{
		rawName:  row.Get(a.Name),
		rawEmail: row.Get(a.Email),
		rawPhone: row.Get(a.Phone),
		message:  row.Get(a.Message),
	}

	email, ok := normalize.Email(c.rawEmail)
	if !ok {
		c.reason = model.ReasonInvalidEmail
		return c
	}
	phone, ok := normalize.Phone(c.rawPhone)
	if !ok {
		c.reason = model.ReasonInvalidPhone
		return c
	}
	c.email, c.phone = email, phone
	return c
}
