package model

import "time"

// RunMode describes how the column assignment of a batch was obtained.
type RunMode string

const (
	RunModeAuto    RunMode = "auto"
	RunModeManual  RunMode = "manual"
	RunModeMessage RunMode = "message"
)

// Run is the stored record of one processed batch. It carries only batch
// metadata; individual leads are never persisted.
type Run struct {
	ID         string           `json:"id" yaml:"id"`
	Source     string           `json:"source" yaml:"source"`
	Mode       RunMode          `json:"mode" yaml:"mode"`
	Assignment ColumnAssignment `json:"assignment" yaml:"assignment"`
	Summary    BatchSummary     `json:"summary" yaml:"summary"`
	CreatedAt  time.Time        `json:"created_at" yaml:"created_at"`
}
