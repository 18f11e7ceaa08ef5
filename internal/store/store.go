package store

import (
	"context"
	"time"

	"github.com/nhle/mailgroom/internal/pipeline"
)

// RunRecord is one persisted clean run: what was asked for, what came
// out, and the full action trail.
type RunRecord struct {
	// ID is the unique identifier for this run.
	ID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Source describes what triggered the run (e.g., "cli", "json",
	// "draft:42").
	Source string

	// Steps is the enabled step sequence the run executed.
	Steps []string

	TotalProcessed int
	TotalRemaining int
	StepsExecuted  int

	// Actions is the complete ordered audit trail of the run.
	Actions []pipeline.ActionRecord
}

// Store defines the persistence interface for run history.
type Store interface {
	SaveRun(ctx context.Context, run RunRecord) error
	GetRuns(ctx context.Context, limit int) ([]RunRecord, error)
	GetRunByID(ctx context.Context, id string) (*RunRecord, error)
	Close() error
}
