package storage

import (
	"context"

	"onemax/internal/model"
)

// Store persists finished run history. Population state is never stored,
// so nothing here can resume a run.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns summaries newest first; limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error)
	DeleteRun(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}
