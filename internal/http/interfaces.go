package httpx

import (
	"context"

	"github.com/stumbleable/jobs/internal/domain/model"
)

// LedgerReader is the read-only slice of the execution ledger the API uses.
type LedgerReader interface {
	GetByID(ctx context.Context, id string) (*model.JobExecution, error)
	List(ctx context.Context, q model.ExecutionQuery) ([]*model.JobExecution, error)
	Stats(ctx context.Context, jobName string, windowDays int) (*model.ExecutionStats, error)
}
