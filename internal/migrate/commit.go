package migrate

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/JonMunkholm/helpdesk-migrate/internal/store"
)

// chunkRetryMaxElapsed bounds how long one chunk is retried before its
// failure is recorded and the run moves on.
const chunkRetryMaxElapsed = 15 * time.Second

// BatchFailure records one chunk that could not be committed.
type BatchFailure struct {
	Index int
	Size  int
	Err   error
}

// CommitReport summarizes one commit pass.
type CommitReport struct {
	Batches  int
	Inserted int
	Failures []BatchFailure
}

// Committer writes records to the store in bounded chunks. A failed chunk
// is retried with backoff, then recorded; the remaining chunks still run.
type Committer struct {
	store store.Store
	retry func() backoff.BackOff
}

func NewCommitter(st store.Store) *Committer {
	return &Committer{
		store: st,
		retry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = chunkRetryMaxElapsed
			return b
		},
	}
}

// Commit splits records into chunks of at most batchSize and inserts each
// chunk as one store call. The last chunk may be smaller. Per-chunk
// failures are isolated: they land in the report, not in the error return.
func (c *Committer) Commit(ctx context.Context, collection string, records []Record, batchSize int) CommitReport {
	var report CommitReport
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		chunk := make([]map[string]any, 0, end-start)
		for _, r := range records[start:end] {
			chunk = append(chunk, r)
		}

		idx := report.Batches
		report.Batches++

		var inserted int
		op := func() error {
			n, err := c.store.InsertBatch(ctx, collection, chunk)
			if err != nil {
				return err
			}
			inserted = n
			return nil
		}

		err := backoff.Retry(op, backoff.WithContext(c.retry(), ctx))
		if err != nil {
			slog.Error("batch insert failed",
				"collection", collection,
				"batch", idx,
				"size", len(chunk),
				"error", err,
			)
			report.Failures = append(report.Failures, BatchFailure{Index: idx, Size: len(chunk), Err: err})
			continue
		}

		report.Inserted += inserted
		slog.Debug("batch committed",
			"collection", collection,
			"batch", idx,
			"inserted", inserted,
		)
	}

	return report
}
