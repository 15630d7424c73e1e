package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/edudocs-api/pkg/batch"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

// BulkResult summarises a chunked bulk operation.
type BulkResult struct {
	Applied []string `json:"applied"`
	Chunks  int      `json:"chunks"`
}

// commitBulk applies items in sequential chunks and converts a partial failure into a
// PARTIAL_BATCH_FAILURE error whose details list the applied and remaining ids.
func commitBulk[T any](ctx context.Context, metrics *MetricsService, operation string, items []T, maxSize int, idOf func(T) string, commit batch.CommitFunc[T]) (BulkResult, error) {
	result, err := batch.Commit(ctx, items, maxSize, commit)
	metrics.RecordBatchChunks(operation, result.Chunks, err != nil)

	out := BulkResult{Applied: mapIDs(result.Applied, idOf), Chunks: result.Chunks}
	if err == nil {
		return out, nil
	}

	var partial *batch.PartialError[T]
	if errors.As(err, &partial) {
		failure := appErrors.Clone(appErrors.ErrPartialBatchFailure, fmt.Sprintf("%s applied %d of %d items", operation, len(partial.Applied), len(items)))
		failure.Details = map[string][]string{
			"applied":   mapIDs(partial.Applied, idOf),
			"remaining": mapIDs(partial.Remaining, idOf),
		}
		failure.Err = partial
		return out, failure
	}
	return out, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, operation+" failed")
}

func mapIDs[T any](items []T, idOf func(T) string) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, idOf(item))
	}
	return ids
}

func identity(s string) string { return s }
