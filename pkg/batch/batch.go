package batch

import (
	"context"
	"fmt"
)

// DefaultMaxSize keeps chunks safely under common store batch ceilings.
const DefaultMaxSize = 450

// Chunk splits items into consecutive slices of at most maxSize elements.
func Chunk[T any](items []T, maxSize int) [][]T {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+maxSize-1)/maxSize)
	for start := 0; start < len(items); start += maxSize {
		end := start + maxSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// CommitFunc atomically applies one chunk.
type CommitFunc[T any] func(ctx context.Context, chunk []T) error

// Result reports which items were committed before a failure.
type Result[T any] struct {
	Applied   []T
	Remaining []T
	Chunks    int
}

// PartialError is returned when a later chunk fails after earlier chunks were committed.
type PartialError[T any] struct {
	Result[T]
	Err error
}

func (e *PartialError[T]) Error() string {
	return fmt.Sprintf("batch committed %d of %d items: %v", len(e.Applied), len(e.Applied)+len(e.Remaining), e.Err)
}

func (e *PartialError[T]) Unwrap() error {
	return e.Err
}

// Commit applies items chunk by chunk, sequentially, stopping at the first failed chunk.
// When nothing was committed the commit error is returned unchanged; otherwise a
// *PartialError carries the applied and remaining items.
func Commit[T any](ctx context.Context, items []T, maxSize int, commit CommitFunc[T]) (Result[T], error) {
	var result Result[T]
	chunks := Chunk(items, maxSize)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return result, wrapPartial(result, items, err)
		}
		if err := commit(ctx, chunk); err != nil {
			return result, wrapPartial(result, items, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err))
		}
		result.Applied = append(result.Applied, chunk...)
		result.Chunks++
	}
	return result, nil
}

func wrapPartial[T any](result Result[T], items []T, err error) error {
	if len(result.Applied) == 0 {
		return err
	}
	result.Remaining = append([]T(nil), items[len(result.Applied):]...)
	return &PartialError[T]{Result: result, Err: err}
}
