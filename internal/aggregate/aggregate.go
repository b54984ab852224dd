package aggregate

import (
	"errors"
	"fmt"
)

// ErrInvalidChunkSize is returned by Chunk when size is not positive.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Chunk splits items into contiguous batches of at most size elements.
// Rules:
// - Concatenating the batches in order reproduces items exactly.
// - Only the last batch may be shorter than size.
// - Empty input yields zero batches.
// Batches share the backing array of items; callers must not append to them.
func Chunk[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		j := min(i+size, len(items))
		out = append(out, items[i:j:j])
	}
	return out, nil
}

// Merge copies src into dst and returns dst, allocating it when nil.
// Keys already present in dst are overwritten (later batch wins).
func Merge[K comparable, V any](dst, src map[K]V) map[K]V {
	if dst == nil {
		dst = make(map[K]V, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
