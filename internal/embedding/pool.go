package embedding

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrent calls into an embedder.
// One Pool is shared by every request in the process.
type Pool struct {
	inner Embedder
	sem   *semaphore.Weighted
}

// NewPool creates a pool allowing up to workers concurrent calls
func NewPool(inner Embedder, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{inner: inner, sem: semaphore.NewWeighted(int64(workers))}
}

// Embed waits for a free slot, then delegates
func (p *Pool) Embed(ctx context.Context, texts []string) (Result, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return Result{}, err
	}
	defer p.sem.Release(1)
	return p.inner.Embed(ctx, texts)
}
