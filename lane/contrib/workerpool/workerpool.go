// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for
// lane-parallel kernel evaluation. A Pool is created once per engine and
// shared by every evaluation, so a call pays for a barrier rather than for
// spawning goroutines.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	err := pool.ParallelForBatched(ctx, lanes, 1024, func(start, end int) {
//	    evalLanes(start, end)
//	})
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem

	// mu is held for reading while a call queues its items and for writing
	// by Close, so workC is never sent to after it is closed.
	mu     sync.RWMutex
	closed bool
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe, and so is calling it while other
// goroutines are in ParallelForBatched: they either finish on the workers
// or run on the caller.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.workC)
}

// ParallelForBatched executes fn over [0, n) in batches of batchSize using
// atomic work stealing. Workers check ctx before grabbing each batch and
// stop once it is done. Blocks until every started batch has returned.
//
// It returns ctx.Err() if the context ended before all batches ran, in
// which case some ranges were never passed to fn.
func (p *Pool) ParallelForBatched(ctx context.Context, n, batchSize int, fn func(start, end int)) error {
	if n <= 0 {
		return ctx.Err()
	}

	if batchSize <= 0 {
		batchSize = 1
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)

	p.mu.RLock()
	if workers == 1 || p.closed {
		p.mu.RUnlock()
		return serial(ctx, n, batchSize, fn)
	}

	var nextBatch atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for ctx.Err() == nil {
					batch := int(nextBatch.Add(1)) - 1
					start := batch * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			barrier: &wg,
		}
	}
	p.mu.RUnlock()

	wg.Wait()

	if int(nextBatch.Load()) < numBatches {
		return ctx.Err()
	}
	return nil
}

// serial runs every batch on the caller.
func serial(ctx context.Context, n, batchSize int, fn func(start, end int)) error {
	for start := 0; start < n; start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(start, min(start+batchSize, n))
	}
	return ctx.Err()
}
