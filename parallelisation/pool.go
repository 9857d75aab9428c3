/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package parallelisation

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// WorkerPool bounds the number of functions running at the same time across every group sharing it.
// A nil pool, or a pool created with no workers, is unbounded.
type WorkerPool struct {
	workers int
	sem     *semaphore.Weighted
}

// NewWorkerPool returns a pool allowing at most workers functions to run concurrently. Zero or less means unbounded.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		return &WorkerPool{}
	}
	return &WorkerPool{
		workers: workers,
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

// Acquire blocks until a slot is available or the context is done. The returned function releases the slot.
func (p *WorkerPool) Acquire(ctx context.Context) (release func(), err error) {
	release = func() {}
	if p == nil || p.sem == nil {
		err = DetermineContextError(ctx)
		return
	}
	if subErr := p.sem.Acquire(ctx, 1); subErr != nil {
		err = DetermineContextError(ctx)
		if err == nil {
			err = subErr
		}
		return
	}
	release = func() { p.sem.Release(1) }
	return
}

// Workers returns the maximum number of concurrent functions or 0 if unbounded.
func (p *WorkerPool) Workers() int {
	if p == nil {
		return 0
	}
	return p.workers
}
