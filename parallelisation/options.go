/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package parallelisation

type StoreOptions struct {
	stopOnFirstError bool
	sequential       bool
	reverse          bool
	joinErrors       bool
	onlyOnce         bool
	workers          int
	pool             *WorkerPool
}

func (o *StoreOptions) Default() *StoreOptions {
	*o = StoreOptions{}
	return o
}

func (o *StoreOptions) Merge(opts *StoreOptions) *StoreOptions {
	if opts == nil {
		return o
	}
	o.stopOnFirstError = opts.stopOnFirstError || o.stopOnFirstError
	o.sequential = opts.sequential || o.sequential
	o.reverse = opts.reverse || o.reverse
	o.joinErrors = opts.joinErrors || o.joinErrors
	o.onlyOnce = opts.onlyOnce || o.onlyOnce
	o.workers = max(opts.workers, o.workers)
	if opts.pool != nil {
		o.pool = opts.pool
	}
	return o
}

// Options returns the options as a list of StoreOption which can be applied to another group.
func (o *StoreOptions) Options() []StoreOption {
	return []StoreOption{
		func(opts *StoreOptions) *StoreOptions {
			if opts == nil {
				opts = DefaultOptions()
			}
			return opts.Merge(o)
		},
	}
}

type StoreOption func(*StoreOptions) *StoreOptions

// StopOnFirstError stops ExecutionGroup execution on first error.
var StopOnFirstError StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.stopOnFirstError = true
	o.joinErrors = false
	return o
}

// JoinErrors collates any errors which happened when executing functions in ExecutionGroup.
// This option should not be used in combination with StopOnFirstError.
var JoinErrors StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.stopOnFirstError = false
	o.joinErrors = true
	return o
}

// OnlyOnce ensures the functions are executed only once, however often the group is executed.
var OnlyOnce StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.onlyOnce = true
	return o
}

// ExecuteAll executes all functions in the ExecutionGroup even if an error is raised. The first error raised is then returned.
var ExecuteAll StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.stopOnFirstError = false
	return o
}

// Parallel ensures every function registered in the ExecutionGroup is executed concurrently.
var Parallel StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.sequential = false
	return o
}

// Sequential ensures every function registered in the ExecutionGroup is executed sequentially in the order they were registered.
var Sequential StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.sequential = true
	return o
}

// SequentialInReverse ensures every function registered in the ExecutionGroup is executed sequentially but in the reverse order they were registered.
var SequentialInReverse StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.sequential = true
	o.reverse = true
	return o
}

// Workers defines a limit number of workers for executing the functions registered in the ExecutionGroup.
func Workers(workers int) StoreOption {
	return func(o *StoreOptions) *StoreOptions {
		if o == nil {
			o = DefaultOptions()
		}
		o.workers = workers
		o.sequential = false
		return o
	}
}

// WithWorkerPool makes every function acquire a slot from a pool shared with other groups before running.
func WithWorkerPool(pool *WorkerPool) StoreOption {
	return func(o *StoreOptions) *StoreOptions {
		if o == nil {
			o = DefaultOptions()
		}
		o.pool = pool
		return o
	}
}

// WithOptions defines a store configuration.
func WithOptions(option ...StoreOption) (opts *StoreOptions) {
	for i := range option {
		if option[i] != nil {
			opts = option[i](opts)
		}
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return
}

// DefaultOptions returns the default store configuration
func DefaultOptions() *StoreOptions {
	opts := &StoreOptions{}
	return opts.Default()
}
