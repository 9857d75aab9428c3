/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package parallelisation provides groups of functions executed sequentially or concurrently.
package parallelisation

import (
	"context"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

type IExecutor interface {
	// Execute executes all the functions in the group.
	Execute(ctx context.Context) error
}

type IExecutionGroup[T any] interface {
	IExecutor
	RegisterFunction(function ...T)
	Len() int
}

type ExecuteFunc[T any] func(ctx context.Context, element T) error

type ExecutionGroup[T any] struct {
	mu          deadlock.RWMutex
	functions   []wrappedElement[T]
	executeFunc ExecuteFunc[T]
	options     StoreOptions
}

// NewExecutionGroup returns an execution group which executes functions according to store options.
func NewExecutionGroup[T any](executeFunc ExecuteFunc[T], options ...StoreOption) *ExecutionGroup[T] {
	return &ExecutionGroup[T]{
		functions:   make([]wrappedElement[T], 0),
		executeFunc: executeFunc,
		options:     *WithOptions(options...),
	}
}

// RegisterFunction registers functions to the group.
func (s *ExecutionGroup[T]) RegisterFunction(function ...T) {
	defer s.mu.Unlock()
	s.mu.Lock()
	for i := range function {
		s.functions = append(s.functions, newWrapped(function[i], s.options.onlyOnce))
	}
}

func (s *ExecutionGroup[T]) Len() int {
	defer s.mu.RUnlock()
	s.mu.RLock()
	return len(s.functions)
}

// Execute executes all the functions in the group according to store options.
func (s *ExecutionGroup[T]) Execute(ctx context.Context) (err error) {
	defer s.mu.RUnlock()
	s.mu.RLock()
	if s.executeFunc == nil {
		return commonerrors.New(commonerrors.ErrUndefined, "the group was not initialised correctly")
	}
	if s.options.sequential {
		err = s.executeSequentially(ctx)
	} else {
		err = s.executeConcurrently(ctx)
	}
	return
}

func (s *ExecutionGroup[T]) executeConcurrently(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	if !s.options.stopOnFirstError {
		gCtx = ctx
	}
	funcNum := len(s.functions)
	if s.options.workers > 0 {
		g.SetLimit(s.options.workers)
	}
	errs := make([]error, funcNum)
	for i := range s.functions {
		g.Go(func() error {
			_, subErr := s.executeFunction(gCtx, s.functions[i])
			errs[i] = subErr
			return subErr
		})
	}
	err := g.Wait()
	if s.options.joinErrors {
		err = commonerrors.Join(errs...)
	}
	return err
}

func (s *ExecutionGroup[T]) executeSequentially(ctx context.Context) (err error) {
	err = DetermineContextError(ctx)
	if err != nil {
		return
	}
	funcNum := len(s.functions)
	errs := make([]error, 0, funcNum)
	for j := 0; j < funcNum; j++ {
		i := j
		if s.options.reverse {
			i = funcNum - j - 1
		}
		shouldBreak, subErr := s.executeFunction(ctx, s.functions[i])
		errs = append(errs, subErr)
		if shouldBreak {
			err = subErr
			return
		}
		if subErr != nil && err == nil {
			err = subErr
			if s.options.stopOnFirstError {
				return
			}
		}
	}
	if s.options.joinErrors {
		err = commonerrors.Join(errs...)
	}
	return
}

func (s *ExecutionGroup[T]) executeFunction(ctx context.Context, w wrappedElement[T]) (mustBreak bool, err error) {
	err = DetermineContextError(ctx)
	if err != nil {
		mustBreak = true
		return
	}
	if w == nil {
		err = commonerrors.UndefinedVariable("function element")
		mustBreak = true
		return
	}
	release, err := s.options.pool.Acquire(ctx)
	if err != nil {
		mustBreak = true
		return
	}
	defer release()
	err = w.Execute(ctx, s.executeFunc)
	return
}

type wrappedElement[T any] interface {
	Execute(ctx context.Context, f ExecuteFunc[T]) error
}

type basicWrap[T any] struct {
	value T
}

func (w *basicWrap[T]) Execute(ctx context.Context, f ExecuteFunc[T]) error {
	return f(ctx, w.value)
}

type once[T any] struct {
	wrappedElement[T]
	once *atomic.Bool
}

func (w *once[T]) Execute(ctx context.Context, f ExecuteFunc[T]) error {
	if !w.once.Swap(true) {
		return w.wrappedElement.Execute(ctx, f)
	}
	return nil
}

func newWrapped[T any](e T, onlyOnce bool) wrappedElement[T] {
	w := &basicWrap[T]{value: e}
	if onlyOnce {
		return &once[T]{wrappedElement: w, once: atomic.NewBool(false)}
	}
	return w
}
