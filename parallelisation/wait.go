/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package parallelisation

import (
	"context"
	"time"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

type IWaiter interface {
	Wait() error
}

// WaitWithContext waits for the waiter to return or for the context to be done, whichever happens first.
// If the context is done first, the waiter keeps running in the background.
func WaitWithContext(ctx context.Context, wg IWaiter) error {
	if wg == nil {
		return commonerrors.UndefinedVariable("waiter")
	}
	done := make(chan error, 1)
	go func() {
		done <- wg.Wait()
	}()
	select {
	case <-ctx.Done():
		return DetermineContextError(ctx)
	case err := <-done:
		return err
	}
}

// ExecuteWithTimeout executes the executor and waits for it for at most timeout.
// On timeout, the context given to the executor is cancelled and a timeout error is returned straight away,
// without waiting for the executor to acknowledge the cancellation.
// A zero or negative timeout means no deadline.
func ExecuteWithTimeout(ctx context.Context, executor IExecutor, timeout time.Duration) error {
	if executor == nil {
		return commonerrors.UndefinedVariable("executor")
	}
	var (
		execCtx context.Context
		cancel  context.CancelFunc
	)
	if timeout > 0 {
		execCtx, cancel = context.WithTimeoutCause(ctx, timeout, commonerrors.Newf(commonerrors.ErrTimeout, "execution did not complete within %v", timeout))
	} else {
		execCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()
	err := WaitWithContext(execCtx, waiterFunc(func() error {
		return executor.Execute(execCtx)
	}))
	if err != nil && execCtx.Err() != nil && ctx.Err() == nil {
		return commonerrors.WrapError(commonerrors.ErrTimeout, context.Cause(execCtx), "")
	}
	return err
}

type waiterFunc func() error

func (f waiterFunc) Wait() error {
	return f()
}
