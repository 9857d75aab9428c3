/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/parallelisation"
)

// groupScheduler runs step groups one after the other.
// A group only starts once every step of the previous group has been finalised.
type groupScheduler struct {
	executor        *stepExecutor
	compensator     *compensationEngine
	lifecycle       *lifecycle
	pool            *parallelisation.WorkerPool
	parallelTimeout time.Duration
}

// run executes the groups of a started transaction. Business failures are reported in the result;
// the returned error is an infrastructure failure which left the transaction in an intermediate state.
func (s *groupScheduler) run(ctx context.Context, exec *execution, groups []StepGroup) (*Result, error) {
	err := s.lifecycle.transition(ctx, exec.transaction, TransactionRunning)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		err = s.lifecycle.setCurrentGroup(ctx, exec.transaction, i)
		if err != nil {
			return nil, err
		}
		exec.logger.V(1).Info("running group", "group", i, "mode", groups[i].Mode, "steps", len(groups[i].Steps))
		var failed *stepRun
		if groups[i].Mode == ExecutionModeParallel {
			failed, err = s.runParallel(ctx, exec, groups[i])
		} else {
			failed, err = s.runSequential(ctx, exec, groups[i])
		}
		if err != nil {
			return nil, err
		}
		if failed != nil {
			return s.fail(ctx, exec, failed)
		}
	}
	err = s.lifecycle.transition(ctx, exec.transaction, TransactionCompleted)
	if err != nil {
		return nil, err
	}
	exec.logger.Info("saga completed", "groups", len(groups), "steps", len(exec.runs))
	return &Result{
		TransactionID: exec.transaction.ID,
		Success:       true,
		Context:       exec.sagaCtx.Snapshot(),
	}, nil
}

// runSequential stops at the first failed step. It returns that step, if any.
func (s *groupScheduler) runSequential(ctx context.Context, exec *execution, group StepGroup) (*stepRun, error) {
	for i := range group.Steps {
		run, err := s.executor.execute(ctx, exec, group.Steps[i])
		if err != nil {
			return nil, err
		}
		if run.hasFailed() {
			return run, nil
		}
	}
	return nil, nil
}

// runParallel launches every step of the group on the worker pool and waits for all of them or for the group deadline.
// Steps still unfinished at the deadline are failed. It returns the first failed step in definition order, if any.
func (s *groupScheduler) runParallel(ctx context.Context, exec *execution, group StepGroup) (*stepRun, error) {
	timeout := group.Timeout
	if timeout <= 0 {
		timeout = s.parallelTimeout
	}
	runs := make([]*stepRun, 0, len(group.Steps))
	for i := range group.Steps {
		run, err := s.executor.begin(ctx, exec, group.Steps[i])
		if err != nil {
			return nil, err
		}
		run.timeout = timeout
		runs = append(runs, run)
	}
	tasks := parallelisation.NewExecutionGroup[*stepRun](func(taskCtx context.Context, run *stepRun) error {
		return s.executor.run(taskCtx, exec, run)
	}, parallelisation.Parallel, parallelisation.ExecuteAll, parallelisation.JoinErrors, parallelisation.WithWorkerPool(s.pool))
	tasks.RegisterFunction(runs...)

	err := parallelisation.ExecuteWithTimeout(ctx, tasks, timeout)
	if err != nil {
		if !commonerrors.Any(err, commonerrors.ErrTimeout) {
			return nil, err
		}
		var errs []error
		for i := range runs {
			if !runs[i].isFinalised() {
				errs = append(errs, s.executor.timeOut(ctx, exec, runs[i], timeout))
			}
		}
		for i := range runs {
			<-runs[i].settled
		}
		if err = commonerrors.Join(errs...); err != nil {
			return nil, err
		}
	}
	for i := range runs {
		if runs[i].hasFailed() {
			return runs[i], nil
		}
	}
	return nil, nil
}

// fail compensates everything run so far and records the failure of the transaction.
func (s *groupScheduler) fail(ctx context.Context, exec *execution, failed *stepRun) (*Result, error) {
	step := failed.snapshot()
	message := fmt.Sprintf("step '%v' failed: %v", step.StepName, step.ErrorMessage)
	_ = s.compensator.compensate(ctx, exec)
	err := s.lifecycle.fail(ctx, exec.transaction, message)
	if err != nil {
		return nil, err
	}
	exec.logger.Info("saga failed", "step", step.StepName, "reason", step.ErrorMessage)
	return newFailureResult(exec, message, failed.failure(), step.StepName), nil
}

func newFailureResult(exec *execution, message string, cause error, failedStep string) *Result {
	result := &Result{
		TransactionID: exec.transaction.ID,
		Success:       false,
		ErrorMessage:  message,
		FailedStep:    failedStep,
	}
	if detail, err := commonerrors.SerialiseError(cause); err == nil {
		result.ErrorDetail = string(detail)
	}
	return result
}
