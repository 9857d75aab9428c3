/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/idgen"
)

// stepRun tracks the execution of one step definition.
// The record is finalised exactly once: whoever finalises first (handler or group deadline) decides the outcome.
type stepRun struct {
	mu         deadlock.RWMutex
	definition StepDefinition
	step       Step
	err        error
	finalised  *atomic.Bool
	// settled is closed once the outcome is persisted and published.
	settled chan struct{}
	// timeout is the deadline of the parallel group the step belongs to, if any.
	timeout time.Duration
}

func (r *stepRun) snapshot() Step {
	defer r.mu.RUnlock()
	r.mu.RLock()
	return *r.step.Clone()
}

func (r *stepRun) failure() error {
	defer r.mu.RUnlock()
	r.mu.RLock()
	return r.err
}

func (r *stepRun) hasFailed() bool {
	defer r.mu.RUnlock()
	r.mu.RLock()
	return r.step.Status == StepFailed
}

func (r *stepRun) isFinalised() bool {
	return r.finalised.Load()
}

// execution holds the state of one saga run. It is owned by the goroutine running the saga.
type execution struct {
	transaction *Transaction
	sagaCtx     *Context
	logger      logr.Logger
	// runs lists every step begun so far, in the order it was begun.
	runs []*stepRun
}

func newExecution(transaction *Transaction, logger logr.Logger) *execution {
	return &execution{
		transaction: transaction,
		sagaCtx:     NewContext(transaction.ID, transaction.CorrelationID),
		logger:      logger.WithValues("transactionId", transaction.ID, "correlationId", transaction.CorrelationID),
	}
}

type stepExecutor struct {
	registry *Registry
	steps    IStepStore
	events   *Events
	clock    func() time.Time
}

// begin creates the STARTED record of a step and persists it.
func (e *stepExecutor) begin(ctx context.Context, exec *execution, definition StepDefinition) (*stepRun, error) {
	id, err := idgen.GenerateUUID4()
	if err != nil {
		return nil, err
	}
	run := &stepRun{
		definition: definition,
		finalised:  atomic.NewBool(false),
		settled:    make(chan struct{}),
		step: Step{
			ID:            id,
			TransactionID: exec.transaction.ID,
			StepName:      definition.Name,
			ActionType:    definition.ActionType,
			Order:         definition.Order,
			Status:        StepStarted,
			StartedAt:     e.clock(),
		},
	}
	err = e.steps.Save(ctx, run.step.Clone())
	if err != nil {
		return nil, persistenceError(err, "could not persist start of step '%v'", definition.Name)
	}
	exec.runs = append(exec.runs, run)
	exec.logger.V(1).Info("step started", "step", definition.Name, "actionType", definition.ActionType, "order", definition.Order)
	e.events.stepStarted(ctx, run.snapshot())
	return run, nil
}

// run invokes the handler of a begun step and finalises it. The returned error is only ever a persistence error.
// A handler returning after the deadline of its group has timed out whatever it reports.
func (e *stepExecutor) run(ctx context.Context, exec *execution, run *stepRun) error {
	data, message, failure := e.invoke(ctx, run.definition, exec.sagaCtx)
	if run.timeout > 0 && ctx.Err() != nil {
		return e.timeOut(ctx, exec, run, run.timeout)
	}
	if failure != nil {
		return e.fail(ctx, exec, run, message, failure)
	}
	return e.complete(ctx, exec, run, data)
}

// execute runs a step definition from start to finish.
func (e *stepExecutor) execute(ctx context.Context, exec *execution, definition StepDefinition) (*stepRun, error) {
	run, err := e.begin(ctx, exec, definition)
	if err != nil {
		return nil, err
	}
	return run, e.run(ctx, exec, run)
}

func (e *stepExecutor) invoke(ctx context.Context, definition StepDefinition, sagaCtx *Context) (data, message string, failure error) {
	handler, found := e.registry.StepHandler(definition.ActionType)
	if !found {
		message = fmt.Sprintf("no handler registered for action type '%v'", definition.ActionType)
		failure = commonerrors.New(ErrUnregisteredAction, message)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			message = fmt.Sprintf("step panicked: %v", r)
			failure = commonerrors.New(ErrStepExecution, message)
		}
	}()
	result := handler.Execute(ctx, definition, sagaCtx)
	if !result.Success {
		message = result.ErrorMessage
		if message == "" {
			message = "step reported a failure"
		}
		failure = commonerrors.New(ErrStepExecution, message)
		return
	}
	data = result.Data
	return
}

func (e *stepExecutor) complete(ctx context.Context, exec *execution, run *stepRun, data string) error {
	step, applied, err := e.finalise(ctx, run, func(step *Step) {
		step.Status = StepCompleted
		step.ResultData = data
		exec.sagaCtx.Set(step.StepName, data)
	})
	if !applied {
		return nil
	}
	defer close(run.settled)
	exec.logger.V(1).Info("step completed", "step", step.StepName, "actionType", step.ActionType)
	e.events.stepCompleted(ctx, step, duration(step))
	return err
}

func (e *stepExecutor) fail(ctx context.Context, exec *execution, run *stepRun, message string, failure error) error {
	step, applied, err := e.finalise(ctx, run, func(step *Step) {
		step.Status = StepFailed
		step.ErrorMessage = message
		run.err = failure
	})
	if !applied {
		return nil
	}
	defer close(run.settled)
	exec.logger.Error(failure, "step failed", "step", step.StepName, "actionType", step.ActionType)
	e.events.stepFailed(ctx, step, failure, duration(step))
	return err
}

// timeOut fails a step which did not finish before the deadline of its group. It has no effect on a finalised step.
func (e *stepExecutor) timeOut(ctx context.Context, exec *execution, run *stepRun, timeout time.Duration) error {
	message := fmt.Sprintf("step timed out after %v", timeout)
	failure := commonerrors.New(ErrGroupTimeout, message)
	step, applied, err := e.finalise(ctx, run, func(step *Step) {
		step.Status = StepFailed
		step.ErrorMessage = message
		run.err = failure
	})
	if !applied {
		return nil
	}
	defer close(run.settled)
	exec.logger.Error(failure, "step timed out", "step", step.StepName, "actionType", step.ActionType, "timeout", timeout)
	e.events.stepTimedOut(ctx, step, timeout)
	return err
}

// finalise applies the final outcome of a step once and persists it. The record lock is held while persisting
// so that a compensation cannot be overwritten by a late finalisation.
func (e *stepExecutor) finalise(ctx context.Context, run *stepRun, update func(step *Step)) (step Step, applied bool, err error) {
	if !run.finalised.CompareAndSwap(false, true) {
		return
	}
	applied = true
	defer run.mu.Unlock()
	run.mu.Lock()
	update(&run.step)
	completedAt := e.clock()
	run.step.CompletedAt = &completedAt
	step = *run.step.Clone()
	if subErr := e.steps.Save(context.WithoutCancel(ctx), run.step.Clone()); subErr != nil {
		err = persistenceError(subErr, "could not persist outcome of step '%v'", step.StepName)
	}
	return
}

func duration(step Step) time.Duration {
	if step.CompletedAt == nil {
		return 0
	}
	return step.CompletedAt.Sub(step.StartedAt)
}
