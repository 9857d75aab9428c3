/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"
	"fmt"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/parallelisation"
)

// compensationEngine undoes completed steps in reverse order. Compensation is best-effort:
// a failing compensation is logged and never prevents the remaining ones from running.
type compensationEngine struct {
	registry  *Registry
	steps     IStepStore
	lifecycle *lifecycle
	events    *Events
}

// compensate undoes every completed step of the execution which was not compensated yet.
// It is safe to call more than once on the same execution. The returned error collates compensation failures.
func (c *compensationEngine) compensate(ctx context.Context, exec *execution) error {
	ctx = context.WithoutCancel(ctx)
	tx := exec.transaction
	if tx.Status == TransactionStarted || tx.Status == TransactionRunning {
		if err := c.lifecycle.transition(ctx, tx, TransactionCompensating); err != nil {
			exec.logger.Error(err, "could not record the start of compensation")
		}
	}
	exec.logger.Info("compensating saga", "steps", len(exec.runs))
	c.events.compensationStarted(ctx, *tx.Clone())

	group := parallelisation.NewExecutionGroup[*stepRun](func(stepCtx context.Context, run *stepRun) error {
		return c.compensateStep(stepCtx, exec, run)
	}, parallelisation.SequentialInReverse, parallelisation.ExecuteAll, parallelisation.JoinErrors)
	group.RegisterFunction(exec.runs...)
	err := group.Execute(ctx)
	if err != nil {
		exec.logger.Error(err, "saga compensation incomplete")
	}
	return err
}

func (c *compensationEngine) compensateStep(ctx context.Context, exec *execution, run *stepRun) error {
	step := run.snapshot()
	if step.Status != StepCompleted {
		return nil
	}
	logger := exec.logger.WithValues("step", step.StepName, "actionType", step.ActionType)
	if step.Compensated {
		logger.V(1).Info("step already compensated")
		return nil
	}
	handler, found := c.registry.CompensationHandler(step.ActionType)
	if !found {
		reason := fmt.Sprintf("no compensation handler registered for action type '%v'", step.ActionType)
		logger.Info("skipping compensation", "warning", reason)
		c.events.compensationSkipped(ctx, step, reason)
		return nil
	}
	err := c.invoke(ctx, handler, step, exec.sagaCtx)
	if err != nil {
		logger.Error(err, "compensation failed")
		c.events.compensationFailed(ctx, step, err)
		return err
	}
	step, err = c.markCompensated(ctx, run)
	logger.V(1).Info("step compensated")
	c.events.compensationCompleted(ctx, step)
	if err != nil {
		logger.Error(err, "could not persist compensation")
	}
	return err
}

func (c *compensationEngine) invoke(ctx context.Context, handler ICompensationHandler, step Step, sagaCtx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = commonerrors.Newf(ErrCompensation, "compensation of step '%v' panicked: %v", step.StepName, r)
		}
	}()
	err = handler.Compensate(ctx, &step, sagaCtx)
	if err != nil {
		err = commonerrors.WrapErrorf(ErrCompensation, err, "compensation of step '%v'", step.StepName)
	}
	return
}

func (c *compensationEngine) markCompensated(ctx context.Context, run *stepRun) (step Step, err error) {
	defer run.mu.Unlock()
	run.mu.Lock()
	err = run.step.MarkCompensated()
	if err != nil {
		return
	}
	step = *run.step.Clone()
	if subErr := c.steps.Save(ctx, run.step.Clone()); subErr != nil {
		err = persistenceError(subErr, "could not persist compensation of step '%v'", step.StepName)
	}
	return
}
