/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"
	"time"
)

// Events provides hooks for observability. All hooks are optional.
// Hooks are called synchronously on the goroutine executing the saga and a panicking hook is ignored.
type Events struct {
	// Transaction lifecycle
	OnTransactionStart    func(ctx context.Context, transaction Transaction)
	OnTransactionComplete func(ctx context.Context, transaction Transaction, result Result)
	OnTransactionFailed   func(ctx context.Context, transaction Transaction, result Result)

	// Step lifecycle
	OnStepStart    func(ctx context.Context, step Step)
	OnStepComplete func(ctx context.Context, step Step, duration time.Duration)
	OnStepFailed   func(ctx context.Context, step Step, err error, duration time.Duration)
	OnStepTimeout  func(ctx context.Context, step Step, timeout time.Duration)

	// Compensation lifecycle
	OnCompensationStart    func(ctx context.Context, transaction Transaction)
	OnCompensationComplete func(ctx context.Context, step Step)
	OnCompensationFailed   func(ctx context.Context, step Step, err error)
	OnCompensationSkipped  func(ctx context.Context, step Step, reason string)
}

// CombineEvents returns hooks calling every hook set given in order.
func CombineEvents(events ...*Events) *Events {
	var sets []*Events
	for i := range events {
		if events[i] != nil {
			sets = append(sets, events[i])
		}
	}
	combined := &Events{}
	if len(sets) == 0 {
		return combined
	}
	combined.OnTransactionStart = func(ctx context.Context, transaction Transaction) {
		for _, e := range sets {
			e.transactionStarted(ctx, transaction)
		}
	}
	combined.OnTransactionComplete = func(ctx context.Context, transaction Transaction, result Result) {
		for _, e := range sets {
			e.transactionCompleted(ctx, transaction, result)
		}
	}
	combined.OnTransactionFailed = func(ctx context.Context, transaction Transaction, result Result) {
		for _, e := range sets {
			e.transactionFailed(ctx, transaction, result)
		}
	}
	combined.OnStepStart = func(ctx context.Context, step Step) {
		for _, e := range sets {
			e.stepStarted(ctx, step)
		}
	}
	combined.OnStepComplete = func(ctx context.Context, step Step, duration time.Duration) {
		for _, e := range sets {
			e.stepCompleted(ctx, step, duration)
		}
	}
	combined.OnStepFailed = func(ctx context.Context, step Step, err error, duration time.Duration) {
		for _, e := range sets {
			e.stepFailed(ctx, step, err, duration)
		}
	}
	combined.OnStepTimeout = func(ctx context.Context, step Step, timeout time.Duration) {
		for _, e := range sets {
			e.stepTimedOut(ctx, step, timeout)
		}
	}
	combined.OnCompensationStart = func(ctx context.Context, transaction Transaction) {
		for _, e := range sets {
			e.compensationStarted(ctx, transaction)
		}
	}
	combined.OnCompensationComplete = func(ctx context.Context, step Step) {
		for _, e := range sets {
			e.compensationCompleted(ctx, step)
		}
	}
	combined.OnCompensationFailed = func(ctx context.Context, step Step, err error) {
		for _, e := range sets {
			e.compensationFailed(ctx, step, err)
		}
	}
	combined.OnCompensationSkipped = func(ctx context.Context, step Step, reason string) {
		for _, e := range sets {
			e.compensationSkipped(ctx, step, reason)
		}
	}
	return combined
}

// emitEvent calls an event hook, catching any panic.
func emitEvent(events *Events, handler func()) {
	if events == nil || handler == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	handler()
}

func (e *Events) transactionStarted(ctx context.Context, transaction Transaction) {
	emitEvent(e, func() {
		if e.OnTransactionStart != nil {
			e.OnTransactionStart(ctx, transaction)
		}
	})
}

func (e *Events) transactionCompleted(ctx context.Context, transaction Transaction, result Result) {
	emitEvent(e, func() {
		if e.OnTransactionComplete != nil {
			e.OnTransactionComplete(ctx, transaction, result)
		}
	})
}

func (e *Events) transactionFailed(ctx context.Context, transaction Transaction, result Result) {
	emitEvent(e, func() {
		if e.OnTransactionFailed != nil {
			e.OnTransactionFailed(ctx, transaction, result)
		}
	})
}

func (e *Events) stepStarted(ctx context.Context, step Step) {
	emitEvent(e, func() {
		if e.OnStepStart != nil {
			e.OnStepStart(ctx, step)
		}
	})
}

func (e *Events) stepCompleted(ctx context.Context, step Step, duration time.Duration) {
	emitEvent(e, func() {
		if e.OnStepComplete != nil {
			e.OnStepComplete(ctx, step, duration)
		}
	})
}

func (e *Events) stepFailed(ctx context.Context, step Step, err error, duration time.Duration) {
	emitEvent(e, func() {
		if e.OnStepFailed != nil {
			e.OnStepFailed(ctx, step, err, duration)
		}
	})
}

func (e *Events) stepTimedOut(ctx context.Context, step Step, timeout time.Duration) {
	emitEvent(e, func() {
		if e.OnStepTimeout != nil {
			e.OnStepTimeout(ctx, step, timeout)
		}
	})
}

func (e *Events) compensationStarted(ctx context.Context, transaction Transaction) {
	emitEvent(e, func() {
		if e.OnCompensationStart != nil {
			e.OnCompensationStart(ctx, transaction)
		}
	})
}

func (e *Events) compensationCompleted(ctx context.Context, step Step) {
	emitEvent(e, func() {
		if e.OnCompensationComplete != nil {
			e.OnCompensationComplete(ctx, step)
		}
	})
}

func (e *Events) compensationFailed(ctx context.Context, step Step, err error) {
	emitEvent(e, func() {
		if e.OnCompensationFailed != nil {
			e.OnCompensationFailed(ctx, step, err)
		}
	})
}

func (e *Events) compensationSkipped(ctx context.Context, step Step, reason string) {
	emitEvent(e, func() {
		if e.OnCompensationSkipped != nil {
			e.OnCompensationSkipped(ctx, step, reason)
		}
	})
}
