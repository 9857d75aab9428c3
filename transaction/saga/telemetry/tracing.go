/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package telemetry exposes saga executions as OpenTelemetry traces and Prometheus metrics.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

// TracerName is the name of the tracer creating saga spans.
const TracerName = "github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"

const (
	attrTransactionID = attribute.Key("saga.transaction.id")
	attrCorrelationID = attribute.Key("saga.correlation.id")
	attrFlowReference = attribute.Key("saga.flow.reference")
	attrStepName      = attribute.Key("saga.step.name")
	attrActionType    = attribute.Key("saga.step.action_type")
	attrStepOrder     = attribute.Key("saga.step.order")
	attrSkipReason    = attribute.Key("saga.compensation.skip_reason")
)

type tracing struct {
	tracer       trace.Tracer
	mu           deadlock.Mutex
	transactions map[string]trace.Span
	steps        map[string]trace.Span
}

// NewTracingEvents returns hooks recording a span per transaction with a child span per step.
// Compensation is recorded as events of the transaction span.
func NewTracingEvents(provider trace.TracerProvider) *saga.Events {
	t := &tracing{
		tracer:       provider.Tracer(TracerName),
		transactions: map[string]trace.Span{},
		steps:        map[string]trace.Span{},
	}
	return &saga.Events{
		OnTransactionStart:     t.transactionStarted,
		OnTransactionComplete:  t.transactionCompleted,
		OnTransactionFailed:    t.transactionFailed,
		OnStepStart:            t.stepStarted,
		OnStepComplete:         t.stepCompleted,
		OnStepFailed:           t.stepFailed,
		OnStepTimeout:          t.stepTimedOut,
		OnCompensationStart:    t.compensationStarted,
		OnCompensationComplete: t.compensationCompleted,
		OnCompensationFailed:   t.compensationFailed,
		OnCompensationSkipped:  t.compensationSkipped,
	}
}

func (t *tracing) transactionStarted(ctx context.Context, transaction saga.Transaction) {
	_, span := t.tracer.Start(ctx, fmt.Sprintf("saga %v", transaction.FlowReference),
		trace.WithTimestamp(transaction.StartedAt),
		trace.WithAttributes(
			attrTransactionID.String(transaction.ID),
			attrCorrelationID.String(transaction.CorrelationID),
			attrFlowReference.String(transaction.FlowReference),
		))
	defer t.mu.Unlock()
	t.mu.Lock()
	t.transactions[transaction.ID] = span
}

func (t *tracing) transactionCompleted(_ context.Context, transaction saga.Transaction, _ saga.Result) {
	t.endTransaction(transaction, nil)
}

func (t *tracing) transactionFailed(_ context.Context, transaction saga.Transaction, result saga.Result) {
	failure, err := commonerrors.DeserialiseError([]byte(result.ErrorDetail))
	if err != nil || failure == nil {
		failure = commonerrors.New(commonerrors.ErrFailed, result.ErrorMessage)
	}
	t.endTransaction(transaction, failure)
}

func (t *tracing) endTransaction(transaction saga.Transaction, err error) {
	span, found := t.popTransaction(transaction.ID)
	if !found {
		return
	}
	var options []trace.SpanEndOption
	if transaction.CompletedAt != nil {
		options = append(options, trace.WithTimestamp(*transaction.CompletedAt))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, transaction.ErrorMessage)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(options...)
}

func (t *tracing) popTransaction(id string) (span trace.Span, found bool) {
	defer t.mu.Unlock()
	t.mu.Lock()
	span, found = t.transactions[id]
	delete(t.transactions, id)
	return
}

func (t *tracing) transactionSpan(id string) (span trace.Span, found bool) {
	defer t.mu.Unlock()
	t.mu.Lock()
	span, found = t.transactions[id]
	return
}

func (t *tracing) stepStarted(ctx context.Context, step saga.Step) {
	if parent, found := t.transactionSpan(step.TransactionID); found {
		ctx = trace.ContextWithSpan(ctx, parent)
	}
	_, span := t.tracer.Start(ctx, fmt.Sprintf("step %v", step.StepName),
		trace.WithTimestamp(step.StartedAt),
		trace.WithAttributes(
			attrTransactionID.String(step.TransactionID),
			attrStepName.String(step.StepName),
			attrActionType.String(step.ActionType),
			attrStepOrder.Int(step.Order),
		))
	defer t.mu.Unlock()
	t.mu.Lock()
	t.steps[step.ID] = span
}

func (t *tracing) popStep(id string) (span trace.Span, found bool) {
	defer t.mu.Unlock()
	t.mu.Lock()
	span, found = t.steps[id]
	delete(t.steps, id)
	return
}

func (t *tracing) endStep(step saga.Step, err error, options ...trace.EventOption) {
	span, found := t.popStep(step.ID)
	if !found {
		return
	}
	if err != nil {
		span.RecordError(err, options...)
		span.SetStatus(codes.Error, step.ErrorMessage)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	if step.CompletedAt != nil {
		span.End(trace.WithTimestamp(*step.CompletedAt))
		return
	}
	span.End()
}

func (t *tracing) stepCompleted(_ context.Context, step saga.Step, _ time.Duration) {
	t.endStep(step, nil)
}

func (t *tracing) stepFailed(_ context.Context, step saga.Step, err error, _ time.Duration) {
	t.endStep(step, err)
}

func (t *tracing) stepTimedOut(_ context.Context, step saga.Step, timeout time.Duration) {
	t.endStep(step, commonerrors.New(commonerrors.ErrTimeout, step.ErrorMessage), trace.WithAttributes(attribute.String("saga.step.timeout", timeout.String())))
}

func (t *tracing) addTransactionEvent(transactionID, name string, attributes ...attribute.KeyValue) {
	if span, found := t.transactionSpan(transactionID); found {
		span.AddEvent(name, trace.WithAttributes(attributes...))
	}
}

func (t *tracing) compensationStarted(_ context.Context, transaction saga.Transaction) {
	t.addTransactionEvent(transaction.ID, "compensation started")
}

func (t *tracing) compensationCompleted(_ context.Context, step saga.Step) {
	t.addTransactionEvent(step.TransactionID, "step compensated", attrStepName.String(step.StepName))
}

func (t *tracing) compensationFailed(_ context.Context, step saga.Step, err error) {
	t.addTransactionEvent(step.TransactionID, "compensation failed", attrStepName.String(step.StepName), attribute.String("error", err.Error()))
}

func (t *tracing) compensationSkipped(_ context.Context, step saga.Step, reason string) {
	t.addTransactionEvent(step.TransactionID, "compensation skipped", attrStepName.String(step.StepName), attrSkipReason.String(reason))
}
