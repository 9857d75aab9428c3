/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package saga provides an orchestrator for the [SAGA pattern](https://microservices.io/patterns/data/saga.html) applied to integration flows.
// A saga is a distributed transaction made of steps organised in groups. Groups run one after the other; the steps of a group run
// either sequentially or in parallel. When a step fails, every step which completed so far is compensated in reverse order,
// following the [Compensating Transaction pattern](https://learn.microsoft.com/en-us/azure/architecture/patterns/compensating-transaction).
// Compensation is best-effort: a failing compensation is logged and the remaining ones still run.
package saga

//go:generate go tool mockgen -destination=./mock_test.go -package=saga github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/$GOPACKAGE IStepHandler,ICompensationHandler,ITransactionStore,IStepStore

import (
	"context"
)

// IStepHandler performs the business action of a step. It must not block indefinitely and should stop when ctx is cancelled.
type IStepHandler interface {
	Execute(ctx context.Context, definition StepDefinition, sagaCtx *Context) StepResult
}

// StepHandlerFunc is an adapter to use ordinary functions as step handlers.
type StepHandlerFunc func(ctx context.Context, definition StepDefinition, sagaCtx *Context) StepResult

func (f StepHandlerFunc) Execute(ctx context.Context, definition StepDefinition, sagaCtx *Context) StepResult {
	return f(ctx, definition, sagaCtx)
}

// ICompensationHandler semantically undoes a step which completed.
type ICompensationHandler interface {
	Compensate(ctx context.Context, step *Step, sagaCtx *Context) error
}

// CompensationHandlerFunc is an adapter to use ordinary functions as compensation handlers.
type CompensationHandlerFunc func(ctx context.Context, step *Step, sagaCtx *Context) error

func (f CompensationHandlerFunc) Compensate(ctx context.Context, step *Step, sagaCtx *Context) error {
	return f(ctx, step, sagaCtx)
}

// ITransactionStore persists transaction records. Saving the same identifier twice overwrites the record.
type ITransactionStore interface {
	Save(ctx context.Context, transaction *Transaction) error
	// FindByID returns an error of type commonerrors.ErrNotFound if no transaction has this identifier.
	FindByID(ctx context.Context, id string) (*Transaction, error)
}

// IStepStore persists step records. Saving the same identifier twice overwrites the record.
type IStepStore interface {
	Save(ctx context.Context, step *Step) error
	// FindByTransaction returns the steps of a transaction in the order they were first saved.
	FindByTransaction(ctx context.Context, transactionID string) ([]Step, error)
}

// ISagaOrchestrator is the entry point to run sagas.
type ISagaOrchestrator interface {
	// StartTransaction creates a transaction ready to be executed.
	StartTransaction(ctx context.Context, flowReference, correlationID string) (*Transaction, error)
	// ExecuteSaga runs the groups of a started transaction asynchronously.
	ExecuteSaga(ctx context.Context, transactionID string, groups []StepGroup) (*Future, error)
	GetTransaction(ctx context.Context, transactionID string) (*Transaction, error)
	GetSteps(ctx context.Context, transactionID string) ([]Step, error)
}
