/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/idgen"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/logs/logrimp"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/parallelisation"
)

type options struct {
	logger          logr.Logger
	events          *Events
	parallelTimeout time.Duration
	workers         int
	clock           func() time.Time
}

type Option func(*options)

// WithLogger sets the logger of the orchestrator. Logs are discarded otherwise.
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEvents sets the hooks notified of the progress of sagas.
func WithEvents(events *Events) Option {
	return func(o *options) {
		o.events = events
	}
}

// WithParallelTimeout sets the deadline of parallel groups which do not define their own.
func WithParallelTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.parallelTimeout = timeout
	}
}

// WithWorkers bounds the number of parallel steps running at the same time across every saga. 0 means unbounded.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithConfiguration applies the execution settings of a configuration.
func WithConfiguration(cfg *Configuration) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.parallelTimeout = cfg.ParallelTimeout
		o.workers = cfg.Workers
	}
}

// WithClock sets the source of time used for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Orchestrator runs sagas: it manages the lifecycle of transactions and drives their step groups.
type Orchestrator struct {
	transactions ITransactionStore
	steps        IStepStore
	logger       logr.Logger
	events       *Events
	lifecycle    *lifecycle
	scheduler    *groupScheduler
	compensator  *compensationEngine

	mu       deadlock.Mutex
	closed   bool
	running  mapset.Set[string]
	inFlight errgroup.Group
}

// NewOrchestrator returns an orchestrator executing the actions of the registry and persisting to the stores given.
func NewOrchestrator(registry *Registry, transactions ITransactionStore, steps IStepStore, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, commonerrors.UndefinedVariable("step registry")
	}
	if transactions == nil {
		return nil, commonerrors.UndefinedVariable("transaction store")
	}
	if steps == nil {
		return nil, commonerrors.UndefinedVariable("step store")
	}
	o := &options{
		logger:          logrimp.NewNoopLogger(),
		parallelTimeout: DefaultParallelTimeout,
		clock:           time.Now,
	}
	for i := range opts {
		if opts[i] != nil {
			opts[i](o)
		}
	}
	if o.parallelTimeout <= 0 {
		return nil, commonerrors.Newf(commonerrors.ErrInvalid, "parallel timeout must be positive but was %v", o.parallelTimeout)
	}
	if o.workers < 0 {
		return nil, commonerrors.Newf(commonerrors.ErrInvalid, "number of workers cannot be negative but was %v", o.workers)
	}
	l := &lifecycle{transactions: transactions, clock: o.clock}
	compensator := &compensationEngine{
		registry:  registry,
		steps:     steps,
		lifecycle: l,
		events:    o.events,
	}
	return &Orchestrator{
		transactions: transactions,
		steps:        steps,
		logger:       o.logger,
		events:       o.events,
		lifecycle:    l,
		compensator:  compensator,
		scheduler: &groupScheduler{
			executor: &stepExecutor{
				registry: registry,
				steps:    steps,
				events:   o.events,
				clock:    o.clock,
			},
			compensator:     compensator,
			lifecycle:       l,
			pool:            parallelisation.NewWorkerPool(o.workers),
			parallelTimeout: o.parallelTimeout,
		},
		running: mapset.NewSet[string](),
	}, nil
}

// StartTransaction creates a transaction for a flow and moves it to STARTED.
// The transaction identifier is used as correlation identifier if none is given.
func (o *Orchestrator) StartTransaction(ctx context.Context, flowReference, correlationID string) (*Transaction, error) {
	if strings.TrimSpace(flowReference) == "" {
		return nil, commonerrors.New(commonerrors.ErrInvalid, "a flow reference must be provided")
	}
	err := parallelisation.DetermineContextError(ctx)
	if err != nil {
		return nil, err
	}
	id, err := idgen.GenerateUUID4()
	if err != nil {
		return nil, err
	}
	if correlationID == "" {
		correlationID = id
	}
	tx := &Transaction{
		ID:            id,
		CorrelationID: correlationID,
		FlowReference: flowReference,
		Status:        TransactionCreated,
		StartedAt:     o.lifecycle.clock(),
	}
	err = o.transactions.Save(ctx, tx.Clone())
	if err != nil {
		return nil, persistenceError(err, "could not persist transaction %v", id)
	}
	err = o.lifecycle.transition(ctx, tx, TransactionStarted)
	if err != nil {
		return nil, err
	}
	o.logger.V(1).Info("transaction started", "transactionId", tx.ID, "correlationId", tx.CorrelationID, "flow", flowReference)
	return tx.Clone(), nil
}

// ExecuteSaga runs the groups of a STARTED transaction on its own goroutine and returns straight away.
// The execution is detached from the cancellation of ctx. Whatever happens during the execution,
// including infrastructure failures, the future is resolved with a result.
func (o *Orchestrator) ExecuteSaga(ctx context.Context, transactionID string, groups []StepGroup) (*Future, error) {
	err := ValidateGroups(groups)
	if err != nil {
		return nil, err
	}
	err = o.reserve(transactionID)
	if err != nil {
		return nil, err
	}
	tx, err := o.GetTransaction(ctx, transactionID)
	if err == nil && tx.Status != TransactionStarted {
		err = commonerrors.Newf(commonerrors.ErrInvalid, "transaction %v is %v and cannot be executed", transactionID, tx.Status)
	}
	if err != nil {
		o.running.Remove(transactionID)
		return nil, err
	}
	groups = cloneGroups(groups)
	future := newFuture()
	execCtx := context.WithoutCancel(ctx)
	err = o.launch(func() {
		defer o.running.Remove(transactionID)
		future.resolve(o.execute(execCtx, tx, groups))
	})
	if err != nil {
		o.running.Remove(transactionID)
		return nil, err
	}
	return future, nil
}

// GetTransaction returns the current record of a transaction.
func (o *Orchestrator) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	if transactionID == "" {
		return nil, commonerrors.UndefinedVariable("transaction identifier")
	}
	tx, err := o.transactions.FindByID(ctx, transactionID)
	if err != nil {
		if commonerrors.Any(err, commonerrors.ErrNotFound) {
			return nil, commonerrors.Newf(ErrTransactionNotFound, "no transaction with identifier %v", transactionID)
		}
		return nil, err
	}
	return tx, nil
}

// GetSteps returns the step records of a transaction in the order they started.
func (o *Orchestrator) GetSteps(ctx context.Context, transactionID string) ([]Step, error) {
	_, err := o.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return o.steps.FindByTransaction(ctx, transactionID)
}

// Close stops accepting executions and waits for the ones in flight to finish.
func (o *Orchestrator) Close() error {
	o.stop()
	return o.inFlight.Wait()
}

// Shutdown is similar to Close but stops waiting when ctx is done.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.stop()
	return parallelisation.WaitWithContext(ctx, &o.inFlight)
}

func (o *Orchestrator) stop() {
	defer o.mu.Unlock()
	o.mu.Lock()
	o.closed = true
}

func (o *Orchestrator) reserve(transactionID string) error {
	defer o.mu.Unlock()
	o.mu.Lock()
	if o.closed {
		return commonerrors.New(commonerrors.ErrUnavailable, "orchestrator is closed")
	}
	if !o.running.Add(transactionID) {
		return commonerrors.Newf(commonerrors.ErrConflict, "transaction %v is already being executed", transactionID)
	}
	return nil
}

func (o *Orchestrator) launch(f func()) error {
	defer o.mu.Unlock()
	o.mu.Lock()
	if o.closed {
		return commonerrors.New(commonerrors.ErrUnavailable, "orchestrator is closed")
	}
	o.inFlight.Go(func() error {
		f()
		return nil
	})
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, tx *Transaction, groups []StepGroup) *Result {
	exec := newExecution(tx, o.logger)
	exec.logger.Info("executing saga", "flow", tx.FlowReference, "groups", len(groups))
	o.events.transactionStarted(ctx, *tx.Clone())

	result, err := o.runGroups(ctx, exec, groups)
	if err != nil {
		exec.logger.Error(err, "saga execution failed")
		message := fmt.Sprintf("saga execution failed: %v", err)
		_ = o.compensator.compensate(ctx, exec)
		if failErr := o.lifecycle.fail(ctx, exec.transaction, message); failErr != nil {
			exec.logger.Error(failErr, "could not record the failure of the transaction")
		}
		result = newFailureResult(exec, message, err, "")
	}

	final := *exec.transaction.Clone()
	if result.Success {
		o.events.transactionCompleted(ctx, final, *result)
	} else {
		o.events.transactionFailed(ctx, final, *result)
	}
	return result
}

func (o *Orchestrator) runGroups(ctx context.Context, exec *execution, groups []StepGroup) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = commonerrors.Newf(commonerrors.ErrUnexpected, "saga execution panicked: %v", r)
		}
	}()
	return o.scheduler.run(ctx, exec, groups)
}

func cloneGroups(groups []StepGroup) []StepGroup {
	cloned := make([]StepGroup, len(groups))
	for i := range groups {
		cloned[i] = StepGroup{
			Mode:    groups[i].Mode,
			Steps:   make([]StepDefinition, len(groups[i].Steps)),
			Timeout: groups[i].Timeout,
		}
		copy(cloned[i].Steps, groups[i].Steps)
	}
	return cloned
}

// lifecycle applies status changes to transactions. A change is only applied to the in-memory record once persisted.
type lifecycle struct {
	transactions ITransactionStore
	clock        func() time.Time
}

func (l *lifecycle) commit(ctx context.Context, tx *Transaction, mutate func(next *Transaction) error) error {
	next := tx.Clone()
	err := mutate(next)
	if err != nil {
		return err
	}
	err = l.transactions.Save(ctx, next.Clone())
	if err != nil {
		return persistenceError(err, "could not persist transaction %v", tx.ID)
	}
	*tx = *next
	return nil
}

func (l *lifecycle) transition(ctx context.Context, tx *Transaction, status TransactionStatus) error {
	return l.commit(ctx, tx, func(next *Transaction) error {
		return next.TransitionTo(status, l.clock())
	})
}

func (l *lifecycle) setCurrentGroup(ctx context.Context, tx *Transaction, index int) error {
	return l.commit(ctx, tx, func(next *Transaction) error {
		return next.SetCurrentGroup(index)
	})
}

// fail moves the transaction to FAILED, through COMPENSATING if needed. A failed transaction is left untouched.
func (l *lifecycle) fail(ctx context.Context, tx *Transaction, message string) error {
	switch tx.Status {
	case TransactionFailed:
		return nil
	case TransactionStarted, TransactionRunning:
		err := l.transition(ctx, tx, TransactionCompensating)
		if err != nil {
			return err
		}
	}
	return l.commit(ctx, tx, func(next *Transaction) error {
		err := next.TransitionTo(TransactionFailed, l.clock())
		if err != nil {
			return err
		}
		next.ErrorMessage = message
		return nil
	})
}

// Future is the eventual result of a saga execution.
type Future struct {
	done   chan struct{}
	result *Result
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(result *Result) {
	f.result = result
	close(f.done)
}

// Done returns a channel closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait waits for the result. If ctx is done first, the saga keeps running and a context error is returned.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return nil, parallelisation.DetermineContextError(ctx)
	}
}

// Result returns the result if available and nil otherwise.
func (f *Future) Result() *Result {
	select {
	case <-f.done:
		return f.result
	default:
		return nil
	}
}
