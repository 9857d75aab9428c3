/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"maps"
	"slices"
	"time"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

type TransactionStatus string

const (
	TransactionCreated      TransactionStatus = "CREATED"
	TransactionStarted      TransactionStatus = "STARTED"
	TransactionRunning      TransactionStatus = "RUNNING"
	TransactionCompensating TransactionStatus = "COMPENSATING"
	TransactionCompleted    TransactionStatus = "COMPLETED"
	TransactionFailed       TransactionStatus = "FAILED"
)

// STARTED can move to COMPENSATING directly when the execution fails before any group ran.
var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionCreated:      {TransactionStarted},
	TransactionStarted:      {TransactionRunning, TransactionCompensating},
	TransactionRunning:      {TransactionCompleted, TransactionCompensating},
	TransactionCompensating: {TransactionFailed},
}

// IsTerminal states whether no further change can happen to a transaction in this status.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionCompleted || s == TransactionFailed
}

// CanTransitionTo states whether a transaction can move from s to next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return slices.Contains(transactionTransitions[s], next)
}

func (s TransactionStatus) String() string {
	return string(s)
}

type StepStatus string

const (
	StepStarted   StepStatus = "STARTED"
	StepCompleted StepStatus = "COMPLETED"
	StepFailed    StepStatus = "FAILED"
)

func (s StepStatus) String() string {
	return string(s)
}

type ExecutionMode string

const (
	ExecutionModeSequential ExecutionMode = "SEQUENTIAL"
	ExecutionModeParallel   ExecutionMode = "PARALLEL"
)

func (m ExecutionMode) String() string {
	return string(m)
}

// Transaction is one execution of a saga.
type Transaction struct {
	ID                string            `json:"id"`
	CorrelationID     string            `json:"correlationId"`
	FlowReference     string            `json:"flowReference"`
	Status            TransactionStatus `json:"status"`
	CurrentGroupIndex int               `json:"currentGroupIndex"`
	StartedAt         time.Time         `json:"startedAt"`
	CompletedAt       *time.Time        `json:"completedAt,omitempty"`
	ErrorMessage      string            `json:"errorMessage,omitempty"`
}

// TransitionTo moves the transaction to the next status. Reaching a terminal status records the completion time.
func (t *Transaction) TransitionTo(next TransactionStatus, now time.Time) error {
	if !t.Status.CanTransitionTo(next) {
		return commonerrors.Newf(commonerrors.ErrInvalid, "transaction %v cannot move from %v to %v", t.ID, t.Status, next)
	}
	t.Status = next
	if next.IsTerminal() {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	return nil
}

// SetCurrentGroup records the index of the group being executed.
func (t *Transaction) SetCurrentGroup(index int) error {
	if t.Status.IsTerminal() {
		return commonerrors.Newf(commonerrors.ErrInvalid, "transaction %v is %v and cannot be modified", t.ID, t.Status)
	}
	if index < 0 {
		return commonerrors.Newf(commonerrors.ErrInvalid, "invalid group index %v", index)
	}
	t.CurrentGroupIndex = index
	return nil
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		c.CompletedAt = &completedAt
	}
	return &c
}

// Step is one executed attempt of a step definition within a transaction.
type Step struct {
	ID            string     `json:"id"`
	TransactionID string     `json:"transactionId"`
	StepName      string     `json:"stepName"`
	ActionType    string     `json:"actionType"`
	Order         int        `json:"order"`
	Status        StepStatus `json:"status"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	ResultData    string     `json:"resultData,omitempty"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
	Compensated   bool       `json:"compensated"`
}

// MarkCompensated flags the step as compensated. Only completed steps can be compensated.
func (s *Step) MarkCompensated() error {
	if s.Status != StepCompleted {
		return commonerrors.Newf(commonerrors.ErrInvalid, "step %v is %v and cannot be compensated", s.StepName, s.Status)
	}
	s.Compensated = true
	return nil
}

// IsFinished states whether the step reached a final status.
func (s *Step) IsFinished() bool {
	return s.Status == StepCompleted || s.Status == StepFailed
}

// Clone returns a deep copy of the step.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	c := *s
	if s.CompletedAt != nil {
		completedAt := *s.CompletedAt
		c.CompletedAt = &completedAt
	}
	return &c
}

// StepDefinition describes a step to execute. It is input to the orchestrator and is never persisted.
type StepDefinition struct {
	Name       string
	ActionType string
	Order      int
	Parameters map[string]any
}

// NewStepDefinition returns a step definition.
func NewStepDefinition(name, actionType string, order int, parameters map[string]any) StepDefinition {
	return StepDefinition{
		Name:       name,
		ActionType: actionType,
		Order:      order,
		Parameters: maps.Clone(parameters),
	}
}

// Parameter returns the value of a parameter of the definition.
func (d StepDefinition) Parameter(key string) (value any, found bool) {
	value, found = d.Parameters[key]
	return
}

// StepGroup is a list of step definitions executed according to a mode.
type StepGroup struct {
	Mode  ExecutionMode
	Steps []StepDefinition
	// Timeout overrides the orchestrator deadline of a parallel group. Zero uses the orchestrator default.
	Timeout time.Duration
}

// StepResult is what a step handler reports.
type StepResult struct {
	Success      bool
	Data         string
	ErrorMessage string
}

// Succeeded returns a successful step result.
func Succeeded(data string) StepResult {
	return StepResult{Success: true, Data: data}
}

// Failed returns a failed step result.
func Failed(message string) StepResult {
	return StepResult{ErrorMessage: message}
}

// Result is the outcome of a saga execution.
type Result struct {
	TransactionID string
	Success       bool
	// Context is a snapshot of the saga context at the end of a successful execution.
	Context      map[string]any
	ErrorMessage string
	// ErrorDetail is the serialised typed error, see commonerrors.SerialiseError.
	ErrorDetail string
	// FailedStep is the name of the step reported as failed, if any.
	FailedStep string
}
