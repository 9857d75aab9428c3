/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors/errortest"
)

var allTransactionStatuses = []TransactionStatus{
	TransactionCreated,
	TransactionStarted,
	TransactionRunning,
	TransactionCompensating,
	TransactionCompleted,
	TransactionFailed,
}

func TestTransactionStatusTransitions(t *testing.T) {
	allowed := map[TransactionStatus][]TransactionStatus{
		TransactionCreated:      {TransactionStarted},
		TransactionStarted:      {TransactionRunning, TransactionCompensating},
		TransactionRunning:      {TransactionCompleted, TransactionCompensating},
		TransactionCompensating: {TransactionFailed},
	}
	for _, from := range allTransactionStatuses {
		for _, to := range allTransactionStatuses {
			t.Run(fmt.Sprintf("%v to %v", from, to), func(t *testing.T) {
				expected := false
				for _, s := range allowed[from] {
					expected = expected || s == to
				}
				assert.Equal(t, expected, from.CanTransitionTo(to))

				tx := &Transaction{ID: faker.UUIDHyphenated(), Status: from}
				err := tx.TransitionTo(to, time.Now())
				if expected {
					require.NoError(t, err)
					assert.Equal(t, to, tx.Status)
				} else {
					errortest.AssertError(t, err, commonerrors.ErrInvalid)
					assert.Equal(t, from, tx.Status)
				}
			})
		}
	}
}

func TestTransactionTerminalStatus(t *testing.T) {
	assert.True(t, TransactionCompleted.IsTerminal())
	assert.True(t, TransactionFailed.IsTerminal())
	assert.False(t, TransactionCreated.IsTerminal())
	assert.False(t, TransactionStarted.IsTerminal())
	assert.False(t, TransactionRunning.IsTerminal())
	assert.False(t, TransactionCompensating.IsTerminal())
}

func TestTransactionCompletionTime(t *testing.T) {
	now := time.Now()
	tx := &Transaction{ID: faker.UUIDHyphenated(), Status: TransactionCreated}
	require.NoError(t, tx.TransitionTo(TransactionStarted, now))
	assert.Nil(t, tx.CompletedAt)
	require.NoError(t, tx.TransitionTo(TransactionRunning, now))
	assert.Nil(t, tx.CompletedAt)
	require.NoError(t, tx.TransitionTo(TransactionCompleted, now))
	require.NotNil(t, tx.CompletedAt)
	assert.True(t, now.Equal(*tx.CompletedAt))
}

func TestTransactionSetCurrentGroup(t *testing.T) {
	tx := &Transaction{ID: faker.UUIDHyphenated(), Status: TransactionRunning}
	require.NoError(t, tx.SetCurrentGroup(2))
	assert.Equal(t, 2, tx.CurrentGroupIndex)
	errortest.AssertError(t, tx.SetCurrentGroup(-1), commonerrors.ErrInvalid)

	for _, status := range []TransactionStatus{TransactionCompleted, TransactionFailed} {
		tx.Status = status
		errortest.AssertError(t, tx.SetCurrentGroup(3), commonerrors.ErrInvalid)
		assert.Equal(t, 2, tx.CurrentGroupIndex)
	}
}

func TestTransactionClone(t *testing.T) {
	assert.Nil(t, (*Transaction)(nil).Clone())
	now := time.Now()
	tx := &Transaction{ID: faker.UUIDHyphenated(), FlowReference: faker.Word(), Status: TransactionFailed, CompletedAt: &now}
	c := tx.Clone()
	assert.Equal(t, tx, c)
	later := now.Add(time.Hour)
	c.CompletedAt = &later
	c.Status = TransactionCompleted
	assert.True(t, now.Equal(*tx.CompletedAt))
	assert.Equal(t, TransactionFailed, tx.Status)
}

func TestStepMarkCompensated(t *testing.T) {
	for _, status := range []StepStatus{StepStarted, StepFailed} {
		step := &Step{StepName: faker.Word(), Status: status}
		errortest.AssertError(t, step.MarkCompensated(), commonerrors.ErrInvalid)
		assert.False(t, step.Compensated)
	}
	step := &Step{StepName: faker.Word(), Status: StepCompleted}
	require.NoError(t, step.MarkCompensated())
	assert.True(t, step.Compensated)
}

func TestStepIsFinished(t *testing.T) {
	assert.False(t, (&Step{Status: StepStarted}).IsFinished())
	assert.True(t, (&Step{Status: StepCompleted}).IsFinished())
	assert.True(t, (&Step{Status: StepFailed}).IsFinished())
}

func TestStepDefinition(t *testing.T) {
	params := map[string]any{"endpoint": faker.URL()}
	def := NewStepDefinition(faker.Word(), "HTTP", 1, params)
	params["endpoint"] = "changed"
	value, found := def.Parameter("endpoint")
	assert.True(t, found)
	assert.NotEqual(t, "changed", value)
	_, found = def.Parameter(faker.Word())
	assert.False(t, found)
}

func TestStepResults(t *testing.T) {
	data := faker.Sentence()
	assert.Equal(t, StepResult{Success: true, Data: data}, Succeeded(data))
	assert.Equal(t, StepResult{ErrorMessage: data}, Failed(data))
}
