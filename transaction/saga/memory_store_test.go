/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors/errortest"
)

func TestMemoryTransactionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTransactionStore()
	_, err := store.FindByID(ctx, faker.UUIDHyphenated())
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
	errortest.AssertError(t, store.Save(ctx, nil), commonerrors.ErrUndefined)

	tx := &Transaction{ID: faker.UUIDHyphenated(), FlowReference: faker.Word(), Status: TransactionCreated, StartedAt: time.Now()}
	require.NoError(t, store.Save(ctx, tx))
	tx.Status = TransactionRunning
	found, err := store.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, TransactionCreated, found.Status)

	found.Status = TransactionFailed
	again, err := store.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, TransactionCreated, again.Status)

	require.NoError(t, store.Save(ctx, tx))
	again, err = store.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, TransactionRunning, again.Status)
	assert.Equal(t, 1, store.Len())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	errortest.AssertError(t, store.Save(cancelled, tx), commonerrors.ErrCancelled)
}

func TestMemoryStepStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStepStore()
	txID := faker.UUIDHyphenated()
	steps, err := store.FindByTransaction(ctx, txID)
	require.NoError(t, err)
	assert.Empty(t, steps)
	errortest.AssertError(t, store.Save(ctx, &Step{}), commonerrors.ErrUndefined)

	names := []string{"c", "a", "b"}
	records := make([]*Step, 0, len(names))
	for i, name := range names {
		step := &Step{ID: faker.UUIDHyphenated(), TransactionID: txID, StepName: name, Order: i, Status: StepStarted}
		require.NoError(t, store.Save(ctx, step))
		records = append(records, step)
	}
	require.NoError(t, store.Save(ctx, &Step{ID: faker.UUIDHyphenated(), TransactionID: faker.UUIDHyphenated(), StepName: "other", Status: StepStarted}))

	records[0].Status = StepCompleted
	require.NoError(t, store.Save(ctx, records[0]))

	steps, err = store.FindByTransaction(ctx, txID)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	for i := range names {
		assert.Equal(t, names[i], steps[i].StepName)
	}
	assert.Equal(t, StepCompleted, steps[0].Status)
	assert.Equal(t, StepStarted, steps[1].Status)
}
