/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-faker/faker/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors/errortest"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

const testPrefix = "test:"

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newStep(transactionID, name string) *saga.Step {
	return &saga.Step{
		ID:            faker.UUIDHyphenated(),
		TransactionID: transactionID,
		StepName:      name,
		ActionType:    "ACTION",
		Status:        saga.StepStarted,
		StartedAt:     time.Now().UTC(),
	}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), &saga.StoreConfiguration{Backend: saga.StoreBackendRedis, RedisAddress: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewClient(context.Background(), nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
	_, err = NewClient(context.Background(), &saga.StoreConfiguration{Backend: saga.StoreBackendRedis})
	errortest.AssertError(t, err, commonerrors.ErrUndefined)

	address := mr.Addr()
	mr.Close()
	_, err = NewClient(context.Background(), &saga.StoreConfiguration{Backend: saga.StoreBackendRedis, RedisAddress: address})
	errortest.AssertError(t, err, commonerrors.ErrUnavailable)
}

func TestTransactionStore(t *testing.T) {
	mr, client := newTestRedis(t)
	transactions, _ := New(client, testPrefix)
	ctx := context.Background()

	transaction := &saga.Transaction{
		ID:            faker.UUIDHyphenated(),
		CorrelationID: faker.UUIDHyphenated(),
		FlowReference: faker.Word(),
		Status:        saga.TransactionStarted,
		StartedAt:     time.Now().UTC(),
	}
	require.NoError(t, transactions.Save(ctx, transaction))
	assert.True(t, mr.Exists(testPrefix+"tx:"+transaction.ID))

	completedAt := time.Now().UTC()
	transaction.Status = saga.TransactionCompleted
	transaction.CurrentGroupIndex = 3
	transaction.CompletedAt = &completedAt
	require.NoError(t, transactions.Save(ctx, transaction))

	found, err := transactions.FindByID(ctx, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.ID, found.ID)
	assert.Equal(t, transaction.CorrelationID, found.CorrelationID)
	assert.Equal(t, saga.TransactionCompleted, found.Status)
	assert.Equal(t, 3, found.CurrentGroupIndex)
	require.NotNil(t, found.CompletedAt)
	assert.True(t, completedAt.Equal(*found.CompletedAt))

	_, err = transactions.FindByID(ctx, faker.UUIDHyphenated())
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
	_, err = transactions.FindByID(ctx, "")
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
	errortest.AssertError(t, transactions.Save(ctx, &saga.Transaction{}), commonerrors.ErrUndefined)

	require.NoError(t, mr.Set(testPrefix+"tx:corrupted", "{not json"))
	_, err = transactions.FindByID(ctx, "corrupted")
	errortest.AssertError(t, err, commonerrors.ErrMarshalling)
}

func TestStepStore(t *testing.T) {
	_, client := newTestRedis(t)
	_, steps := New(client, testPrefix)
	ctx := context.Background()
	transactionID := faker.UUIDHyphenated()

	first := newStep(transactionID, "first")
	second := newStep(transactionID, "second")
	third := newStep(transactionID, "third")
	require.NoError(t, steps.Save(ctx, first))
	require.NoError(t, steps.Save(ctx, second))
	require.NoError(t, steps.Save(ctx, third))

	first.Status = saga.StepCompleted
	first.ResultData = "done"
	first.Compensated = true
	require.NoError(t, steps.Save(ctx, first))
	second.Status = saga.StepFailed
	second.ErrorMessage = "broken"
	require.NoError(t, steps.Save(ctx, second))

	found, err := steps.FindByTransaction(ctx, transactionID)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{found[0].StepName, found[1].StepName, found[2].StepName})
	assert.Equal(t, saga.StepCompleted, found[0].Status)
	assert.Equal(t, "done", found[0].ResultData)
	assert.True(t, found[0].Compensated)
	assert.Equal(t, "broken", found[1].ErrorMessage)
	assert.Equal(t, saga.StepStarted, found[2].Status)

	other, err := steps.FindByTransaction(ctx, faker.UUIDHyphenated())
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = steps.FindByTransaction(ctx, "")
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
	errortest.AssertError(t, steps.Save(ctx, nil), commonerrors.ErrUndefined)
}

func TestUnavailableServer(t *testing.T) {
	mr, client := newTestRedis(t)
	transactions, steps := New(client, testPrefix)
	mr.Close()

	err := transactions.Save(context.Background(), &saga.Transaction{ID: faker.UUIDHyphenated()})
	errortest.AssertError(t, err, commonerrors.ErrUnavailable)
	_, err = steps.FindByTransaction(context.Background(), faker.UUIDHyphenated())
	errortest.AssertError(t, err, commonerrors.ErrUnavailable)
}

func TestCancelledContext(t *testing.T) {
	_, client := newTestRedis(t)
	transactions := NewTransactionStore(client, testPrefix)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := transactions.FindByID(ctx, faker.UUIDHyphenated())
	errortest.AssertError(t, err, commonerrors.ErrCancelled)
}
