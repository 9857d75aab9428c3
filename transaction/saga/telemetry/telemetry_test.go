/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/require"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

const (
	actionReserve = "RESERVE"
	actionCharge  = "CHARGE"
)

// runFailingSaga runs a saga whose first step succeeds and second step fails.
func runFailingSaga(t *testing.T, events *saga.Events) *saga.Result {
	t.Helper()
	registry := saga.NewRegistry()
	require.NoError(t, registry.Register(actionReserve, saga.StepHandlerFunc(func(_ context.Context, _ saga.StepDefinition, _ *saga.Context) saga.StepResult {
		return saga.Succeeded("reserved")
	}), saga.CompensationHandlerFunc(func(_ context.Context, _ *saga.Step, _ *saga.Context) error {
		return nil
	})))
	require.NoError(t, registry.RegisterStepHandler(actionCharge, saga.StepHandlerFunc(func(_ context.Context, _ saga.StepDefinition, _ *saga.Context) saga.StepResult {
		return saga.Failed("card declined")
	})))
	transactions, steps := saga.NewMemoryStores()
	orchestrator, err := saga.NewOrchestrator(registry, transactions, steps, saga.WithEvents(events))
	require.NoError(t, err)
	defer func() { _ = orchestrator.Close() }()

	ctx := context.Background()
	transaction, err := orchestrator.StartTransaction(ctx, faker.Word(), "")
	require.NoError(t, err)
	groups, err := saga.NewBuilder().Sequential(
		saga.NewStepDefinition("reserve", actionReserve, 0, nil),
		saga.NewStepDefinition("charge", actionCharge, 1, nil),
	).Build()
	require.NoError(t, err)
	future, err := orchestrator.ExecuteSaga(ctx, transaction.ID, groups)
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	result, err := future.Wait(waitCtx)
	require.NoError(t, err)
	require.False(t, result.Success)
	return result
}
