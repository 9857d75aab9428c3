/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

var (
	// ErrStepExecution is raised when a step handler reports a failure, returns an error or panics.
	ErrStepExecution = commonerrors.New(commonerrors.ErrFailed, "step execution")
	// ErrUnregisteredAction is raised when no handler is registered for the action type of a step.
	ErrUnregisteredAction = commonerrors.New(commonerrors.ErrUndefined, "action type handler")
	// ErrGroupTimeout is raised for steps of a parallel group still running at the group deadline.
	ErrGroupTimeout = commonerrors.New(commonerrors.ErrTimeout, "parallel group deadline exceeded")
	// ErrCompensation is raised when a compensation handler fails. It never changes the outcome of a saga.
	ErrCompensation = commonerrors.New(commonerrors.ErrFailed, "compensation")
	// ErrTransactionNotFound is returned when looking up an unknown transaction.
	ErrTransactionNotFound = commonerrors.New(commonerrors.ErrNotFound, "saga transaction")
)

func persistenceError(err error, format string, args ...any) error {
	return commonerrors.WrapErrorf(commonerrors.ErrUnexpected, err, format, args...)
}
