/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package parallelisation

import (
	"context"
	"errors"
	"io"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// DetermineContextError determines what the context error is if any.
func DetermineContextError(ctx context.Context) error {
	err := commonerrors.ErrFromContext(ctx)
	if err == nil {
		return nil
	}
	cause := context.Cause(ctx)
	if cause == nil || errors.Is(cause, ctx.Err()) {
		return err
	}
	return commonerrors.WrapError(err, cause, "")
}

type ContextualFunc func(ctx context.Context) error

type ContextualFunctionGroup struct {
	ExecutionGroup[ContextualFunc]
}

// NewContextualGroup returns a group executing contextual functions.
func NewContextualGroup(options ...StoreOption) *ContextualFunctionGroup {
	return &ContextualFunctionGroup{
		ExecutionGroup: *NewExecutionGroup[ContextualFunc](func(ctx context.Context, contextualF ContextualFunc) error {
			return contextualF(ctx)
		}, options...),
	}
}

// ForEach executes all the contextual functions according to the store options and returns an error if one occurred.
func ForEach(ctx context.Context, executionOptions *StoreOptions, contextualFunc ...ContextualFunc) error {
	group := NewContextualGroup(ExecuteAll(executionOptions).Options()...)
	group.RegisterFunction(contextualFunc...)
	return group.Execute(ctx)
}

// BreakOnError executes each function in the group until an error is found or the context gets cancelled.
func BreakOnError(ctx context.Context, executionOptions *StoreOptions, contextualFunc ...ContextualFunc) error {
	group := NewContextualGroup(StopOnFirstError(executionOptions).Options()...)
	group.RegisterFunction(contextualFunc...)
	return group.Execute(ctx)
}

// BreakOnErrorOrEOF is similar to BreakOnError but also stops on EOF. However, in this case, no error is returned
func BreakOnErrorOrEOF(ctx context.Context, executionOptions *StoreOptions, contextualFunc ...ContextualFunc) error {
	return commonerrors.Ignore(BreakOnError(ctx, executionOptions, contextualFunc...), commonerrors.ErrEOF, io.EOF)
}
