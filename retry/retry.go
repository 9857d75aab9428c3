/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package retry retries operations following a RetryPolicyConfiguration.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// RetryIf will retry fn when the value returned from retryConditionFn is true
func RetryIf(ctx context.Context, logger logr.Logger, retryPolicy *RetryPolicyConfiguration, fn func() error, msgOnRetry string, retryConditionFn func(err error) bool) error {
	if retryPolicy == nil {
		return commonerrors.New(commonerrors.ErrUndefined, "missing retry policy configuration")
	}
	if fn == nil {
		return commonerrors.UndefinedVariable("function to retry")
	}
	if err := commonerrors.ErrFromContext(ctx); err != nil {
		return err
	}
	if !retryPolicy.Enabled {
		return fn()
	}
	var retryType retry.DelayTypeFunc
	switch {
	case retryPolicy.LinearBackOffEnabled:
		retryType = retry.CombineDelay(retry.FixedDelay, retry.RandomDelay)
	case retryPolicy.BackOffEnabled:
		retryType = retry.BackOffDelay
	default:
		retryType = retry.FixedDelay
	}
	attempts := uint(1)
	if retryPolicy.RetryMax > 0 {
		attempts += uint(retryPolicy.RetryMax)
	}

	return commonerrors.ConvertContextError(
		retry.Do(
			fn,
			retry.OnRetry(func(n uint, err error) {
				logger.Error(err, fmt.Sprintf("%v (attempt #%v)", msgOnRetry, n+1), "attempt", n+1)
			}),
			retry.Delay(retryPolicy.RetryWaitMin),
			retry.MaxDelay(retryPolicy.RetryWaitMax),
			retry.MaxJitter(25*time.Millisecond),
			retry.DelayType(retryType),
			retry.Attempts(attempts),
			retry.RetryIf(retryConditionFn),
			retry.LastErrorOnly(true),
			retry.Context(ctx),
		),
	)
}

// RetryOnError retries fn when the error it returns is of any of the types given in retriableErr.
func RetryOnError(ctx context.Context, logger logr.Logger, retryPolicy *RetryPolicyConfiguration, fn func() error, msgOnRetry string, retriableErr ...error) error {
	return RetryIf(ctx, logger, retryPolicy, fn, msgOnRetry, func(err error) bool {
		return commonerrors.Any(err, retriableErr...)
	})
}
