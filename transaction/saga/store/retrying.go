/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"github.com/go-logr/logr"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/retry"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

// NewRetryingStores wraps stores so that operations failing for a transient reason are retried according to the policy.
// Resources of the wrapped stores are released when the returned stores are closed.
func NewRetryingStores(stores *Stores, policy *retry.RetryPolicyConfiguration, logger logr.Logger) (*Stores, error) {
	if stores == nil || stores.Transactions == nil || stores.Steps == nil {
		return nil, commonerrors.UndefinedVariable("stores")
	}
	if policy == nil {
		return nil, commonerrors.UndefinedVariable("retry policy")
	}
	err := policy.Validate()
	if err != nil {
		return nil, err
	}
	return &Stores{
		Transactions: &retryingTransactionStore{store: stores.Transactions, policy: policy, logger: logger},
		Steps:        &retryingStepStore{store: stores.Steps, policy: policy, logger: logger},
		closers:      []io.Closer{stores},
	}, nil
}

// IsTransient states whether a persistence error may disappear when retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if commonerrors.Any(err, commonerrors.ErrUnavailable, commonerrors.ErrTimeout, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

type retryingTransactionStore struct {
	store  saga.ITransactionStore
	policy *retry.RetryPolicyConfiguration
	logger logr.Logger
}

func (s *retryingTransactionStore) Save(ctx context.Context, transaction *saga.Transaction) error {
	return retry.RetryIf(ctx, s.logger, s.policy, func() error {
		return s.store.Save(ctx, transaction)
	}, "saving transaction failed", IsTransient)
}

func (s *retryingTransactionStore) FindByID(ctx context.Context, id string) (transaction *saga.Transaction, err error) {
	err = retry.RetryIf(ctx, s.logger, s.policy, func() (subErr error) {
		transaction, subErr = s.store.FindByID(ctx, id)
		return
	}, "retrieving transaction failed", IsTransient)
	if err != nil {
		transaction = nil
	}
	return
}

type retryingStepStore struct {
	store  saga.IStepStore
	policy *retry.RetryPolicyConfiguration
	logger logr.Logger
}

func (s *retryingStepStore) Save(ctx context.Context, step *saga.Step) error {
	return retry.RetryIf(ctx, s.logger, s.policy, func() error {
		return s.store.Save(ctx, step)
	}, "saving step failed", IsTransient)
}

func (s *retryingStepStore) FindByTransaction(ctx context.Context, transactionID string) (steps []saga.Step, err error) {
	err = retry.RetryIf(ctx, s.logger, s.policy, func() (subErr error) {
		steps, subErr = s.store.FindByTransaction(ctx, transactionID)
		return
	}, "retrieving steps failed", IsTransient)
	if err != nil {
		steps = nil
	}
	return
}
