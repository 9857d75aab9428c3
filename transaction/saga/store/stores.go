/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package store builds the persistence layer of saga orchestrators.
package store

import (
	"context"
	"io"

	"github.com/go-logr/logr"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga/store/redisstore"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga/store/sqlstore"
)

// Stores pairs the stores of transactions and steps with the resources they hold.
type Stores struct {
	Transactions saga.ITransactionStore
	Steps        saga.IStepStore
	closers      []io.Closer
}

// NewStores returns stores which hold no resource.
func NewStores(transactions saga.ITransactionStore, steps saga.IStepStore) (*Stores, error) {
	if transactions == nil {
		return nil, commonerrors.UndefinedVariable("transaction store")
	}
	if steps == nil {
		return nil, commonerrors.UndefinedVariable("step store")
	}
	return &Stores{Transactions: transactions, Steps: steps}, nil
}

// Close releases the resources held by the stores, e.g. database connections.
func (s *Stores) Close() error {
	var errs []error
	for i := range s.closers {
		errs = append(errs, s.closers[i].Close())
	}
	s.closers = nil
	return commonerrors.Join(errs...)
}

// NewFromConfiguration creates the stores of the backend configured.
func NewFromConfiguration(ctx context.Context, cfg *saga.StoreConfiguration, logger logr.Logger) (stores *Stores, err error) {
	if cfg == nil {
		err = commonerrors.UndefinedVariable("store configuration")
		return
	}
	err = cfg.Validate()
	if err != nil {
		return
	}
	switch cfg.Backend {
	case saga.StoreBackendPostgres:
		db, subErr := sqlstore.Open(ctx, cfg.PostgresDSN)
		if subErr != nil {
			err = subErr
			return
		}
		err = sqlstore.InitSchema(ctx, db, cfg.TablePrefix)
		if err != nil {
			_ = db.Close()
			return
		}
		transactions, steps, subErr := sqlstore.New(db, cfg.TablePrefix)
		if subErr != nil {
			_ = db.Close()
			err = subErr
			return
		}
		stores = &Stores{Transactions: transactions, Steps: steps, closers: []io.Closer{db}}
	case saga.StoreBackendRedis:
		client, subErr := redisstore.NewClient(ctx, cfg)
		if subErr != nil {
			err = subErr
			return
		}
		transactions, steps := redisstore.New(client, cfg.KeyPrefix)
		stores = &Stores{Transactions: transactions, Steps: steps, closers: []io.Closer{client}}
	default:
		transactions, steps := saga.NewMemoryStores()
		stores = &Stores{Transactions: transactions, Steps: steps}
	}
	logger.V(1).Info("saga stores created", "backend", cfg.Backend)
	return
}
