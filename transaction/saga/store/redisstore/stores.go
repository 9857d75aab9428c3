/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package redisstore persists saga transactions and steps in Redis.
//
// A transaction is a JSON string under `<prefix>tx:<id>`. The steps of a transaction are JSON values of the hash
// `<prefix>steps:<transaction id>` and their insertion order is kept in the list `<prefix>steporder:<transaction id>`.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

// saveStep records the step and appends its identifier to the order list the first time it is seen.
var saveStep = redis.NewScript(`
if redis.call('HSET', KEYS[1], ARGV[1], ARGV[2]) == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
end
return 1
`)

var (
	_ saga.ITransactionStore = &TransactionStore{}
	_ saga.IStepStore        = &StepStore{}
)

// NewClient connects to the Redis server configured and checks it is reachable.
func NewClient(ctx context.Context, cfg *saga.StoreConfiguration) (*redis.Client, error) {
	if cfg == nil {
		return nil, commonerrors.UndefinedVariable("store configuration")
	}
	if cfg.RedisAddress == "" {
		return nil, commonerrors.UndefinedVariable("redis address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, convertError(err, fmt.Sprintf("could not reach redis at %v", cfg.RedisAddress))
	}
	return client, nil
}

// New returns the transaction and step stores using the client.
func New(client redis.UniversalClient, keyPrefix string) (*TransactionStore, *StepStore) {
	return NewTransactionStore(client, keyPrefix), NewStepStore(client, keyPrefix)
}

// TransactionStore stores transactions in Redis.
type TransactionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewTransactionStore returns a store of transactions.
func NewTransactionStore(client redis.UniversalClient, keyPrefix string) *TransactionStore {
	return &TransactionStore{client: client, prefix: keyPrefix}
}

func (s *TransactionStore) key(id string) string {
	return s.prefix + "tx:" + id
}

// Save inserts or overwrites a transaction.
func (s *TransactionStore) Save(ctx context.Context, transaction *saga.Transaction) error {
	if transaction == nil || transaction.ID == "" {
		return commonerrors.UndefinedVariable("transaction")
	}
	data, err := json.Marshal(transaction)
	if err != nil {
		return commonerrors.WrapErrorf(commonerrors.ErrMarshalling, err, "could not serialise transaction %v", transaction.ID)
	}
	return convertError(s.client.Set(ctx, s.key(transaction.ID), data, 0).Err(), fmt.Sprintf("could not save transaction %v", transaction.ID))
}

// FindByID retrieves a transaction. It returns commonerrors.ErrNotFound if no transaction has this identifier.
func (s *TransactionStore) FindByID(ctx context.Context, id string) (*saga.Transaction, error) {
	if id == "" {
		return nil, commonerrors.UndefinedVariable("transaction identifier")
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, commonerrors.Newf(commonerrors.ErrNotFound, "transaction %v", id)
		}
		return nil, convertError(err, fmt.Sprintf("could not retrieve transaction %v", id))
	}
	transaction := &saga.Transaction{}
	err = json.Unmarshal(data, transaction)
	if err != nil {
		return nil, commonerrors.WrapErrorf(commonerrors.ErrMarshalling, err, "could not deserialise transaction %v", id)
	}
	return transaction, nil
}

// StepStore stores steps in Redis. Steps are returned in insertion order.
type StepStore struct {
	client redis.UniversalClient
	prefix string
}

// NewStepStore returns a store of steps.
func NewStepStore(client redis.UniversalClient, keyPrefix string) *StepStore {
	return &StepStore{client: client, prefix: keyPrefix}
}

func (s *StepStore) stepsKey(transactionID string) string {
	return s.prefix + "steps:" + transactionID
}

func (s *StepStore) orderKey(transactionID string) string {
	return s.prefix + "steporder:" + transactionID
}

// Save inserts or overwrites a step.
func (s *StepStore) Save(ctx context.Context, step *saga.Step) error {
	if step == nil || step.ID == "" {
		return commonerrors.UndefinedVariable("step")
	}
	data, err := json.Marshal(step)
	if err != nil {
		return commonerrors.WrapErrorf(commonerrors.ErrMarshalling, err, "could not serialise step %v", step.ID)
	}
	err = saveStep.Run(ctx, s.client, []string{s.stepsKey(step.TransactionID), s.orderKey(step.TransactionID)}, step.ID, string(data)).Err()
	return convertError(err, fmt.Sprintf("could not save step %v", step.ID))
}

// FindByTransaction lists the steps of a transaction.
func (s *StepStore) FindByTransaction(ctx context.Context, transactionID string) ([]saga.Step, error) {
	if transactionID == "" {
		return nil, commonerrors.UndefinedVariable("transaction identifier")
	}
	ids, err := s.client.LRange(ctx, s.orderKey(transactionID), 0, -1).Result()
	if err != nil {
		return nil, convertError(err, fmt.Sprintf("could not retrieve steps of transaction %v", transactionID))
	}
	steps := make([]saga.Step, 0, len(ids))
	if len(ids) == 0 {
		return steps, nil
	}
	values, err := s.client.HMGet(ctx, s.stepsKey(transactionID), ids...).Result()
	if err != nil {
		return nil, convertError(err, fmt.Sprintf("could not retrieve steps of transaction %v", transactionID))
	}
	for i := range values {
		data, ok := values[i].(string)
		if !ok {
			return nil, commonerrors.Newf(commonerrors.ErrUnexpected, "step %v of transaction %v is missing", ids[i], transactionID)
		}
		var step saga.Step
		err = json.Unmarshal([]byte(data), &step)
		if err != nil {
			return nil, commonerrors.WrapErrorf(commonerrors.ErrMarshalling, err, "could not deserialise step %v", ids[i])
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func convertError(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return commonerrors.WrapError(nil, commonerrors.ConvertContextError(err), message)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return commonerrors.WrapError(commonerrors.ErrUnavailable, err, message)
	}
	return commonerrors.WrapError(commonerrors.ErrUnexpected, err, message)
}
