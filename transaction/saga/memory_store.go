/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"

	"github.com/sasha-s/go-deadlock"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// MemoryTransactionStore keeps transactions in memory. Records are copied on the way in and out.
type MemoryTransactionStore struct {
	mu           deadlock.RWMutex
	transactions map[string]*Transaction
}

// MemoryStepStore keeps steps in memory in the order they were first saved.
type MemoryStepStore struct {
	mu    deadlock.RWMutex
	steps map[string]*Step
	order map[string][]string
}

// NewMemoryStores returns empty in-memory stores.
func NewMemoryStores() (*MemoryTransactionStore, *MemoryStepStore) {
	return NewMemoryTransactionStore(), NewMemoryStepStore()
}

func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{transactions: map[string]*Transaction{}}
}

func NewMemoryStepStore() *MemoryStepStore {
	return &MemoryStepStore{
		steps: map[string]*Step{},
		order: map[string][]string{},
	}
}

func (s *MemoryTransactionStore) Save(ctx context.Context, transaction *Transaction) error {
	if err := commonerrors.ErrFromContext(ctx); err != nil {
		return err
	}
	if transaction == nil || transaction.ID == "" {
		return commonerrors.UndefinedVariable("transaction")
	}
	defer s.mu.Unlock()
	s.mu.Lock()
	s.transactions[transaction.ID] = transaction.Clone()
	return nil
}

func (s *MemoryTransactionStore) FindByID(ctx context.Context, id string) (*Transaction, error) {
	if err := commonerrors.ErrFromContext(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()
	s.mu.RLock()
	transaction, found := s.transactions[id]
	if !found {
		return nil, commonerrors.Newf(commonerrors.ErrNotFound, "transaction %v", id)
	}
	return transaction.Clone(), nil
}

// Len returns the number of transactions stored.
func (s *MemoryTransactionStore) Len() int {
	defer s.mu.RUnlock()
	s.mu.RLock()
	return len(s.transactions)
}

func (s *MemoryStepStore) Save(ctx context.Context, step *Step) error {
	if err := commonerrors.ErrFromContext(ctx); err != nil {
		return err
	}
	if step == nil || step.ID == "" {
		return commonerrors.UndefinedVariable("step")
	}
	defer s.mu.Unlock()
	s.mu.Lock()
	if _, found := s.steps[step.ID]; !found {
		s.order[step.TransactionID] = append(s.order[step.TransactionID], step.ID)
	}
	s.steps[step.ID] = step.Clone()
	return nil
}

// FindByTransaction returns an empty list if no step was saved for the transaction.
func (s *MemoryStepStore) FindByTransaction(ctx context.Context, transactionID string) ([]Step, error) {
	if err := commonerrors.ErrFromContext(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()
	s.mu.RLock()
	ids := s.order[transactionID]
	steps := make([]Step, 0, len(ids))
	for _, id := range ids {
		steps = append(steps, *s.steps[id].Clone())
	}
	return steps, nil
}
