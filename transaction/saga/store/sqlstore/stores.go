/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

const (
	transactionColumns = "id, correlation_id, flow_reference, status, current_group_index, started_at, completed_at, error_message"
	stepColumns        = "id, transaction_id, step_name, action_type, step_order, status, started_at, completed_at, result_data, error_message, compensated"
)

var (
	_ saga.ITransactionStore = &TransactionStore{}
	_ saga.IStepStore        = &StepStore{}
)

// New returns the transaction and step stores backed by the database. Tables are expected to exist, see InitSchema.
func New(db *sqlx.DB, tablePrefix string) (transactions *TransactionStore, steps *StepStore, err error) {
	transactions, err = NewTransactionStore(db, tablePrefix)
	if err != nil {
		return
	}
	steps, err = NewStepStore(db, tablePrefix)
	if err != nil {
		transactions = nil
	}
	return
}

// TransactionStore stores transactions in a PostgreSQL table.
type TransactionStore struct {
	db         *sqlx.DB
	upsertStmt string
	selectStmt string
}

// NewTransactionStore returns a store of transactions.
func NewTransactionStore(db *sqlx.DB, tablePrefix string) (*TransactionStore, error) {
	if db == nil {
		return nil, commonerrors.UndefinedVariable("database")
	}
	table, err := tableName(tablePrefix, transactionTable)
	if err != nil {
		return nil, err
	}
	return &TransactionStore{
		db: db,
		upsertStmt: fmt.Sprintf(`INSERT INTO %v (%v)
VALUES (:id, :correlation_id, :flow_reference, :status, :current_group_index, :started_at, :completed_at, :error_message)
ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, current_group_index = EXCLUDED.current_group_index, completed_at = EXCLUDED.completed_at, error_message = EXCLUDED.error_message`, table, transactionColumns),
		selectStmt: fmt.Sprintf("SELECT %v FROM %v WHERE id = $1", transactionColumns, table),
	}, nil
}

// Save inserts or updates a transaction.
func (s *TransactionStore) Save(ctx context.Context, transaction *saga.Transaction) error {
	if transaction == nil || transaction.ID == "" {
		return commonerrors.UndefinedVariable("transaction")
	}
	_, err := s.db.NamedExecContext(ctx, s.upsertStmt, newTransactionRow(transaction))
	return convertError(err, fmt.Sprintf("could not save transaction %v", transaction.ID))
}

// FindByID retrieves a transaction. It returns commonerrors.ErrNotFound if no transaction has this identifier.
func (s *TransactionStore) FindByID(ctx context.Context, id string) (*saga.Transaction, error) {
	if id == "" {
		return nil, commonerrors.UndefinedVariable("transaction identifier")
	}
	var row transactionRow
	err := s.db.GetContext(ctx, &row, s.selectStmt, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.Newf(commonerrors.ErrNotFound, "transaction %v", id)
		}
		return nil, convertError(err, fmt.Sprintf("could not retrieve transaction %v", id))
	}
	return row.toTransaction(), nil
}

// StepStore stores steps in a PostgreSQL table. Steps are returned in insertion order.
type StepStore struct {
	db         *sqlx.DB
	upsertStmt string
	selectStmt string
}

// NewStepStore returns a store of steps.
func NewStepStore(db *sqlx.DB, tablePrefix string) (*StepStore, error) {
	if db == nil {
		return nil, commonerrors.UndefinedVariable("database")
	}
	table, err := tableName(tablePrefix, stepTable)
	if err != nil {
		return nil, err
	}
	return &StepStore{
		db: db,
		upsertStmt: fmt.Sprintf(`INSERT INTO %v (%v)
VALUES (:id, :transaction_id, :step_name, :action_type, :step_order, :status, :started_at, :completed_at, :result_data, :error_message, :compensated)
ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, completed_at = EXCLUDED.completed_at, result_data = EXCLUDED.result_data, error_message = EXCLUDED.error_message, compensated = EXCLUDED.compensated`, table, stepColumns),
		selectStmt: fmt.Sprintf("SELECT %v FROM %v WHERE transaction_id = $1 ORDER BY seq", stepColumns, table),
	}, nil
}

// Save inserts or updates a step.
func (s *StepStore) Save(ctx context.Context, step *saga.Step) error {
	if step == nil || step.ID == "" {
		return commonerrors.UndefinedVariable("step")
	}
	_, err := s.db.NamedExecContext(ctx, s.upsertStmt, newStepRow(step))
	return convertError(err, fmt.Sprintf("could not save step %v", step.ID))
}

// FindByTransaction lists the steps of a transaction.
func (s *StepStore) FindByTransaction(ctx context.Context, transactionID string) ([]saga.Step, error) {
	if transactionID == "" {
		return nil, commonerrors.UndefinedVariable("transaction identifier")
	}
	var rows []stepRow
	err := s.db.SelectContext(ctx, &rows, s.selectStmt, transactionID)
	if err != nil {
		return nil, convertError(err, fmt.Sprintf("could not retrieve steps of transaction %v", transactionID))
	}
	steps := make([]saga.Step, 0, len(rows))
	for i := range rows {
		steps = append(steps, rows[i].toStep())
	}
	return steps, nil
}
