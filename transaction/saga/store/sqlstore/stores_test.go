/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-faker/faker/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors/errortest"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

const testPrefix = "test_"

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, DriverName), mock
}

func newTransactionStore(t *testing.T, db *sqlx.DB) *TransactionStore {
	t.Helper()
	transactions, err := NewTransactionStore(db, testPrefix)
	require.NoError(t, err)
	return transactions
}

func newStepStore(t *testing.T, db *sqlx.DB) *StepStore {
	t.Helper()
	steps, err := NewStepStore(db, testPrefix)
	require.NoError(t, err)
	return steps
}

var (
	transactionColumnNames = []string{"id", "correlation_id", "flow_reference", "status", "current_group_index", "started_at", "completed_at", "error_message"}
	stepColumnNames        = []string{"id", "transaction_id", "step_name", "action_type", "step_order", "status", "started_at", "completed_at", "result_data", "error_message", "compensated"}
)

func TestInitSchema(t *testing.T) {
	t.Run("creates tables and index", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS test_saga_transaction")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS test_saga_step")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS test_saga_step_transaction_idx ON test_saga_step")).WillReturnResult(sqlmock.NewResult(0, 0))
		require.NoError(t, InitSchema(context.Background(), db, testPrefix))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("invalid prefix", func(t *testing.T) {
		db, mock := newMockDB(t)
		errortest.AssertError(t, InitSchema(context.Background(), db, "1nvalid-prefix"), commonerrors.ErrInvalid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("undefined database", func(t *testing.T) {
		errortest.AssertError(t, InitSchema(context.Background(), nil, testPrefix), commonerrors.ErrUndefined)
	})
	t.Run("database unreachable", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS saga_transaction")).WillReturnError(&pq.Error{Code: "08006", Message: "connection failure"})
		errortest.AssertError(t, InitSchema(context.Background(), db, ""), commonerrors.ErrUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOpenWithoutDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
}

func TestNewChecksTablePrefix(t *testing.T) {
	db, mock := newMockDB(t)
	for _, prefix := range []string{"1nvalid", "x; DROP TABLE saga_step; --", "with space_"} {
		transactions, steps, err := New(db, prefix)
		errortest.AssertError(t, err, commonerrors.ErrInvalid)
		assert.Nil(t, transactions)
		assert.Nil(t, steps)
		_, err = NewTransactionStore(db, prefix)
		errortest.AssertError(t, err, commonerrors.ErrInvalid)
		_, err = NewStepStore(db, prefix)
		errortest.AssertError(t, err, commonerrors.ErrInvalid)
	}
	_, _, err := New(nil, testPrefix)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
	_, _, err = New(db, "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStore_Save(t *testing.T) {
	db, mock := newMockDB(t)
	transactions, _, err := New(db, testPrefix)
	require.NoError(t, err)
	transaction := &saga.Transaction{
		ID:            faker.UUIDHyphenated(),
		CorrelationID: faker.UUIDHyphenated(),
		FlowReference: faker.Word(),
		Status:        saga.TransactionStarted,
		StartedAt:     time.Now(),
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO test_saga_transaction")).
		WithArgs(transaction.ID, transaction.CorrelationID, transaction.FlowReference, "STARTED", 0, sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, transactions.Save(context.Background(), transaction))

	completedAt := time.Now()
	transaction.Status = saga.TransactionFailed
	transaction.CompletedAt = &completedAt
	transaction.ErrorMessage = faker.Sentence()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status")).
		WithArgs(transaction.ID, transaction.CorrelationID, transaction.FlowReference, "FAILED", 0, sqlmock.AnyArg(), completedAt, transaction.ErrorMessage).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, transactions.Save(context.Background(), transaction))

	errortest.AssertError(t, transactions.Save(context.Background(), nil), commonerrors.ErrUndefined)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStore_SaveErrors(t *testing.T) {
	tests := []struct {
		dbErr    error
		expected error
	}{
		{dbErr: &pq.Error{Code: "08003", Message: "connection does not exist"}, expected: commonerrors.ErrUnavailable},
		{dbErr: context.DeadlineExceeded, expected: commonerrors.ErrTimeout},
		{dbErr: context.Canceled, expected: commonerrors.ErrCancelled},
		{dbErr: &pq.Error{Code: "23502", Message: "not null violation"}, expected: commonerrors.ErrUnexpected},
		{dbErr: errors.New(faker.Sentence()), expected: commonerrors.ErrUnexpected},
	}
	for i := range tests {
		test := tests[i]
		t.Run(test.expected.Error(), func(t *testing.T) {
			db, mock := newMockDB(t)
			transactions := newTransactionStore(t, db)
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO test_saga_transaction")).WillReturnError(test.dbErr)
			err := transactions.Save(context.Background(), &saga.Transaction{ID: faker.UUIDHyphenated(), Status: saga.TransactionCreated})
			errortest.AssertError(t, err, test.expected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactionStore_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		transactions := newTransactionStore(t, db)
		id := faker.UUIDHyphenated()
		startedAt := time.Now().Add(-time.Minute).UTC()
		completedAt := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, correlation_id, flow_reference, status, current_group_index, started_at, completed_at, error_message FROM test_saga_transaction WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(transactionColumnNames).AddRow(id, "correlation", "flow", "COMPLETED", 2, startedAt, completedAt, nil))
		transaction, err := transactions.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, transaction.ID)
		assert.Equal(t, "correlation", transaction.CorrelationID)
		assert.Equal(t, "flow", transaction.FlowReference)
		assert.Equal(t, saga.TransactionCompleted, transaction.Status)
		assert.Equal(t, 2, transaction.CurrentGroupIndex)
		assert.True(t, startedAt.Equal(transaction.StartedAt))
		require.NotNil(t, transaction.CompletedAt)
		assert.True(t, completedAt.Equal(*transaction.CompletedAt))
		assert.Empty(t, transaction.ErrorMessage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		transactions := newTransactionStore(t, db)
		mock.ExpectQuery(regexp.QuoteMeta("FROM test_saga_transaction")).WillReturnRows(sqlmock.NewRows(transactionColumnNames))
		transaction, err := transactions.FindByID(context.Background(), faker.UUIDHyphenated())
		errortest.AssertError(t, err, commonerrors.ErrNotFound)
		assert.Nil(t, transaction)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("empty identifier", func(t *testing.T) {
		db, _ := newMockDB(t)
		_, err := newTransactionStore(t, db).FindByID(context.Background(), "")
		errortest.AssertError(t, err, commonerrors.ErrUndefined)
	})
}

func TestStepStore_Save(t *testing.T) {
	db, mock := newMockDB(t)
	_, steps, err := New(db, "")
	require.NoError(t, err)
	step := &saga.Step{
		ID:            faker.UUIDHyphenated(),
		TransactionID: faker.UUIDHyphenated(),
		StepName:      "reserve",
		ActionType:    "RESERVE",
		Order:         3,
		Status:        saga.StepCompleted,
		StartedAt:     time.Now(),
		ResultData:    "reserved",
		Compensated:   true,
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saga_step")).
		WithArgs(step.ID, step.TransactionID, "reserve", "RESERVE", 3, "COMPLETED", sqlmock.AnyArg(), nil, "reserved", nil, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, steps.Save(context.Background(), step))
	errortest.AssertError(t, steps.Save(context.Background(), &saga.Step{}), commonerrors.ErrUndefined)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStepStore_FindByTransaction(t *testing.T) {
	t.Run("steps in insertion order", func(t *testing.T) {
		db, mock := newMockDB(t)
		steps := newStepStore(t, db)
		transactionID := faker.UUIDHyphenated()
		now := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("FROM test_saga_step WHERE transaction_id = $1 ORDER BY seq")).
			WithArgs(transactionID).
			WillReturnRows(sqlmock.NewRows(stepColumnNames).
				AddRow("b", transactionID, "second", "B", 1, "FAILED", now, now, nil, "broken", false).
				AddRow("a", transactionID, "first", "A", 0, "COMPLETED", now, now, "done", nil, true))
		found, err := steps.FindByTransaction(context.Background(), transactionID)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "second", found[0].StepName)
		assert.Equal(t, saga.StepFailed, found[0].Status)
		assert.Equal(t, "broken", found[0].ErrorMessage)
		assert.Empty(t, found[0].ResultData)
		assert.False(t, found[0].Compensated)
		assert.Equal(t, "first", found[1].StepName)
		assert.Equal(t, "done", found[1].ResultData)
		assert.True(t, found[1].Compensated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("unknown transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM test_saga_step")).WillReturnRows(sqlmock.NewRows(stepColumnNames))
		found, err := newStepStore(t, db).FindByTransaction(context.Background(), faker.UUIDHyphenated())
		require.NoError(t, err)
		assert.Empty(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("connection lost", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM test_saga_step")).WillReturnError(&pq.Error{Code: "08006"})
		_, err := newStepStore(t, db).FindByTransaction(context.Background(), faker.UUIDHyphenated())
		errortest.AssertError(t, err, commonerrors.ErrUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
