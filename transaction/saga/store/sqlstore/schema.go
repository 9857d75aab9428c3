/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package sqlstore persists saga transactions and steps in PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

const (
	// DriverName is the name of the database/sql driver used.
	DriverName = "postgres"

	transactionTable = "saga_transaction"
	stepTable        = "saga_step"
)

var validTablePrefix = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)?$`)

// Open connects to the PostgreSQL database described by the data source name.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, commonerrors.UndefinedVariable("data source name")
	}
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, convertError(err, "could not connect to the database")
	}
	return db, nil
}

// InitSchema creates the saga tables if they do not exist.
func InitSchema(ctx context.Context, db *sqlx.DB, tablePrefix string) error {
	if db == nil {
		return commonerrors.UndefinedVariable("database")
	}
	statements, err := schema(tablePrefix)
	if err != nil {
		return err
	}
	for i := range statements {
		_, err = db.ExecContext(ctx, statements[i])
		if err != nil {
			return convertError(err, "could not create the saga schema")
		}
	}
	return nil
}

// tableName returns the prefixed table name. The prefix ends up in SQL statements and is therefore checked.
func tableName(tablePrefix, table string) (string, error) {
	if !validTablePrefix.MatchString(tablePrefix) {
		return "", commonerrors.Newf(commonerrors.ErrInvalid, "invalid table prefix '%v'", tablePrefix)
	}
	return tablePrefix + table, nil
}

func schema(tablePrefix string) ([]string, error) {
	transactions, err := tableName(tablePrefix, transactionTable)
	if err != nil {
		return nil, err
	}
	steps, err := tableName(tablePrefix, stepTable)
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %v (
	id TEXT PRIMARY KEY,
	correlation_id TEXT NOT NULL,
	flow_reference TEXT NOT NULL,
	status TEXT NOT NULL,
	current_group_index INTEGER NOT NULL DEFAULT 0,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NULL,
	error_message TEXT NULL
)`, transactions),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %v (
	seq BIGSERIAL,
	id TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL,
	step_name TEXT NOT NULL,
	action_type TEXT NOT NULL,
	step_order INTEGER NOT NULL,
	status TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NULL,
	result_data TEXT NULL,
	error_message TEXT NULL,
	compensated BOOLEAN NOT NULL DEFAULT FALSE
)`, steps),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %v_transaction_idx ON %v (transaction_id, seq)`, steps, steps),
	}, nil
}

// connectionErrorClass is the SQLSTATE class of connection exceptions.
const connectionErrorClass = "08"

func convertError(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return commonerrors.WrapError(nil, commonerrors.ConvertContextError(err), message)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == connectionErrorClass {
		return commonerrors.WrapError(commonerrors.ErrUnavailable, err, message)
	}
	if commonerrors.Any(err, driver.ErrBadConn, sql.ErrConnDone) {
		return commonerrors.WrapError(commonerrors.ErrUnavailable, err, message)
	}
	return commonerrors.WrapError(commonerrors.ErrUnexpected, err, message)
}
