/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package sqlstore

import (
	"database/sql"
	"time"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

type transactionRow struct {
	ID                string         `db:"id"`
	CorrelationID     string         `db:"correlation_id"`
	FlowReference     string         `db:"flow_reference"`
	Status            string         `db:"status"`
	CurrentGroupIndex int            `db:"current_group_index"`
	StartedAt         time.Time      `db:"started_at"`
	CompletedAt       sql.NullTime   `db:"completed_at"`
	ErrorMessage      sql.NullString `db:"error_message"`
}

func newTransactionRow(t *saga.Transaction) transactionRow {
	return transactionRow{
		ID:                t.ID,
		CorrelationID:     t.CorrelationID,
		FlowReference:     t.FlowReference,
		Status:            string(t.Status),
		CurrentGroupIndex: t.CurrentGroupIndex,
		StartedAt:         t.StartedAt,
		CompletedAt:       nullTime(t.CompletedAt),
		ErrorMessage:      nullString(t.ErrorMessage),
	}
}

func (r *transactionRow) toTransaction() *saga.Transaction {
	return &saga.Transaction{
		ID:                r.ID,
		CorrelationID:     r.CorrelationID,
		FlowReference:     r.FlowReference,
		Status:            saga.TransactionStatus(r.Status),
		CurrentGroupIndex: r.CurrentGroupIndex,
		StartedAt:         r.StartedAt,
		CompletedAt:       timePointer(r.CompletedAt),
		ErrorMessage:      r.ErrorMessage.String,
	}
}

type stepRow struct {
	ID            string         `db:"id"`
	TransactionID string         `db:"transaction_id"`
	StepName      string         `db:"step_name"`
	ActionType    string         `db:"action_type"`
	Order         int            `db:"step_order"`
	Status        string         `db:"status"`
	StartedAt     time.Time      `db:"started_at"`
	CompletedAt   sql.NullTime   `db:"completed_at"`
	ResultData    sql.NullString `db:"result_data"`
	ErrorMessage  sql.NullString `db:"error_message"`
	Compensated   bool           `db:"compensated"`
}

func newStepRow(s *saga.Step) stepRow {
	return stepRow{
		ID:            s.ID,
		TransactionID: s.TransactionID,
		StepName:      s.StepName,
		ActionType:    s.ActionType,
		Order:         s.Order,
		Status:        string(s.Status),
		StartedAt:     s.StartedAt,
		CompletedAt:   nullTime(s.CompletedAt),
		ResultData:    nullString(s.ResultData),
		ErrorMessage:  nullString(s.ErrorMessage),
		Compensated:   s.Compensated,
	}
}

func (r *stepRow) toStep() saga.Step {
	return saga.Step{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		StepName:      r.StepName,
		ActionType:    r.ActionType,
		Order:         r.Order,
		Status:        saga.StepStatus(r.Status),
		StartedAt:     r.StartedAt,
		CompletedAt:   timePointer(r.CompletedAt),
		ResultData:    r.ResultData.String,
		ErrorMessage:  r.ErrorMessage.String,
		Compensated:   r.Compensated,
	}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePointer(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
