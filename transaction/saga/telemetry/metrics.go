/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
)

const (
	namespace = "saga"

	OutcomeCompensated = "compensated"
	OutcomeFailed      = "failed"
	OutcomeSkipped     = "skipped"
	StatusTimedOut     = "TIMED_OUT"
)

// Metrics holds the Prometheus collectors describing saga executions.
type Metrics struct {
	Transactions  *prometheus.CounterVec
	Steps         *prometheus.CounterVec
	StepDuration  *prometheus.HistogramVec
	Compensations *prometheus.CounterVec
	Running       prometheus.Gauge
}

// NewMetrics creates the saga collectors and registers them.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		return nil, commonerrors.UndefinedVariable("prometheus registerer")
	}
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Total saga transactions finished by final status.",
		}, []string{"status"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Total saga steps finished by action type and status.",
		}, []string{"action_type", "status"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of saga steps in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action_type"}),
		Compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensations_total",
			Help:      "Total compensations of saga steps by outcome.",
		}, []string{"outcome"}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions_running",
			Help:      "Number of saga transactions being executed.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Transactions, m.Steps, m.StepDuration, m.Compensations, m.Running} {
		if err := registerer.Register(c); err != nil {
			return nil, commonerrors.WrapError(commonerrors.ErrConflict, err, "could not register saga metrics")
		}
	}
	return m, nil
}

// Events returns the hooks updating the collectors.
func (m *Metrics) Events() *saga.Events {
	return &saga.Events{
		OnTransactionStart: func(_ context.Context, _ saga.Transaction) {
			m.Running.Inc()
		},
		OnTransactionComplete: func(_ context.Context, transaction saga.Transaction, _ saga.Result) {
			m.Running.Dec()
			m.Transactions.WithLabelValues(transaction.Status.String()).Inc()
		},
		OnTransactionFailed: func(_ context.Context, transaction saga.Transaction, _ saga.Result) {
			m.Running.Dec()
			m.Transactions.WithLabelValues(saga.TransactionFailed.String()).Inc()
		},
		OnStepComplete: func(_ context.Context, step saga.Step, duration time.Duration) {
			m.observeStep(step, saga.StepCompleted.String(), duration)
		},
		OnStepFailed: func(_ context.Context, step saga.Step, _ error, duration time.Duration) {
			m.observeStep(step, saga.StepFailed.String(), duration)
		},
		OnStepTimeout: func(_ context.Context, step saga.Step, timeout time.Duration) {
			m.observeStep(step, StatusTimedOut, timeout)
		},
		OnCompensationComplete: func(_ context.Context, _ saga.Step) {
			m.Compensations.WithLabelValues(OutcomeCompensated).Inc()
		},
		OnCompensationFailed: func(_ context.Context, _ saga.Step, _ error) {
			m.Compensations.WithLabelValues(OutcomeFailed).Inc()
		},
		OnCompensationSkipped: func(_ context.Context, _ saga.Step, _ string) {
			m.Compensations.WithLabelValues(OutcomeSkipped).Inc()
		},
	}
}

func (m *Metrics) observeStep(step saga.Step, status string, duration time.Duration) {
	m.Steps.WithLabelValues(step.ActionType, status).Inc()
	m.StepDuration.WithLabelValues(step.ActionType).Observe(duration.Seconds())
}
