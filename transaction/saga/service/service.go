/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package service assembles a saga orchestrator from a configuration: logger, stores, persistence retries and telemetry.
package service

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/logs/logrimp"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga/store"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/transaction/saga/telemetry"
)

type options struct {
	logger         *logr.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	events         []*saga.Events
	orchestrator   []saga.Option
}

type Option func(*options)

// WithLogger overrides the logger described by the logging configuration.
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithRegisterer sets where saga metrics are registered when telemetry is enabled. prometheus.DefaultRegisterer is used otherwise.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = registerer
	}
}

// WithTracerProvider sets the provider of saga spans when telemetry is enabled. The global provider is used otherwise.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = provider
	}
}

// WithEvents adds hooks notified of the progress of sagas.
func WithEvents(events *saga.Events) Option {
	return func(o *options) {
		o.events = append(o.events, events)
	}
}

// WithOrchestratorOptions adds options applied to the orchestrator after the configuration.
func WithOrchestratorOptions(opts ...saga.Option) Option {
	return func(o *options) {
		o.orchestrator = append(o.orchestrator, opts...)
	}
}

// Service is a configured saga orchestrator together with the resources it holds.
type Service struct {
	*saga.Orchestrator
	Logger  logr.Logger
	Metrics *telemetry.Metrics
	stores  *store.Stores
}

// New creates the service described by the configuration. The default configuration is used if cfg is nil.
func New(ctx context.Context, cfg *saga.Configuration, registry *saga.Registry, opts ...Option) (s *Service, err error) {
	if registry == nil {
		err = commonerrors.UndefinedVariable("step registry")
		return
	}
	if cfg == nil {
		cfg = saga.DefaultConfiguration()
	}
	err = cfg.Validate()
	if err != nil {
		return
	}
	o := &options{
		registerer: prometheus.DefaultRegisterer,
	}
	for i := range opts {
		if opts[i] != nil {
			opts[i](o)
		}
	}

	var logger logr.Logger
	if o.logger != nil {
		logger = *o.logger
	} else {
		logger, err = logrimp.New(&cfg.Logging)
		if err != nil {
			return
		}
	}

	events := o.events
	var metrics *telemetry.Metrics
	if cfg.TelemetryEnabled {
		metrics, err = telemetry.NewMetrics(o.registerer)
		if err != nil {
			return
		}
		provider := o.tracerProvider
		if provider == nil {
			provider = otel.GetTracerProvider()
		}
		events = append(events, metrics.Events(), telemetry.NewTracingEvents(provider))
	}

	backend, err := store.NewFromConfiguration(ctx, &cfg.Store, logger)
	if err != nil {
		return
	}
	stores, err := store.NewRetryingStores(backend, &cfg.PersistenceRetry, logger)
	if err != nil {
		_ = backend.Close()
		return
	}

	orchestratorOptions := append([]saga.Option{
		saga.WithConfiguration(cfg),
		saga.WithLogger(logger),
		saga.WithEvents(saga.CombineEvents(events...)),
	}, o.orchestrator...)
	orchestrator, err := saga.NewOrchestrator(registry, stores.Transactions, stores.Steps, orchestratorOptions...)
	if err != nil {
		_ = stores.Close()
		return
	}
	logger.Info("saga service ready", "store", cfg.Store.Backend, "telemetry", cfg.TelemetryEnabled)
	s = &Service{
		Orchestrator: orchestrator,
		Logger:       logger,
		Metrics:      metrics,
		stores:       stores,
	}
	return
}

// Close waits for running sagas and releases the stores.
func (s *Service) Close() error {
	return commonerrors.Join(s.Orchestrator.Close(), s.stores.Close())
}

// Shutdown is similar to Close but stops waiting for running sagas when ctx is done.
// Stores are only released once no saga is running.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.Orchestrator.Shutdown(ctx)
	if err != nil {
		return err
	}
	return s.stores.Close()
}
