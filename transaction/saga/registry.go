/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"slices"

	"github.com/sasha-s/go-deadlock"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// Registry maps action types to the handlers executing and compensating them.
// It is populated at start-up and handed to the orchestrator.
type Registry struct {
	mu            deadlock.RWMutex
	steps         map[string]IStepHandler
	compensations map[string]ICompensationHandler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		steps:         map[string]IStepHandler{},
		compensations: map[string]ICompensationHandler{},
	}
}

// Register registers the handlers of an action type. compensation can be nil if the action cannot be undone.
func (r *Registry) Register(actionType string, step IStepHandler, compensation ICompensationHandler) error {
	if err := r.RegisterStepHandler(actionType, step); err != nil {
		return err
	}
	if compensation == nil {
		return nil
	}
	return r.RegisterCompensationHandler(actionType, compensation)
}

// RegisterStepHandler registers the handler executing an action type.
func (r *Registry) RegisterStepHandler(actionType string, handler IStepHandler) error {
	if actionType == "" {
		return commonerrors.UndefinedVariable("action type")
	}
	if handler == nil {
		return commonerrors.UndefinedVariable("step handler")
	}
	defer r.mu.Unlock()
	r.mu.Lock()
	if _, found := r.steps[actionType]; found {
		return commonerrors.Newf(commonerrors.ErrConflict, "a step handler is already registered for action type '%v'", actionType)
	}
	r.steps[actionType] = handler
	return nil
}

// RegisterCompensationHandler registers the handler compensating an action type.
func (r *Registry) RegisterCompensationHandler(actionType string, handler ICompensationHandler) error {
	if actionType == "" {
		return commonerrors.UndefinedVariable("action type")
	}
	if handler == nil {
		return commonerrors.UndefinedVariable("compensation handler")
	}
	defer r.mu.Unlock()
	r.mu.Lock()
	if _, found := r.compensations[actionType]; found {
		return commonerrors.Newf(commonerrors.ErrConflict, "a compensation handler is already registered for action type '%v'", actionType)
	}
	r.compensations[actionType] = handler
	return nil
}

func (r *Registry) StepHandler(actionType string) (handler IStepHandler, found bool) {
	defer r.mu.RUnlock()
	r.mu.RLock()
	handler, found = r.steps[actionType]
	return
}

func (r *Registry) CompensationHandler(actionType string) (handler ICompensationHandler, found bool) {
	defer r.mu.RUnlock()
	r.mu.RLock()
	handler, found = r.compensations[actionType]
	return
}

// ActionTypes returns the sorted list of action types with a step handler.
func (r *Registry) ActionTypes() []string {
	defer r.mu.RUnlock()
	r.mu.RLock()
	types := make([]string, 0, len(r.steps))
	for actionType := range r.steps {
		types = append(types, actionType)
	}
	slices.Sort(types)
	return types
}
