/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"context"
	"fmt"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// Action types of the synthetic steps added by the builder.
const (
	ActionTypeSplit     = "SPLIT"
	ActionTypeJoin      = "JOIN"
	ActionTypeScatter   = "SCATTER"
	ActionTypeAggregate = "AGGREGATE"
)

// Parameters holding the function of synthetic steps.
const (
	ParameterSplitFunction     = "splitFunction"
	ParameterJoinFunction      = "joinFunction"
	ParameterScatterFunction   = "scatterFunction"
	ParameterAggregateFunction = "aggregateFunction"
)

// TopologyFunc is the function run by a synthetic step. The string returned is recorded as result of the step.
type TopologyFunc func(ctx context.Context, sagaCtx *Context) (string, error)

var topologyParameters = []struct {
	actionType string
	parameter  string
}{
	{actionType: ActionTypeSplit, parameter: ParameterSplitFunction},
	{actionType: ActionTypeJoin, parameter: ParameterJoinFunction},
	{actionType: ActionTypeScatter, parameter: ParameterScatterFunction},
	{actionType: ActionTypeAggregate, parameter: ParameterAggregateFunction},
}

// RegisterTopologyHandlers registers the step handlers of the synthetic steps created by the builder.
// They have no compensation.
func RegisterTopologyHandlers(registry *Registry) error {
	if registry == nil {
		return commonerrors.UndefinedVariable("step registry")
	}
	var errs []error
	for _, p := range topologyParameters {
		errs = append(errs, registry.RegisterStepHandler(p.actionType, newTopologyHandler(p.parameter)))
	}
	return commonerrors.Join(errs...)
}

func newTopologyHandler(parameter string) StepHandlerFunc {
	return func(ctx context.Context, definition StepDefinition, sagaCtx *Context) StepResult {
		raw, found := definition.Parameter(parameter)
		if !found || raw == nil {
			return Failed(fmt.Sprintf("missing parameter '%v'", parameter))
		}
		var fn TopologyFunc
		switch f := raw.(type) {
		case TopologyFunc:
			fn = f
		case func(context.Context, *Context) (string, error):
			fn = f
		default:
			return Failed(fmt.Sprintf("parameter '%v' is a %T and not a topology function", parameter, raw))
		}
		if fn == nil {
			return Failed(fmt.Sprintf("parameter '%v' is undefined", parameter))
		}
		data, err := fn(ctx, sagaCtx)
		if err != nil {
			return Failed(err.Error())
		}
		return Succeeded(data)
	}
}
