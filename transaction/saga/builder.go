/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"fmt"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// Builder assembles the step groups of a saga.
type Builder struct {
	groups []StepGroup
	errs   []error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Sequential appends a group whose steps run one after the other.
func (b *Builder) Sequential(definitions ...StepDefinition) *Builder {
	return b.add(ExecutionModeSequential, 0, definitions)
}

// Parallel appends a group whose steps run concurrently.
func (b *Builder) Parallel(definitions ...StepDefinition) *Builder {
	return b.add(ExecutionModeParallel, 0, definitions)
}

// ParallelWithTimeout is similar to Parallel but the group has its own deadline.
func (b *Builder) ParallelWithTimeout(timeout time.Duration, definitions ...StepDefinition) *Builder {
	return b.add(ExecutionModeParallel, timeout, definitions)
}

// Split appends a synthetic SPLIT step followed by a parallel group of definitions.
func (b *Builder) Split(splitFn TopologyFunc, definitions ...StepDefinition) *Builder {
	if splitFn == nil {
		b.errs = append(b.errs, commonerrors.UndefinedParameter("split function"))
		return b
	}
	return b.synthetic("split", ActionTypeSplit, ParameterSplitFunction, splitFn).Parallel(definitions...)
}

// Join appends a synthetic JOIN step.
func (b *Builder) Join(joinFn TopologyFunc) *Builder {
	if joinFn == nil {
		b.errs = append(b.errs, commonerrors.UndefinedParameter("join function"))
		return b
	}
	return b.synthetic("join", ActionTypeJoin, ParameterJoinFunction, joinFn)
}

// ForkJoin appends a parallel group of definitions followed by the join step.
func (b *Builder) ForkJoin(forkDefinitions []StepDefinition, joinDefinition StepDefinition) *Builder {
	return b.Parallel(forkDefinitions...).Sequential(joinDefinition)
}

// ScatterGather appends a synthetic SCATTER step, a parallel group of definitions and a synthetic AGGREGATE step.
func (b *Builder) ScatterGather(scatterFn TopologyFunc, gatherDefinitions []StepDefinition, aggregateFn TopologyFunc) *Builder {
	if scatterFn == nil || aggregateFn == nil {
		b.errs = append(b.errs, commonerrors.UndefinedParameter("scatter or aggregate function"))
		return b
	}
	return b.synthetic("scatter", ActionTypeScatter, ParameterScatterFunction, scatterFn).
		Parallel(gatherDefinitions...).
		synthetic("aggregate", ActionTypeAggregate, ParameterAggregateFunction, aggregateFn)
}

// Build returns the groups assembled so far once validated.
func (b *Builder) Build() ([]StepGroup, error) {
	if len(b.errs) > 0 {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, commonerrors.Join(b.errs...), "invalid saga topology")
	}
	groups := cloneGroups(b.groups)
	err := ValidateGroups(groups)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (b *Builder) add(mode ExecutionMode, timeout time.Duration, definitions []StepDefinition) *Builder {
	b.groups = append(b.groups, StepGroup{
		Mode:    mode,
		Steps:   slices.Clone(definitions),
		Timeout: timeout,
	})
	return b
}

func (b *Builder) synthetic(prefix, actionType, parameter string, fn TopologyFunc) *Builder {
	index := len(b.groups)
	return b.Sequential(NewStepDefinition(fmt.Sprintf("%v-%d", prefix, index), actionType, index, map[string]any{parameter: fn}))
}

func (d StepDefinition) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.ActionType, validation.Required),
	)
}

func (g StepGroup) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Mode, validation.Required, validation.In(ExecutionModeSequential, ExecutionModeParallel)),
		validation.Field(&g.Steps, validation.Required),
		validation.Field(&g.Timeout, validation.Min(time.Duration(0))),
	)
}

// ValidateGroups checks that groups can be executed: at least one group, no empty group and
// named definitions with an action type. Step names may repeat; their context entries are then last-write-wins.
func ValidateGroups(groups []StepGroup) error {
	if len(groups) == 0 {
		return commonerrors.New(commonerrors.ErrInvalid, "a saga needs at least one step group")
	}
	for i := range groups {
		if err := groups[i].Validate(); err != nil {
			return commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "step group %d is invalid", i)
		}
	}
	return nil
}
