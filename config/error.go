/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// IValidationError defines a typical structure validation error.
type IValidationError interface {
	error
	fmt.Stringer
	GetMapStructurePath() string
	GetTreePath() string
	GetReason() string
	Unwrap() error
	RecordField(fieldName string, mapStructureFieldName *string, mapStructurePrefix *string)
	RecordPrefix(mapStructurePrefix string)
}

// WrapFieldValidationError creates an error resulting from the validation of a field in a structure
func WrapFieldValidationError(fieldName string, mapStructure, prefix *string, err error) IValidationError {
	vErr := newValidationError(err)
	if vErr == nil {
		return nil
	}
	vErr.RecordField(fieldName, mapStructure, prefix)
	return vErr
}

// WrapValidationError creates an error resulting from the validation of a structure
func WrapValidationError(prefix *string, err error) IValidationError {
	vErr := newValidationError(err)
	if vErr == nil {
		return nil
	}
	if prefix != nil {
		vErr.RecordPrefix(*prefix)
	}
	return vErr
}

type validationError struct {
	tree               []string
	mapStructureTree   []string
	mapStructurePrefix *string
	reason             string
}

func (v *validationError) RecordField(fieldName string, mapStructureFieldName *string, mapStructurePrefix *string) {
	v.tree = append([]string{strings.TrimSpace(fieldName)}, v.tree...)
	if mapStructureFieldName != nil {
		v.mapStructureTree = append([]string{strings.ToUpper(strings.TrimSpace(*mapStructureFieldName))}, v.mapStructureTree...)
	}
	v.mapStructurePrefix = mapStructurePrefix
}

func (v *validationError) RecordPrefix(mapStructurePrefix string) {
	v.mapStructurePrefix = &mapStructurePrefix
}

func (v *validationError) Error() string {
	mapstructureStr := v.GetMapStructurePath()
	if mapstructureStr != "" {
		mapstructureStr = fmt.Sprintf(" [%v]", mapstructureStr)
	}
	treeStr := v.GetTreePath()
	if treeStr != "" {
		treeStr = fmt.Sprintf(" (%v)", treeStr)
	}
	reasonStr := v.GetReason()
	if reasonStr != "" {
		reasonStr = " " + reasonStr
	}
	return commonerrors.Newf(v.Unwrap(), "structure failed validation:%v%v%v", treeStr, mapstructureStr, reasonStr).Error()
}

func (v *validationError) GetMapStructurePath() string {
	if len(v.mapStructureTree) == 0 {
		return ""
	}
	mapstructureStr := strings.ReplaceAll(strings.Join(v.mapStructureTree, EnvVarSeparator), "-", EnvVarSeparator)
	if v.mapStructurePrefix != nil {
		mapstructureStr = fmt.Sprintf("%v%v%v", strings.ToUpper(strings.TrimSpace(*v.mapStructurePrefix)), EnvVarSeparator, mapstructureStr)
	}
	return mapstructureStr
}

func (v *validationError) GetTreePath() string {
	return strings.Join(v.tree, "->")
}

func (v *validationError) GetReason() string {
	return v.reason
}

func (v *validationError) Unwrap() error {
	return commonerrors.ErrInvalid
}

func (v *validationError) String() string {
	return v.Error()
}

func newValidationError(err error) *validationError {
	if err == nil {
		return nil
	}
	var vErr *validationError
	if errors.As(err, &vErr) {
		return vErr
	}
	var oe validation.Error
	if errors.As(err, &oe) {
		veo := &validationError{reason: oe.Message()}
		if params := slices.Sorted(maps.Keys(oe.Params())); len(params) > 0 {
			veo.RecordField(params[0], nil, nil)
		}
		return veo
	}
	var oes validation.Errors
	if errors.As(err, &oes) && len(oes) > 0 {
		// only the first field in alphabetical order is reported
		param := slices.Sorted(maps.Keys(oes))[0]
		veo := newValidationError(oes[param])
		veo.RecordField(param, &param, nil)
		return veo
	}
	return &validationError{reason: err.Error()}
}
