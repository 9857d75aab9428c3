/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package config

import (
	"reflect"
	"strings"
)

// ValidateEmbedded uses reflection to find embedded structures and validate them.
func ValidateEmbedded(cfg Validator) error {
	r := reflect.ValueOf(cfg)
	if r.Kind() != reflect.Ptr || r.IsNil() {
		return nil
	}
	r = r.Elem()
	for i := 0; i < r.NumField(); i++ {
		f := r.Field(i)
		if f.Kind() != reflect.Struct {
			continue
		}
		validator, ok := f.Addr().Interface().(Validator)
		if !ok {
			continue
		}
		if err := wrapFieldValidationError(r.Type().Field(i), validator.Validate()); err != nil {
			return err
		}
	}
	return nil
}

func wrapFieldValidationError(field reflect.StructField, err error) error {
	if err == nil {
		return nil
	}
	mapStructureStr, hasTag := field.Tag.Lookup("mapstructure")
	var mapStructure *string
	if hasTag {
		processed := processMapStructureString(mapStructureStr)
		if processed != "" {
			mapStructure = &processed
		}
	}
	return WrapFieldValidationError(field.Name, mapStructure, nil, err)
}

// processMapStructureString returns the key name of a mapstructure tag without its options.
func processMapStructureString(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	name = strings.TrimSpace(name)
	if name == "-" {
		return ""
	}
	return name
}
