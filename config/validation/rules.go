/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package validation provides ozzo-validation rules shared by configurations.
package validation

import (
	"net"
	"reflect"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

// IsPort checks the value is a valid port number whether it is given as an integer or a string.
func IsPort() validation.Rule {
	return validation.By(func(vRaw any) (err error) {
		val := reflect.ValueOf(vRaw)
		switch val.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			err = is.Port.Validate(strconv.FormatInt(val.Int(), 10))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			err = is.Port.Validate(strconv.FormatUint(val.Uint(), 10))
		case reflect.String:
			err = is.Port.Validate(val.String())
		default:
			return commonerrors.Newf(commonerrors.ErrMarshalling, "unsupported type for port validation: %T", vRaw)
		}
		if err != nil {
			err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "")
		}
		return
	})
}

// IsHostPort checks the value is an address of the form `host:port`.
func IsHostPort() validation.Rule {
	return validation.By(func(vRaw any) error {
		address, ok := vRaw.(string)
		if !ok {
			return commonerrors.Newf(commonerrors.ErrMarshalling, "unsupported type for address validation: %T", vRaw)
		}
		if address == "" {
			return nil
		}
		host, port, err := net.SplitHostPort(address)
		if err != nil {
			return commonerrors.WrapError(commonerrors.ErrInvalid, err, "")
		}
		if host == "" {
			return commonerrors.New(commonerrors.ErrInvalid, "missing host")
		}
		return IsPort().Validate(port)
	})
}
