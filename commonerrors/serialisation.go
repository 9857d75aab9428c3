/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package commonerrors

import (
	"errors"
	"fmt"
	"strings"
)

const (
	TypeReasonErrorSeparator = ':'
	MultipleErrorSeparator   = '\n'
)

// SerialiseError marshals an error following a certain convention: `error type: reason`.
// Joined errors are serialised one per line.
func SerialiseError(err error) ([]byte, error) {
	if IsEmpty(err) {
		return nil, nil
	}
	var lines []string
	if multiple, ok := err.(interface{ Unwrap() []error }); ok {
		for _, subErr := range multiple.Unwrap() {
			if line := serialiseLine(subErr); line != "" {
				lines = append(lines, line)
			}
		}
	} else if line := serialiseLine(err); line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, Newf(ErrMarshalling, "error `%T` with no description cannot be serialised", err)
	}
	return []byte(strings.Join(lines, string(MultipleErrorSeparator))), nil
}

// DeserialiseError unmarshals text into an error. It tries to determine the error type of each line.
func DeserialiseError(text []byte) (deserialisedError, err error) {
	if len(text) == 0 {
		return
	}
	var errs []error
	for _, line := range strings.Split(string(text), string(MultipleErrorSeparator)) {
		if subErr := deserialiseLine(line); subErr != nil {
			errs = append(errs, subErr)
		}
	}
	if len(errs) == 0 {
		err = New(ErrMarshalling, "no error could be found in text")
		return
	}
	deserialisedError = Join(errs...)
	return
}

func serialiseLine(err error) string {
	if IsEmpty(err) {
		return ""
	}
	desc := strings.TrimSpace(strings.ReplaceAll(err.Error(), string(MultipleErrorSeparator), " "))
	for i := range commonErrors {
		if errors.Is(err, commonErrors[i]) {
			typeStr := commonErrors[i].Error()
			if strings.HasPrefix(desc, typeStr) {
				return desc
			}
			return fmt.Sprintf("%v%v %v", typeStr, string(TypeReasonErrorSeparator), desc)
		}
	}
	return desc
}

func deserialiseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	elems := strings.SplitN(line, string(TypeReasonErrorSeparator), 2)
	found, commonErr := deserialiseCommonError(elems[0])
	if !found {
		return errors.New(line)
	}
	if len(elems) == 1 {
		return commonErr
	}
	return New(commonErr, strings.TrimSpace(elems[1]))
}
