/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package commonerrors defines typical errors which can happen and helpers to wrap, compare and serialise them.
package commonerrors

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrNoLogger       = errors.New("missing logger")
	ErrNoLoggerSource = errors.New("missing logger source")
	ErrUndefined      = errors.New("undefined")
	ErrTimeout        = errors.New("timeout")
	ErrLocked         = errors.New("locked")
	ErrNotFound       = errors.New("not found")
	ErrUnsupported    = errors.New("unsupported")
	ErrUnavailable    = errors.New("unavailable")
	ErrUnknown        = errors.New("unknown")
	ErrInvalid        = errors.New("invalid")
	ErrConflict       = errors.New("conflict")
	ErrMarshalling    = errors.New("unserialisable")
	ErrCancelled      = errors.New("cancelled")
	ErrUnexpected     = errors.New("unexpected")
	ErrCondition      = errors.New("failed condition")
	ErrFailed         = errors.New("failed")
	ErrEOF            = errors.New("end of file")
)

// commonErrors lists the errors which can be recognised when deserialising.
var commonErrors = []error{
	ErrNotImplemented,
	ErrNoLogger,
	ErrNoLoggerSource,
	ErrUndefined,
	ErrTimeout,
	ErrLocked,
	ErrNotFound,
	ErrUnsupported,
	ErrUnavailable,
	ErrUnknown,
	ErrInvalid,
	ErrConflict,
	ErrMarshalling,
	ErrCancelled,
	ErrUnexpected,
	ErrCondition,
	ErrFailed,
	ErrEOF,
}

// Any determines whether the target error is of the same type as any of the errors `err`
func Any(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return true
		}
	}
	return false
}

// None determines whether the target error is of none of the types of the errors `err`
func None(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return false
		}
	}
	return true
}

// CorrespondTo determines whether the description of the target error contains any of the descriptions provided.
func CorrespondTo(target error, description ...string) bool {
	if target == nil {
		return false
	}
	desc := strings.ToLower(target.Error())
	for i := range description {
		if strings.Contains(desc, strings.ToLower(description[i])) {
			return true
		}
	}
	return false
}

// New returns an error of type `errorType` with a reason.
func New(errorType error, message string) error {
	if message == "" {
		return errorType
	}
	if errorType == nil {
		return errors.New(message)
	}
	return fmt.Errorf("%w%v %v", errorType, string(TypeReasonErrorSeparator), message)
}

// Newf is similar to New but allows formatting the reason.
func Newf(errorType error, format string, args ...any) error {
	return New(errorType, fmt.Sprintf(format, args...))
}

// WrapError wraps an error `originalErr` into a type `targetErr` and adds a reason.
// If the original error is already of the target type, it is only annotated with the reason.
func WrapError(targetErr, originalErr error, message string) error {
	if originalErr == nil {
		return New(targetErr, message)
	}
	if targetErr == nil || Any(originalErr, targetErr) {
		if message == "" {
			return originalErr
		}
		return fmt.Errorf("%v%v %w", message, string(TypeReasonErrorSeparator), originalErr)
	}
	if message == "" {
		return fmt.Errorf("%w%v %v", targetErr, string(TypeReasonErrorSeparator), originalErr.Error())
	}
	return fmt.Errorf("%w%v %v%v %v", targetErr, string(TypeReasonErrorSeparator), message, string(TypeReasonErrorSeparator), originalErr.Error())
}

// WrapErrorf is similar to WrapError but allows formatting the reason.
func WrapErrorf(targetErr, originalErr error, format string, args ...any) error {
	return WrapError(targetErr, originalErr, fmt.Sprintf(format, args...))
}

// UndefinedVariable returns an undefined error for a variable.
func UndefinedVariable(variableName string) error {
	return Newf(ErrUndefined, "%v is undefined", variableName)
}

// UndefinedParameter returns an undefined error for a parameter.
func UndefinedParameter(parameterName string) error {
	return Newf(ErrUndefined, "parameter `%v` is undefined", parameterName)
}

// Join returns an error wrapping the errors provided. Nil errors are discarded and nil is returned if no error is left.
func Join(errs ...error) error {
	var nonNil []error
	for i := range errs {
		if !IsEmpty(errs[i]) {
			nonNil = append(nonNil, errs[i])
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return errors.Join(nonNil...)
	}
}

// Ignore returns nil if `target` is of any of the types in `ignore`. Otherwise, it returns `target`.
func Ignore(target error, ignore ...error) error {
	if Any(target, ignore...) {
		return nil
	}
	return target
}

// IsEmpty states whether an error is empty or not (nil or pointer to nil).
func IsEmpty(err any) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// ConvertContextError converts a context error into a common error.
func ConvertContextError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case Any(err, ErrTimeout, ErrCancelled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return WrapError(ErrTimeout, err, "")
	case errors.Is(err, context.Canceled):
		return WrapError(ErrCancelled, err, "")
	default:
		return err
	}
}

// ErrFromContext returns the common error corresponding to the context state if any.
func ErrFromContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ConvertContextError(ctx.Err())
}

// IsTimeout states whether the error corresponds to a timeout.
func IsTimeout(err error) bool {
	return Any(err, ErrTimeout, context.DeadlineExceeded)
}

func deserialiseCommonError(errStr string) (bool, error) {
	errStr = strings.TrimSpace(errStr)
	for i := range commonErrors {
		if strings.EqualFold(commonErrors[i].Error(), errStr) {
			return true, commonErrors[i]
		}
	}
	return false, nil
}
