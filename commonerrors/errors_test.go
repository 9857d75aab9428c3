/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package commonerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAny(t *testing.T) {
	assert.True(t, Any(ErrNotImplemented, ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.False(t, Any(ErrNotImplemented, ErrInvalid, ErrUnknown))
	assert.True(t, Any(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.False(t, Any(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrUnknown))
}

func TestNone(t *testing.T) {
	assert.False(t, None(ErrNotImplemented, ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.True(t, None(ErrNotImplemented, ErrInvalid, ErrUnknown))
	assert.False(t, None(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.True(t, None(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrUnknown))
}

func TestNew(t *testing.T) {
	reason := faker.Sentence()
	err := New(ErrNotFound, reason)
	assert.True(t, Any(err, ErrNotFound))
	assert.Equal(t, fmt.Sprintf("%v: %v", ErrNotFound.Error(), reason), err.Error())
	assert.Equal(t, ErrTimeout, New(ErrTimeout, ""))
	assert.Equal(t, reason, New(nil, reason).Error())
	assert.True(t, Any(Newf(ErrInvalid, "%v is wrong", faker.Word()), ErrInvalid))
}

func TestWrapError(t *testing.T) {
	original := errors.New(faker.Sentence())
	wrapped := WrapError(ErrUnexpected, original, "something happened")
	assert.True(t, Any(wrapped, ErrUnexpected))
	assert.True(t, CorrespondTo(wrapped, original.Error()))
	assert.True(t, CorrespondTo(wrapped, "something happened"))

	alreadyTyped := New(ErrNotFound, faker.Word())
	rewrapped := WrapError(ErrNotFound, alreadyTyped, "lookup")
	assert.True(t, Any(rewrapped, ErrNotFound))
	assert.True(t, errors.Is(rewrapped, alreadyTyped))
	assert.Equal(t, alreadyTyped, WrapError(ErrNotFound, alreadyTyped, ""))

	assert.True(t, Any(WrapError(ErrTimeout, nil, "no cause"), ErrTimeout))
	assert.True(t, Any(WrapErrorf(ErrInvalid, original, "item %v", 1), ErrInvalid))
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join())
	assert.NoError(t, Join(nil, nil))
	assert.Equal(t, ErrInvalid, Join(nil, ErrInvalid, nil))
	err := Join(ErrInvalid, ErrTimeout)
	require.Error(t, err)
	assert.True(t, Any(err, ErrInvalid))
	assert.True(t, Any(err, ErrTimeout))
}

func TestIgnore(t *testing.T) {
	assert.NoError(t, Ignore(New(ErrEOF, faker.Word()), ErrEOF))
	assert.Error(t, Ignore(ErrInvalid, ErrEOF))
}

func TestContextErrors(t *testing.T) {
	assert.NoError(t, ErrFromContext(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, Any(ErrFromContext(ctx), ErrCancelled))

	tctx, tcancel := context.WithTimeout(context.Background(), 0)
	defer tcancel()
	<-tctx.Done()
	assert.True(t, Any(ErrFromContext(tctx), ErrTimeout))
	assert.True(t, IsTimeout(ErrFromContext(tctx)))
}

func TestIsEmpty(t *testing.T) {
	var nilPointer *struct{ error }
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(nilPointer))
	assert.False(t, IsEmpty(ErrInvalid))
}
