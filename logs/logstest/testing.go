/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package logstest provides loggers for tests.
package logstest

import (
	"testing"

	"github.com/bombsimon/logrusr/v4"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	logrusTest "github.com/sirupsen/logrus/hooks/test"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/logs/logrimp"
)

// NewNullTestLogger returns a logger to nothing
func NewNullTestLogger() logr.Logger {
	return logrimp.NewNoopLogger()
}

// NewRecordingTestLogger returns a logger discarding its output but recording every entry in the hook returned.
func NewRecordingTestLogger() (logr.Logger, *logrusTest.Hook) {
	internalLogger, hook := logrusTest.NewNullLogger()
	return logrusr.New(internalLogger), hook
}

// NewStdTestLogger returns a test logger to standard output.
func NewStdTestLogger() logr.Logger {
	return logrimp.NewStdOutLogr(1)
}

// NewTestLogger returns a logger writing to the test output.
func NewTestLogger(t *testing.T) logr.Logger {
	return testr.New(t)
}
