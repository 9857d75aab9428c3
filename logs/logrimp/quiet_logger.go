/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package logrimp

import (
	"github.com/go-logr/logr"
)

type quietSink struct {
	logger logr.Logger
}

func (l *quietSink) Init(_ logr.RuntimeInfo) {
	// ignored.
}

func (l *quietSink) Enabled(int) bool {
	return false
}

func (l *quietSink) Info(_ int, _ string, _ ...any) {
	// ignored.
}

func (l *quietSink) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(err, msg, keysAndValues...)
}

func (l *quietSink) WithValues(keysAndValues ...any) logr.LogSink {
	return &quietSink{logger: l.logger.WithValues(keysAndValues...)}
}

func (l *quietSink) WithName(name string) logr.LogSink {
	return &quietSink{logger: l.logger.WithName(name)}
}

// NewQuietLogger returns a logger which only forwards errors to the underlying logger.
func NewQuietLogger(logger logr.Logger) logr.Logger {
	return logr.New(&quietSink{logger: logger})
}
