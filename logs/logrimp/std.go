/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package logrimp

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// NewStdLogger returns a logger writing through a standard library logger, or to standard error if none is given.
// stdr verbosity is process-wide, see stdr.SetVerbosity.
func NewStdLogger(logger *log.Logger) logr.Logger {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return stdr.New(logger)
}
