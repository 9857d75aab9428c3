/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package logrimp

import (
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/hashicorp/go-hclog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

const (
	BackendNoop   = "noop"
	BackendStdout = "stdout"
	BackendZap    = "zap"
	BackendLogrus = "logrus"
	BackendHclog  = "hclog"
	BackendStdlib = "stdlib"
)

var backends = []string{BackendNoop, BackendStdout, BackendZap, BackendLogrus, BackendHclog, BackendStdlib}

// Configuration describes the logger to create.
type Configuration struct {
	Backend string `mapstructure:"backend"`
	Name    string `mapstructure:"name"`
	// Verbosity is the highest logr V-level emitted.
	Verbosity int  `mapstructure:"verbosity"`
	Quiet     bool `mapstructure:"quiet"`
}

// DefaultConfiguration returns a configuration discarding every entry.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Backend: BackendNoop,
	}
}

func (cfg *Configuration) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.Backend, validation.Required, validation.By(isKnownBackend)),
		validation.Field(&cfg.Verbosity, validation.Min(0)),
	)
}

// Backend names are case-insensitive.
func isKnownBackend(value any) error {
	backend, _ := value.(string)
	if !slices.Contains(backends, strings.ToLower(backend)) {
		return validation.NewError("validation_in_invalid", "must be one of "+strings.Join(backends, ", "))
	}
	return nil
}

// New creates a logger according to the configuration.
func New(cfg *Configuration) (logger logr.Logger, err error) {
	if cfg == nil {
		err = commonerrors.UndefinedVariable("logger configuration")
		return
	}
	err = cfg.Validate()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid logger configuration")
		return
	}
	backend := strings.ToLower(cfg.Backend)
	switch backend {
	case BackendStdout:
		logger = NewStdOutLogr(cfg.Verbosity)
	case BackendZap:
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-cfg.Verbosity))
		var zl *zap.Logger
		zl, err = zapCfg.Build()
		if err != nil {
			err = commonerrors.WrapError(commonerrors.ErrUnexpected, err, "could not create zap logger")
			return
		}
		logger = NewZapLogger(zl)
	case BackendLogrus:
		ll := logrus.New()
		ll.SetLevel(logrus.Level(int(logrus.InfoLevel) + cfg.Verbosity))
		logger = NewLogrusLogger(ll)
	case BackendStdlib:
		stdr.SetVerbosity(cfg.Verbosity)
		logger = NewStdLogger(nil)
	case BackendHclog:
		level := hclog.Info
		if cfg.Verbosity > 0 {
			level = hclog.Debug
		}
		logger = NewHclogLogger(hclog.New(&hclog.LoggerOptions{Name: cfg.Name, Level: level}))
	default:
		logger = NewNoopLogger()
	}
	if cfg.Name != "" && backend != BackendHclog {
		logger = logger.WithName(cfg.Name)
	}
	if cfg.Quiet {
		logger = NewQuietLogger(logger)
	}
	return
}
