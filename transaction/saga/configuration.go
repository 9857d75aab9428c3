/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

package saga

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/config"
	configValidation "github.com/cjbester78/integrixs-flow-bridge-sub002/config/validation"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/logs/logrimp"
	"github.com/cjbester78/integrixs-flow-bridge-sub002/retry"
)

const (
	DefaultParallelTimeout = 5 * time.Minute
	DefaultEnvVarPrefix    = "saga"

	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

var validIdentifierPrefix = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Configuration describes how an orchestrator runs sagas and where it persists them.
type Configuration struct {
	// ParallelTimeout is the deadline of parallel groups which do not define their own.
	ParallelTimeout time.Duration `mapstructure:"parallel_timeout"`
	// Workers bounds the number of parallel steps running at the same time across every saga. 0 means unbounded.
	Workers          int                            `mapstructure:"workers"`
	PersistenceRetry retry.RetryPolicyConfiguration `mapstructure:"persistence_retry"`
	Store            StoreConfiguration             `mapstructure:"store"`
	Logging          logrimp.Configuration          `mapstructure:"logging"`
	TelemetryEnabled bool                           `mapstructure:"telemetry_enabled"`
}

func (cfg *Configuration) Validate() error {
	err := config.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}

	return config.WrapValidationError(nil, validation.ValidateStruct(cfg,
		validation.Field(&cfg.ParallelTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&cfg.Workers, validation.Min(0)),
	))
}

// DefaultConfiguration returns an in-memory configuration with a 5-minute parallel deadline.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		ParallelTimeout:  DefaultParallelTimeout,
		Workers:          0,
		PersistenceRetry: *retry.DefaultExponentialBackoffRetryPolicyConfiguration(),
		Store:            *DefaultStoreConfiguration(),
		Logging:          *logrimp.DefaultConfiguration(),
	}
}

// LoadConfiguration loads the configuration from the environment using the prefix given e.g. SAGA_PARALLEL_TIMEOUT.
func LoadConfiguration(envVarPrefix string) (*Configuration, error) {
	cfg := &Configuration{}
	err := config.Load(envVarPrefix, cfg, DefaultConfiguration())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// StoreConfiguration describes the persistence backend of transactions and steps.
type StoreConfiguration struct {
	Backend       string `mapstructure:"backend"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	RedisAddress  string `mapstructure:"redis_address"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	// KeyPrefix is prepended to every Redis key.
	KeyPrefix string `mapstructure:"key_prefix"`
	// TablePrefix is prepended to every PostgreSQL table name.
	TablePrefix string `mapstructure:"table_prefix"`
}

func (cfg *StoreConfiguration) Validate() error {
	return config.WrapValidationError(nil, validation.ValidateStruct(cfg,
		validation.Field(&cfg.Backend, validation.Required, validation.In(StoreBackendMemory, StoreBackendPostgres, StoreBackendRedis)),
		validation.Field(&cfg.PostgresDSN, validation.Required.When(cfg.Backend == StoreBackendPostgres)),
		validation.Field(&cfg.RedisAddress, validation.Required.When(cfg.Backend == StoreBackendRedis), configValidation.IsHostPort()),
		validation.Field(&cfg.RedisDB, validation.Min(0)),
		validation.Field(&cfg.TablePrefix, validation.Match(validIdentifierPrefix)),
	))
}

// DefaultStoreConfiguration returns an in-memory store configuration.
func DefaultStoreConfiguration() *StoreConfiguration {
	return &StoreConfiguration{
		Backend:   StoreBackendMemory,
		KeyPrefix: "saga:",
	}
}
